package space

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"spacetime-server/internal/shared/database"
	"spacetime-server/internal/shared/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(&database.DB{DB: db}, quietLogger()), mock
}

func TestRepository_Insert(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("INSERT INTO spaces").
		WithArgs(4, 3, "home", "John's house").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), Node{ID: 4, Parent: 3, Kind: KindHome, Name: "John's house"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertConflict(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("INSERT INTO spaces").
		WithArgs(1, 0, "universe", "Beta").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Insert(context.Background(), Node{ID: 1, Parent: 0, Kind: KindUniverse, Name: "Beta"})
	assert.Equal(t, errors.ErrorTypeConflict, errors.GetType(err))
}

func TestRepository_ListFrom(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows([]string{"id", "parent_id", "kind", "name"}).
		AddRow(2, 1, "planet", "Earth").
		AddRow(3, 2, "neighborhood", "Suburbs")
	mock.ExpectQuery(`SELECT id, parent_id, kind, name\s+FROM spaces`).
		WithArgs(2).
		WillReturnRows(rows)

	nodes, err := repo.ListFrom(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []Node{
		{ID: 2, Parent: 1, Kind: KindPlanet, Name: "Earth"},
		{ID: 3, Parent: 2, Kind: KindNeighborhood, Name: "Suburbs"},
	}, nodes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListFromBadKind(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT id, parent_id, kind, name\s+FROM spaces`).
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id", "kind", "name"}).AddRow(0, 0, "galaxy", "Milky Way"))

	_, err := repo.ListFrom(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
