package event

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"spacetime-server/internal/instant"
	"spacetime-server/internal/shared/database"
	"spacetime-server/internal/shared/errors"
	"spacetime-server/internal/space"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing event repository")
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Insert stores the instant as its exact decimal value together with the
// display form, and the block and native parts for ordering.
func (r *Repository) Insert(ctx context.Context, e Event) error {
	logger := r.logger.With(
		"component", "event_repository",
		"operation", "insert",
		"event_id", e.ID,
	)

	query := `
		INSERT INTO events (id, space_id, title, at_exact, at_display, at_block, at_native, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID.String(),
		int(e.SpaceID),
		e.Title,
		e.At.Exact().String(),
		e.At.String(),
		e.At.BlockOffset().String(),
		e.At.NativeNanos(),
		e.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errors.Conflictf("event %s already exists", e.ID)
		}
		return errors.WrapInternal("failed to insert event", err)
	}

	logger.Debug("Event stored", "space_id", e.SpaceID)
	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Event, error) {
	query := `
		SELECT id, space_id, title, at_exact, created_at
		FROM events
		WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id.String()))
	if stderrors.Is(err, sql.ErrNoRows) {
		return Event{}, errors.NotFoundf("event %s not found", id)
	}
	if err != nil {
		return Event{}, errors.WrapInternal("failed to get event", err)
	}
	return e, nil
}

// ListInSpaces returns the events located in any of the given spaces,
// earliest first.
func (r *Repository) ListInSpaces(ctx context.Context, spaceIDs []space.ID) ([]Event, error) {
	logger := r.logger.With(
		"component", "event_repository",
		"operation", "list_in_spaces",
		"spaces", len(spaceIDs),
	)

	ids := make([]int64, len(spaceIDs))
	for i, id := range spaceIDs {
		ids[i] = int64(id)
	}

	query := `
		SELECT id, space_id, title, at_exact, created_at
		FROM events
		WHERE space_id = ANY($1)
		ORDER BY at_block, at_native, id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, errors.WrapInternal("failed to list events", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	events := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, errors.WrapInternal("failed to scan event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("error iterating events", err)
	}

	logger.Debug("Events loaded", "count", len(events))
	return events, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (Event, error) {
	var (
		id, title, exact string
		spaceID          int
		createdAt        time.Time
	)
	if err := row.Scan(&id, &spaceID, &title, &exact, &createdAt); err != nil {
		return Event{}, err
	}

	eventID, err := uuid.Parse(id)
	if err != nil {
		return Event{}, fmt.Errorf("bad event id %q: %w", id, err)
	}
	v, ok := new(big.Int).SetString(exact, 10)
	if !ok {
		return Event{}, fmt.Errorf("bad instant %q for event %s", exact, id)
	}

	return Event{
		ID:        eventID,
		SpaceID:   space.ID(spaceID),
		Title:     title,
		At:        instant.FromExact(v),
		CreatedAt: createdAt,
	}, nil
}
