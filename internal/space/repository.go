package space

import (
	"context"
	"fmt"
	"log/slog"

	"spacetime-server/internal/shared/database"
	"spacetime-server/internal/shared/errors"
)

// Repository is the Postgres journal of created spaces. Rows are only ever
// appended; replaying them in ID order rebuilds the registry.
type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing space repository")
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Insert(ctx context.Context, n Node) error {
	logger := r.logger.With(
		"component", "space_repository",
		"operation", "insert",
		"space_id", n.ID,
	)

	query := `
		INSERT INTO spaces (id, parent_id, kind, name)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, int(n.ID), int(n.Parent), n.Kind.String(), n.Name)
	if err != nil {
		if database.IsUniqueViolation(err) {
			logger.Debug("Space id already taken", "error", err)
			return errors.Conflictf("space %d already exists", n.ID)
		}
		return errors.WrapInternal("failed to insert space", err)
	}

	logger.Debug("Space stored", "kind", n.Kind, "parent_id", n.Parent)
	return nil
}

// ListFrom returns the stored nodes with id >= from, in ID order.
func (r *Repository) ListFrom(ctx context.Context, from ID) ([]Node, error) {
	logger := r.logger.With(
		"component", "space_repository",
		"operation", "list_from",
		"from", from,
	)

	query := `
		SELECT id, parent_id, kind, name
		FROM spaces
		WHERE id >= $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, int(from))
	if err != nil {
		return nil, errors.WrapInternal("failed to list spaces", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var nodes []Node
	for rows.Next() {
		var (
			id, parent int
			kind, name string
		)
		if err := rows.Scan(&id, &parent, &kind, &name); err != nil {
			return nil, errors.WrapInternal("failed to scan space", err)
		}

		k, err := ParseKind(kind)
		if err != nil {
			return nil, errors.WrapInternal(fmt.Sprintf("space %d has unreadable kind", id), err)
		}
		nodes = append(nodes, Node{ID: ID(id), Parent: ID(parent), Kind: k, Name: name})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.WrapInternal("error iterating spaces", err)
	}

	logger.Debug("Spaces loaded", "count", len(nodes))
	return nodes, nil
}
