package event

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"spacetime-server/internal/instant"
	"spacetime-server/internal/shared/errors"
	"spacetime-server/internal/space"

	"github.com/google/uuid"
)

type Store interface {
	Insert(ctx context.Context, e Event) error
	Get(ctx context.Context, id uuid.UUID) (Event, error)
	ListInSpaces(ctx context.Context, spaceIDs []space.ID) ([]Event, error)
}

type Service struct {
	store  Store
	spaces *space.Service
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, spaces *space.Service, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		spaces: spaces,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Event{}, errors.Validation("event title is required")
	}
	if strings.TrimSpace(req.At) == "" {
		return Event{}, errors.Validation("event instant is required")
	}

	at, err := instant.ParseString(req.At)
	if err != nil {
		return Event{}, errors.WrapValidation("invalid event instant", err)
	}

	if _, err := s.spaces.Lookup(ctx, req.SpaceID); err != nil {
		return Event{}, err
	}

	e := Event{
		ID:        uuid.New(),
		SpaceID:   req.SpaceID,
		Title:     title,
		At:        at,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Insert(ctx, e); err != nil {
		return Event{}, err
	}

	s.logger.With("component", "event_service", "operation", "create").
		Info("Event recorded", "event_id", e.ID, "space_id", e.SpaceID, "at", e.At.String())
	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Event, error) {
	return s.store.Get(ctx, id)
}

// Within lists the events located in container or in any space inside it,
// earliest first.
func (s *Service) Within(ctx context.Context, container space.ID) ([]Event, error) {
	outer, err := s.spaces.Lookup(ctx, container)
	if err != nil {
		return nil, err
	}

	var ids []space.ID
	reg := s.spaces.Registry()
	for _, n := range reg.Nodes() {
		sp, ok := reg.Get(n.ID)
		if ok && sp.IsSubspaceOf(outer) {
			ids = append(ids, n.ID)
		}
	}

	return s.store.ListInSpaces(ctx, ids)
}
