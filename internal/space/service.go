package space

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync"

	"spacetime-server/internal/shared/errors"
)

// Journal persists created spaces in ID order.
type Journal interface {
	Insert(ctx context.Context, n Node) error
	ListFrom(ctx context.Context, from ID) ([]Node, error)
}

// Relation describes how two spaces of the same tree are nested.
type Relation struct {
	Space      ID   `json:"space_id"`
	Other      ID   `json:"other_id"`
	Subspace   bool `json:"subspace"`
	Superspace bool `json:"superspace"`
}

// Service keeps the in-memory registry in step with the journal. Writers
// are serialized so that the ID a node is stored under is the ID the
// registry gives it.
type Service struct {
	mu       sync.Mutex
	reg      *Registry
	journal  Journal
	cache    AncestorCache
	rootName string
	logger   *slog.Logger
}

func NewService(journal Journal, cache AncestorCache, rootName string, logger *slog.Logger) *Service {
	if cache == nil {
		cache = noCache{}
	}
	return &Service{
		reg:      NewRegistry(),
		journal:  journal,
		cache:    cache,
		rootName: rootName,
		logger:   logger,
	}
}

// Registry exposes the registry for read-only traversal.
func (s *Service) Registry() *Registry {
	return s.reg
}

// Bootstrap replays the journal. An empty journal gets a fresh Paradox root
// and the ancestor cache is flushed, since any cached chains belong to an
// older tree.
func (s *Service) Bootstrap(ctx context.Context) error {
	logger := s.logger.With("component", "space_service", "operation", "bootstrap")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.syncLocked(ctx); err != nil {
		return err
	}

	if s.reg.Len() > 0 {
		logger.Info("Space tree restored", "spaces", s.reg.Len())
		return nil
	}

	if err := s.cache.Flush(ctx); err != nil {
		logger.Warn("Failed to flush ancestor cache", "error", err)
	}

	root, err := s.createLocked(ctx, NoParent, KindParadox, s.rootName)
	if err != nil {
		return err
	}
	logger.Info("Created root space", "space_id", root.ID, "name", root.Name)
	return nil
}

// Create adds a space under parent, or under the root when parent is
// NoParent.
func (s *Service) Create(ctx context.Context, parent ID, kind Kind, name string) (Node, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Node{}, errors.Validation("space name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.createLocked(ctx, parent, kind, name)
	if errors.GetType(err) == errors.ErrorTypeConflict {
		// Another writer took the ID; catch up and try once more.
		if syncErr := s.syncLocked(ctx); syncErr != nil {
			return Node{}, syncErr
		}
		n, err = s.createLocked(ctx, parent, kind, name)
	}
	if err != nil {
		return Node{}, err
	}

	s.logger.With("component", "space_service", "operation", "create").
		Info("Space created", "space_id", n.ID, "parent_id", n.Parent, "kind", n.Kind)
	return n, nil
}

func (s *Service) createLocked(ctx context.Context, parent ID, kind Kind, name string) (Node, error) {
	n, err := s.reg.Plan(parent, kind, name)
	if err != nil {
		return Node{}, domainError(err)
	}
	if err := s.journal.Insert(ctx, n); err != nil {
		return Node{}, err
	}
	if _, err := s.reg.Restore(n); err != nil {
		return Node{}, errors.WrapInternal("stored space could not be restored", err)
	}
	return n, nil
}

// syncLocked applies journal rows the registry has not seen yet.
func (s *Service) syncLocked(ctx context.Context) error {
	nodes, err := s.journal.ListFrom(ctx, s.reg.NextID())
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if _, err := s.reg.Restore(n); err != nil {
			return errors.WrapInternal("journal does not replay", err)
		}
	}
	return nil
}

// Lookup returns the space with the given ID, catching up with the journal
// when the ID is not known yet.
func (s *Service) Lookup(ctx context.Context, id ID) (Space, error) {
	if sp, ok := s.reg.Get(id); ok {
		return sp, nil
	}

	if id >= s.reg.NextID() {
		s.mu.Lock()
		err := s.syncLocked(ctx)
		s.mu.Unlock()
		if err != nil {
			return Space{}, err
		}
		if sp, ok := s.reg.Get(id); ok {
			return sp, nil
		}
	}
	return Space{}, errors.NotFoundf("space %d not found", id)
}

func (s *Service) Get(ctx context.Context, id ID) (Node, error) {
	sp, err := s.Lookup(ctx, id)
	if err != nil {
		return Node{}, err
	}
	return sp.Node(), nil
}

// Ancestors returns the chain from the space up to the root, inclusive.
func (s *Service) Ancestors(ctx context.Context, id ID) ([]Node, error) {
	logger := s.logger.With("component", "space_service", "operation", "ancestors", "space_id", id)

	sp, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	chain, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		logger.Warn("Ancestor cache unavailable", "error", err)
	}
	if ok {
		if nodes, valid := s.resolve(chain, id); valid {
			logger.Debug("Ancestor cache hit", "depth", len(nodes))
			return nodes, nil
		}
		logger.Warn("Discarding stale ancestor cache entry", "chain", chain)
	}

	var nodes []Node
	for a := range sp.Ancestors() {
		nodes = append(nodes, a.Node())
	}

	ids := make([]ID, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	if err := s.cache.Set(ctx, id, ids); err != nil {
		logger.Warn("Failed to cache ancestors", "error", err)
	}
	return nodes, nil
}

// resolve maps a cached chain to nodes, rejecting chains that do not match
// the registry.
func (s *Service) resolve(chain []ID, id ID) ([]Node, bool) {
	if len(chain) == 0 || chain[0] != id || chain[len(chain)-1] != RootID {
		return nil, false
	}
	nodes := make([]Node, len(chain))
	for i, cid := range chain {
		sp, ok := s.reg.Get(cid)
		if !ok {
			return nil, false
		}
		nodes[i] = sp.Node()
		if i > 0 && nodes[i-1].Parent != cid {
			return nil, false
		}
	}
	return nodes, true
}

// FindAncestor returns the nearest space of the given kind enclosing id,
// the space itself included.
func (s *Service) FindAncestor(ctx context.Context, id ID, kind Kind) (Node, error) {
	if !kind.Valid() {
		return Node{}, errors.Validationf("unknown kind %d", int(kind))
	}

	sp, err := s.Lookup(ctx, id)
	if err != nil {
		return Node{}, err
	}

	found, ok := sp.FindAncestorOfKind(kind)
	if !ok {
		return Node{}, errors.NotFoundf("space %d is not inside a %s", id, kind)
	}
	return found.Node(), nil
}

func (s *Service) Relation(ctx context.Context, id, other ID) (Relation, error) {
	a, err := s.Lookup(ctx, id)
	if err != nil {
		return Relation{}, err
	}
	b, err := s.Lookup(ctx, other)
	if err != nil {
		return Relation{}, err
	}

	return Relation{
		Space:      id,
		Other:      other,
		Subspace:   a.IsSubspaceOf(b),
		Superspace: a.IsSuperspaceOf(b),
	}, nil
}

func (s *Service) Children(ctx context.Context, id ID) ([]Node, error) {
	if _, err := s.Lookup(ctx, id); err != nil {
		return nil, err
	}

	children := s.reg.Children(id)
	nodes := make([]Node, len(children))
	for i, c := range children {
		nodes[i] = c.Node()
	}
	return nodes, nil
}

// Within reports whether id lies inside container. Unknown IDs are errors.
func (s *Service) Within(ctx context.Context, id, container ID) (bool, error) {
	rel, err := s.Relation(ctx, id, container)
	if err != nil {
		return false, err
	}
	return rel.Subspace, nil
}

// Kinds lists the kinds together with the kind each one requires.
func (s *Service) Kinds() []KindInfo {
	all := Kinds()
	infos := make([]KindInfo, len(all))
	for i, k := range all {
		infos[i] = KindInfo{Kind: k, Base: k.Base(), Requires: k.Requires()}
	}
	return infos
}

// KindInfo is the public description of a kind.
type KindInfo struct {
	Kind     Kind `json:"kind"`
	Base     Kind `json:"base"`
	Requires Kind `json:"requires"`
}

func domainError(err error) error {
	switch {
	case stderrors.Is(err, ErrUnknownSpace):
		return errors.WrapNotFound("parent space not found", err)
	case stderrors.Is(err, ErrUnknownKind):
		return errors.WrapValidation("cannot create space", err)
	case IsContainmentError(err):
		return errors.WrapValidation("cannot create space", err)
	default:
		return errors.WrapInternal("cannot create space", err)
	}
}
