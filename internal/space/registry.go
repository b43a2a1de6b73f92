// Package space models strict nesting of regions: every space sits inside
// exactly one parent, up to a single root whose parent is itself.
//
// Spaces live in a Registry arena and are addressed by ID; the root is
// always ID 0. A Registry replaces a process-wide root: the application
// creates one and threads it through every construction.
package space

import (
	"fmt"
	"sync"
)

// ID addresses a space within its registry.
type ID int

const (
	// RootID is the ID of the first space created in a registry.
	RootID ID = 0

	// NoParent asks for the registry root as parent, or for the new space to
	// become the root when the registry is empty.
	NoParent ID = -1
)

// Node is the stored form of a space.
type Node struct {
	ID     ID     `json:"id"`
	Parent ID     `json:"parent_id"`
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`
}

// Registry owns every space of one containment tree. Spaces are never
// removed or re-parented.
type Registry struct {
	mu    sync.RWMutex
	nodes []Node
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Create adds a space under the root. The first space created without a
// parent becomes the root.
func (r *Registry) Create(kind Kind, name string) (Space, error) {
	return r.CreateWithin(NoParent, kind, name)
}

// CreateWithin adds a space under parent, or under the root when parent is
// NoParent. It fails with a ContainmentError when the resulting ancestor
// chain lacks the kind required by kind.
func (r *Registry) CreateWithin(parent ID, kind Kind, name string) (Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.plan(parent, kind, name)
	if err != nil {
		return Space{}, err
	}
	r.nodes = append(r.nodes, n)
	return Space{reg: r, id: n.ID}, nil
}

// Validate reports the error CreateWithin would return, without creating
// anything.
func (r *Registry) Validate(parent ID, kind Kind) error {
	_, err := r.Plan(parent, kind, "")
	return err
}

// Plan returns the node CreateWithin would add, without adding it. The
// plan is only good until the registry changes.
func (r *Registry) Plan(parent ID, kind Kind, name string) (Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plan(parent, kind, name)
}

// Restore re-adds a stored node. Nodes must be restored in ID order and
// each one is validated exactly as if it were created again.
func (r *Registry) Restore(n Node) (Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if next := ID(len(r.nodes)); n.ID != next {
		return Space{}, fmt.Errorf("%w: got %d, want %d", ErrOutOfOrder, n.ID, next)
	}

	parent := n.Parent
	if n.ID == RootID {
		if n.Parent != RootID {
			return Space{}, fmt.Errorf("%w: root must be its own parent, got %d", ErrOutOfOrder, n.Parent)
		}
		parent = NoParent
	}

	planned, err := r.plan(parent, n.Kind, n.Name)
	if err != nil {
		return Space{}, err
	}
	r.nodes = append(r.nodes, planned)
	return Space{reg: r, id: planned.ID}, nil
}

func (r *Registry) plan(parent ID, kind Kind, name string) (Node, error) {
	resolved, err := r.validate(parent, kind)
	if err != nil {
		return Node{}, err
	}

	id := ID(len(r.nodes))
	if id == RootID {
		resolved = RootID
	}
	return Node{ID: id, Parent: resolved, Kind: kind, Name: name}, nil
}

// NextID returns the ID the next created space will receive.
func (r *Registry) NextID() ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return ID(len(r.nodes))
}

// validate resolves parent and checks the required kind against the chain
// the new space would have. Callers hold r.mu.
func (r *Registry) validate(parent ID, kind Kind) (ID, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}

	if len(r.nodes) == 0 {
		if parent != NoParent {
			return 0, fmt.Errorf("%w: %d (registry has no root yet)", ErrUnknownSpace, parent)
		}
		if !kind.Is(kind.Requires()) {
			return 0, &ContainmentError{Required: kind.Requires(), Attempted: kind}
		}
		return RootID, nil
	}

	if parent == NoParent {
		parent = RootID
	}
	if !r.exists(parent) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownSpace, parent)
	}

	required := kind.Requires()
	if kind.Is(required) {
		return parent, nil
	}
	for id := parent; ; id = r.nodes[id].Parent {
		if r.nodes[id].Kind.Is(required) {
			return parent, nil
		}
		if r.nodes[id].Parent == id {
			break
		}
	}
	return 0, &ContainmentError{Required: required, Attempted: kind}
}

func (r *Registry) exists(id ID) bool {
	return id >= 0 && int(id) < len(r.nodes)
}

// Root returns the root space, if any space was created.
func (r *Registry) Root() (Space, bool) {
	return r.Get(RootID)
}

// Get returns the space with the given ID.
func (r *Registry) Get(id ID) (Space, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.exists(id) {
		return Space{}, false
	}
	return Space{reg: r, id: id}, true
}

// Len returns the number of spaces in the registry.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Children returns the spaces whose parent is id, in creation order. The
// root is not its own child.
func (r *Registry) Children(id ID) []Space {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var children []Space
	for _, n := range r.nodes {
		if n.Parent == id && n.ID != id {
			children = append(children, Space{reg: r, id: n.ID})
		}
	}
	return children
}

// Nodes returns a copy of every stored node in ID order.
func (r *Registry) Nodes() []Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Node(nil), r.nodes...)
}

func (r *Registry) node(id ID) Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nodes[id]
}
