package space

import "iter"

// Space is a handle to a node of a Registry. Handles are only obtained from
// a Registry; the zero Space refers to nothing: it has no ancestors, is
// contained in nothing and reports the zero Node.
type Space struct {
	reg *Registry
	id  ID
}

func (s Space) ID() ID        { return s.id }
func (s Space) Kind() Kind    { return s.node().Kind }
func (s Space) Name() string  { return s.node().Name }
func (s Space) Node() Node    { return s.node() }
func (s Space) IsRoot() bool  { return s.reg != nil && s.node().Parent == s.id }
func (s Space) Valid() bool   { return s.reg != nil }
func (s Space) Parent() Space { return Space{reg: s.reg, id: s.node().Parent} }

func (s Space) node() Node {
	if s.reg == nil {
		return Node{}
	}
	return s.reg.node(s.id)
}

// Ancestors yields s, its parent, and so on up to the root, which is always
// the last element. The sequence can be ranged over repeatedly. The zero
// Space yields nothing.
func (s Space) Ancestors() iter.Seq[Space] {
	return func(yield func(Space) bool) {
		if s.reg == nil {
			return
		}
		id := s.id
		for {
			if !yield(Space{reg: s.reg, id: id}) {
				return
			}
			parent := s.reg.node(id).Parent
			if parent == id {
				return
			}
			id = parent
		}
	}
}

// IsSubspaceOf reports whether other is s or one of its ancestors.
func (s Space) IsSubspaceOf(other Space) bool {
	if s.reg == nil || s.reg != other.reg {
		return false
	}
	for a := range s.Ancestors() {
		if a.id == other.id {
			return true
		}
	}
	return false
}

// IsSuperspaceOf reports whether other is a subspace of s.
func (s Space) IsSuperspaceOf(other Space) bool {
	return other.IsSubspaceOf(s)
}

// FindAncestorOfKind returns the nearest space of the given kind, starting
// with s itself.
func (s Space) FindAncestorOfKind(kind Kind) (Space, bool) {
	for a := range s.Ancestors() {
		if a.Kind().Is(kind) {
			return a, true
		}
	}
	return Space{}, false
}

// EnclosingUniverse returns the nearest universe containing s.
func (s Space) EnclosingUniverse() (Space, bool) {
	return s.FindAncestorOfKind(KindUniverse)
}

// Depth is the number of ancestors above s; the root has depth 0 and the
// zero Space -1.
func (s Space) Depth() int {
	depth := -1
	for range s.Ancestors() {
		depth++
	}
	return depth
}

// Path returns the ancestors of s from the root down to s.
func (s Space) Path() []Space {
	var path []Space
	for a := range s.Ancestors() {
		path = append(path, a)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
