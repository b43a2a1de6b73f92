package space

import (
	"fmt"
	"strings"
)

// Kind is the closed set of region variants.
type Kind int

const (
	// KindSpace matches every kind; requiring it is no constraint.
	KindSpace Kind = iota
	KindParadox
	KindUniverse
	KindPlanet
	KindNeighborhood
	KindBuilding
	KindHome
	KindHive
	KindRoom
)

type kindInfo struct {
	name string
	// base is the kind this variant specializes.
	base Kind
	// requires must appear somewhere in the ancestor chain, self included.
	requires Kind
}

var kinds = [...]kindInfo{
	KindSpace:        {name: "space", base: KindSpace, requires: KindSpace},
	KindParadox:      {name: "paradox", base: KindSpace, requires: KindSpace},
	KindUniverse:     {name: "universe", base: KindSpace, requires: KindSpace},
	KindPlanet:       {name: "planet", base: KindSpace, requires: KindSpace},
	KindNeighborhood: {name: "neighborhood", base: KindSpace, requires: KindSpace},
	KindBuilding:     {name: "building", base: KindSpace, requires: KindSpace},
	KindHome:         {name: "home", base: KindBuilding, requires: KindSpace},
	KindHive:         {name: "hive", base: KindBuilding, requires: KindSpace},
	KindRoom:         {name: "room", base: KindSpace, requires: KindBuilding},
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	all := make([]Kind, len(kinds))
	for k := range kinds {
		all[k] = Kind(k)
	}
	return all
}

func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kinds)
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kinds[k].name
}

// Base returns the kind k specializes. KindSpace is its own base.
func (k Kind) Base() Kind {
	if !k.Valid() {
		return KindSpace
	}
	return kinds[k].base
}

// Requires returns the kind that must appear in the ancestor chain of a
// space of kind k.
func (k Kind) Requires() Kind {
	if !k.Valid() {
		return KindSpace
	}
	return kinds[k].requires
}

// Is reports whether k is other or a specialization of it. Every kind is a
// KindSpace; KindHome and KindHive are KindBuilding.
func (k Kind) Is(other Kind) bool {
	if !k.Valid() || !other.Valid() {
		return false
	}
	for {
		if k == other {
			return true
		}
		if k == KindSpace {
			return false
		}
		k = kinds[k].base
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, info := range kinds {
		if info.name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
