package source

import "hbm-source/internal/common"

// InheritanceType is the table strategy of a hierarchy.
type InheritanceType int

const (
	NoInheritance InheritanceType = iota
	SingleTable
	Joined
	TablePerClass
)

// String returns a human-readable inheritance type.
func (t InheritanceType) String() string {
	switch t {
	case NoInheritance:
		return "no_inheritance"
	case SingleTable:
		return "single_table"
	case Joined:
		return "joined"
	case TablePerClass:
		return "table_per_class"
	default:
		return common.UnknownStr
	}
}

// EntityHierarchy is one root entity and the transitive closure of its
// subclasses. Entities are stored in pre-order; superclass links are parent
// indexes into that order.
type EntityHierarchy struct {
	inheritance InheritanceType
	entities    []*EntitySource
	parents     []int
	byName      map[string]int
}

// Root returns the root entity.
func (h *EntityHierarchy) Root() *EntitySource {
	return h.entities[0]
}

// InheritanceType returns the table strategy of the hierarchy.
func (h *EntityHierarchy) InheritanceType() InheritanceType {
	return h.inheritance
}

// Entities returns every entity in pre-order, root first.
func (h *EntityHierarchy) Entities() []*EntitySource {
	return h.entities
}

// Entity looks up an entity by name.
func (h *EntityHierarchy) Entity(name string) (*EntitySource, bool) {
	i, ok := h.byName[name]
	if !ok {
		return nil, false
	}

	return h.entities[i], true
}

// Superclass returns the direct superclass of e, or nil for the root and
// for entities outside the hierarchy.
func (h *EntityHierarchy) Superclass(e *EntitySource) *EntitySource {
	i, ok := h.byName[e.EntityName]
	if !ok || h.parents[i] < 0 {
		return nil
	}

	return h.entities[h.parents[i]]
}

// Subclasses returns the direct subclasses of e in hierarchy order.
func (h *EntityHierarchy) Subclasses(e *EntitySource) []*EntitySource {
	i, ok := h.byName[e.EntityName]
	if !ok {
		return nil
	}

	var subs []*EntitySource

	for j, p := range h.parents {
		if p == i {
			subs = append(subs, h.entities[j])
		}
	}

	return subs
}
