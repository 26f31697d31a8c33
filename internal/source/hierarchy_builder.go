package source

import (
	"cmp"
	"slices"
	"sort"
	"strings"

	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/match"
)

// entityNode is one arena slot of the hierarchy builder.
type entityNode struct {
	source *EntitySource
	// parent is the arena index of the superclass, -1 while unknown and for roots.
	parent   int
	children []int
}

// pendingExtension is a subclass waiting for its superclass to be seen.
type pendingExtension struct {
	node      int
	superName string
	doc       *MappingDocument
}

// HierarchyBuilder assembles entity hierarchies across documents processed
// in any order. Subclasses whose superclass is not known yet wait in a
// worklist that Build drains to a fixpoint. A builder serves one resolution
// run and is not safe for concurrent use.
type HierarchyBuilder struct {
	nodes   []*entityNode
	byName  map[string]int
	roots   []int
	pending []pendingExtension
	// warnings are the tolerated irregularities of every processed document.
	warnings diagnostic.Diagnostics

	// current is the document being processed.
	current *MappingDocument
}

// NewHierarchyBuilder returns an empty builder.
func NewHierarchyBuilder() *HierarchyBuilder {
	return &HierarchyBuilder{byName: make(map[string]int)}
}

// ProcessDocument adds the classes of one document. Root classes start new
// hierarchies; subclasses attach to a known superclass or wait for it.
func (b *HierarchyBuilder) ProcessDocument(doc *MappingDocument) error {
	b.current = doc
	defer func() { b.current = nil }()

	for _, decl := range doc.Root().Classes {
		if decl.Kind == descriptor.ClassRoot {
			idx, err := b.add(decl)
			if err != nil {
				return err
			}

			b.roots = append(b.roots, idx)

			err = b.processSubclasses(decl.Class.Subclasses, idx)
			if err != nil {
				return err
			}

			continue
		}

		err := b.processTopLevelSubclass(decl)
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *HierarchyBuilder) processTopLevelSubclass(decl descriptor.ClassDeclaration) error {
	idx, err := b.add(decl)
	if err != nil {
		return err
	}

	err = b.processSubclasses(decl.Subclass.Subclasses, idx)
	if err != nil {
		return err
	}

	entity := b.nodes[idx].source
	if decl.Subclass.Extends == "" {
		return b.current.MakeMappingError(diagnostic.KindStructuralConflict, entity.Origin.Element,
			"%s '%s' is not nested in its superclass and declares no extends", decl.Kind, entity.EntityName)
	}

	if parent, ok := b.lookup(b.current, decl.Subclass.Extends); ok {
		return b.attach(idx, parent, b.current)
	}

	b.pending = append(b.pending, pendingExtension{
		node:      idx,
		superName: decl.Subclass.Extends,
		doc:       b.current,
	})

	return nil
}

// processSubclasses adds nested subclass declarations under parent, depth first.
func (b *HierarchyBuilder) processSubclasses(decls []descriptor.ClassDeclaration, parent int) error {
	for _, decl := range decls {
		if decl.Kind == descriptor.ClassRoot {
			return b.current.MakeMappingError(diagnostic.KindStructuralConflict, b.nodes[parent].source.Origin.Element,
				"class element nested in '%s'", b.nodes[parent].source.EntityName)
		}

		idx, err := b.add(decl)
		if err != nil {
			return err
		}

		err = b.attach(idx, parent, b.current)
		if err != nil {
			return err
		}

		err = b.processSubclasses(decl.Subclass.Subclasses, idx)
		if err != nil {
			return err
		}
	}

	return nil
}

// add builds the entity source of decl and registers it by entity name.
func (b *HierarchyBuilder) add(decl descriptor.ClassDeclaration) (int, error) {
	entity, err := buildEntitySource(b.current, decl, &b.warnings)
	if err != nil {
		return -1, err
	}

	if existing, ok := b.byName[entity.EntityName]; ok {
		return -1, b.current.MakeMappingError(diagnostic.KindDuplicateMapping, entity.Origin.Element,
			"duplicate entity '%s', already mapped at %s", entity.EntityName, b.nodes[existing].source.Origin)
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, &entityNode{source: entity, parent: -1})
	b.byName[entity.EntityName] = idx

	return idx, nil
}

// Diagnostics returns the warnings collected so far.
func (b *HierarchyBuilder) Diagnostics() diagnostic.Diagnostics {
	return b.warnings
}

// lookup resolves an extends name, qualified by the referring document first.
func (b *HierarchyBuilder) lookup(doc *MappingDocument, name string) (int, bool) {
	if idx, ok := b.byName[doc.QualifyClassName(name)]; ok {
		return idx, true
	}

	idx, ok := b.byName[name]

	return idx, ok
}

// attach links node under parent, refusing links that close a cycle.
func (b *HierarchyBuilder) attach(node, parent int, doc *MappingDocument) error {
	for p := parent; p >= 0; p = b.nodes[p].parent {
		if p == node {
			entity := b.nodes[node].source
			return doc.MakeMappingError(diagnostic.KindUnresolvableReference, entity.Origin.Element,
				"cyclic extends chain through '%s'", entity.EntityName)
		}
	}

	b.nodes[node].parent = parent
	b.nodes[parent].children = append(b.nodes[parent].children, node)

	return nil
}

// Build drains the pending extensions and returns the hierarchies in the
// order their roots were seen. It fails once a full pass over the pending
// extensions resolves none of them.
func (b *HierarchyBuilder) Build() ([]*EntityHierarchy, error) {
	for len(b.pending) > 0 {
		var waiting []pendingExtension

		for _, p := range b.pending {
			parent, ok := b.lookup(p.doc, p.superName)
			if !ok {
				waiting = append(waiting, p)
				continue
			}

			err := b.attach(p.node, parent, p.doc)
			if err != nil {
				return nil, err
			}
		}

		if len(waiting) == len(b.pending) {
			return nil, b.unresolvable(waiting)
		}

		b.pending = waiting
	}

	for i, n := range b.nodes {
		if n.parent < 0 && !b.isRoot(i) {
			return nil, diagnostic.NewMappingError(diagnostic.KindUnresolvableReference, n.source.Origin,
				"entity '%s' is not connected to any root class", n.source.EntityName)
		}
	}

	hierarchies := make([]*EntityHierarchy, 0, len(b.roots))

	for _, root := range b.roots {
		h, err := b.assemble(root)
		if err != nil {
			return nil, err
		}

		hierarchies = append(hierarchies, h)
	}

	return hierarchies, nil
}

func (b *HierarchyBuilder) isRoot(idx int) bool {
	for _, r := range b.roots {
		if r == idx {
			return true
		}
	}

	return false
}

func (b *HierarchyBuilder) unresolvable(waiting []pendingExtension) error {
	parts := make([]string, len(waiting))
	for i, p := range waiting {
		parts[i] = b.nodes[p.node].source.EntityName + " extends " + p.superName
	}

	first := b.nodes[waiting[0].node].source
	msg := "unable to resolve extends dependencies: [" + strings.Join(parts, ", ") + "]"

	if hints := b.suggestions(waiting); len(hints) > 0 {
		msg += "; did you mean " + strings.Join(hints, ", ") + "?"
	}

	return diagnostic.NewMappingError(diagnostic.KindUnresolvableReference, first.Origin, "%s", msg)
}

// suggestions names known entities resembling the missing superclasses.
func (b *HierarchyBuilder) suggestions(waiting []pendingExtension) []string {
	known := make([]string, 0, len(b.byName))
	for name := range b.byName {
		known = append(known, name)
	}

	sort.Strings(known)

	var hints []string

	seen := make(map[string]bool)

	for _, p := range waiting {
		if seen[p.superName] {
			continue
		}

		seen[p.superName] = true

		if names := match.Suggest(p.superName, known); len(names) > 0 {
			hints = append(hints, "'"+names[0]+"' for '"+p.superName+"'")
		}
	}

	return hints
}

// assemble walks one root's subtree in pre-order.
func (b *HierarchyBuilder) assemble(root int) (*EntityHierarchy, error) {
	h := &EntityHierarchy{byName: make(map[string]int)}

	var walk func(idx, parent int)
	walk = func(idx, parent int) {
		pos := len(h.entities)
		entity := b.nodes[idx].source

		if parent >= 0 && entity.Kind == EntityDiscriminatedSubclass && entity.PrimaryTable == nil {
			entity.PrimaryTable = h.entities[parent].PrimaryTable
		}

		h.entities = append(h.entities, entity)
		h.parents = append(h.parents, parent)
		h.byName[entity.EntityName] = pos

		children := slices.Clone(b.nodes[idx].children)
		slices.SortFunc(children, func(x, y int) int { return b.compareSiblings(idx, x, y) })

		for _, child := range children {
			walk(child, pos)
		}
	}

	walk(root, -1)

	inheritance, err := inheritanceOf(h.entities)
	if err != nil {
		return nil, err
	}

	h.inheritance = inheritance

	return h, nil
}

// compareSiblings orders the subclasses of parent independently of the
// document processing order: those declared in the parent's document come
// first, then by document name, then in declaration order.
func (b *HierarchyBuilder) compareSiblings(parent, x, y int) int {
	home := b.nodes[parent].source.Origin.Name
	nx, ny := b.nodes[x].source.Origin.Name, b.nodes[y].source.Origin.Name

	if (nx == home) != (ny == home) {
		if nx == home {
			return -1
		}

		return 1
	}

	if c := strings.Compare(nx, ny); c != 0 {
		return c
	}

	return cmp.Compare(x, y)
}

func inheritanceOf(entities []*EntitySource) (InheritanceType, error) {
	inheritance := NoInheritance

	for _, e := range entities[1:] {
		var t InheritanceType

		switch e.Kind {
		case EntityDiscriminatedSubclass:
			t = SingleTable
		case EntityJoinedSubclass:
			t = Joined
		case EntityUnionSubclass:
			t = TablePerClass
		default:
			continue
		}

		if inheritance != NoInheritance && inheritance != t {
			return NoInheritance, diagnostic.NewMappingError(diagnostic.KindUnsupportedFeature, e.Origin,
				"mixed inheritance in hierarchy of '%s' is not yet supported: %s and %s",
				entities[0].EntityName, inheritance, t)
		}

		inheritance = t
	}

	return inheritance, nil
}
