package query

import (
	"strings"

	"hbm-source/internal/diagnostic"
	"hbm-source/internal/registry"
	"hbm-source/internal/source"
)

// Property names that address an entity or a collection as a whole rather
// than one of its attributes.
const (
	identifierProperty = "id"
	keyProperty        = "key"
	indexProperty      = "index"
	elementProperty    = "element"
)

// pendingReturns are the returns of one native query or result set
// mapping, checked once the entity hierarchies are known.
type pendingReturns struct {
	owner   string
	origin  diagnostic.Origin
	returns []registry.NativeReturn
}

// entityModel indexes the resolved entities by entity name.
type entityModel map[string]modelEntity

type modelEntity struct {
	hierarchy *source.EntityHierarchy
	entity    *source.EntitySource
}

func newEntityModel(hierarchies []*source.EntityHierarchy) entityModel {
	m := make(entityModel)

	for _, h := range hierarchies {
		for _, e := range h.Entities() {
			m[e.EntityName] = modelEntity{hierarchy: h, entity: e}
		}
	}

	return m
}

func findAttribute(attributes []source.AttributeSource, name string) (source.AttributeSource, bool) {
	for _, a := range attributes {
		if a.Info().Name == name {
			return a, true
		}
	}

	return nil, false
}

// attribute finds name on the entity or any of its superclasses. The root
// contributes its identifier and version attributes.
func (m entityModel) attribute(entityName, name string) (source.AttributeSource, bool) {
	me, ok := m[entityName]
	if !ok {
		return nil, false
	}

	for e := me.entity; e != nil; e = me.hierarchy.Superclass(e) {
		if a, ok := e.Attribute(name); ok {
			return a, true
		}

		if id := e.Identifier; id != nil {
			if id.Attribute != nil && id.Attribute.Info().Name == name {
				return id.Attribute, true
			}

			if a, ok := findAttribute(id.Attributes, name); ok {
				return a, true
			}
		}

		if v := e.Version; v != nil && v.Attribute != nil && v.Attribute.Name == name {
			return v.Attribute, true
		}
	}

	return nil, false
}

// resolve walks a dotted property path from entityName. Components descend
// into their sub-attributes and to-one associations into their target.
func (m entityModel) resolve(entityName, path string) (source.AttributeSource, bool) {
	head, rest, dotted := strings.Cut(path, ".")

	attr, ok := m.attribute(entityName, head)
	if !ok {
		return nil, false
	}

	for dotted {
		head, rest, dotted = strings.Cut(rest, ".")

		switch a := attr.(type) {
		case *source.ComponentAttributeSource:
			attr, ok = findAttribute(a.Attributes, head)
		case *source.ToOneAttributeSource:
			attr, ok = m.attribute(a.ReferencedEntity, head)
		default:
			ok = false
		}

		if !ok {
			return nil, false
		}
	}

	return attr, true
}

// aliasTarget is what a return alias stands for: an entity, or a collection.
type aliasTarget struct {
	entity     string
	collection *source.PluralAttributeSource
}

// elementEntity returns the entity name of an entity valued collection element.
func elementEntity(p *source.PluralAttributeSource) (string, bool) {
	switch el := p.Element.(type) {
	case *source.OneToManyElementSource:
		return el.ReferencedEntity, true
	case *source.ManyToManyElementSource:
		return el.ReferencedEntity, true
	default:
		return "", false
	}
}

// checkEntityProperty reports whether path addresses the entity or one of
// its attributes.
func (m entityModel) checkEntityProperty(entityName, path string) bool {
	if path == identifierProperty {
		return true
	}

	_, ok := m.resolve(entityName, path)

	return ok
}

// checkCollectionProperty reports whether path addresses a part of the
// collection: its key, index, identifier, element or an element attribute.
func (m entityModel) checkCollectionProperty(p *source.PluralAttributeSource, path string) bool {
	head, rest, dotted := strings.Cut(path, ".")

	switch head {
	case keyProperty, indexProperty, identifierProperty:
		return !dotted
	case elementProperty:
	default:
		return false
	}

	if !dotted {
		return true
	}

	if entity, ok := elementEntity(p); ok {
		return m.checkEntityProperty(entity, rest)
	}

	if agg, ok := p.Element.(*source.AggregateElementSource); ok {
		head, rest, dotted = strings.Cut(rest, ".")

		attr, ok := findAttribute(agg.Attributes, head)
		if !ok {
			return false
		}

		if !dotted {
			return true
		}

		if c, ok := attr.(*source.ComponentAttributeSource); ok {
			_, ok = findAttribute(c.Attributes, rest)
			return ok
		}

		if to, ok := attr.(*source.ToOneAttributeSource); ok {
			return m.checkEntityProperty(to.ReferencedEntity, rest)
		}
	}

	return false
}

func (m entityModel) checkProperties(t aliasTarget, props []registry.PropertyResult) (string, bool) {
	for _, p := range props {
		var ok bool

		if t.collection != nil {
			ok = m.checkCollectionProperty(t.collection, p.Name)
		} else {
			ok = m.checkEntityProperty(t.entity, p.Name)
		}

		if !ok {
			return p.Name, false
		}
	}

	return "", true
}

// check resolves every property path of the pending returns against the
// entity model. It stops at the first unresolvable path.
func (m entityModel) check(p pendingReturns) error {
	targets := make(map[string]aliasTarget, len(p.returns))

	unresolvable := func(format string, args ...any) error {
		return diagnostic.NewMappingError(diagnostic.KindUnresolvableReference, p.origin,
			"%s: "+format, append([]any{p.owner}, args...)...)
	}

	for _, r := range p.returns {
		switch ret := r.(type) {
		case *registry.RootReturn:
			if _, ok := m[ret.EntityName]; !ok {
				return unresolvable("return '%s' refers to unknown entity '%s'", ret.Alias, ret.EntityName)
			}

			t := aliasTarget{entity: ret.EntityName}
			if name, ok := m.checkProperties(t, ret.Properties); !ok {
				return unresolvable("return property '%s' of alias '%s' does not resolve to a known attribute of '%s'",
					name, ret.Alias, ret.EntityName)
			}

			targets[ret.Alias] = t

		case *registry.JoinReturn:
			owner := targets[ret.OwnerAlias]

			ownerEntity := owner.entity
			if owner.collection != nil {
				ownerEntity, _ = elementEntity(owner.collection)
			}

			if ownerEntity == "" {
				return unresolvable("return-join '%s' owner alias '%s' is not an entity alias", ret.Alias, ret.OwnerAlias)
			}

			path := ret.OwnerAlias + "." + ret.OwnerProperty

			attr, ok := m.resolve(ownerEntity, ret.OwnerProperty)
			if !ok {
				return unresolvable("return-join path '%s' does not resolve to a known attribute of '%s'",
					path, ownerEntity)
			}

			var t aliasTarget

			switch a := attr.(type) {
			case *source.ToOneAttributeSource:
				t.entity = a.ReferencedEntity
			case *source.PluralAttributeSource:
				t.collection = a
			default:
				return unresolvable("return-join path '%s' is not an association of '%s'", path, ownerEntity)
			}

			if name, ok := m.checkProperties(t, ret.Properties); !ok {
				return unresolvable("return property '%s' of alias '%s' does not resolve through '%s'",
					name, ret.Alias, path)
			}

			targets[ret.Alias] = t

		case *registry.CollectionReturn:
			role := ret.OwnerEntityName + "." + ret.OwnerProperty

			if _, ok := m[ret.OwnerEntityName]; !ok {
				return unresolvable("load-collection role '%s' refers to unknown entity '%s'", role, ret.OwnerEntityName)
			}

			attr, ok := m.resolve(ret.OwnerEntityName, ret.OwnerProperty)
			if !ok {
				return unresolvable("load-collection role '%s' does not resolve to a known attribute", role)
			}

			plural, ok := attr.(*source.PluralAttributeSource)
			if !ok {
				return unresolvable("load-collection role '%s' is not a collection", role)
			}

			t := aliasTarget{collection: plural}
			if name, ok := m.checkProperties(t, ret.Properties); !ok {
				return unresolvable("return property '%s' of alias '%s' does not resolve to a part of '%s'",
					name, ret.Alias, role)
			}

			targets[ret.Alias] = t
		}
	}

	return nil
}

// CheckReturnPaths resolves the property paths of every native return bound
// so far against hierarchies: return properties, return-join paths and
// load-collection roles. It returns one error per query or result set
// mapping with an unresolvable path, in binding order.
func (b *Binder) CheckReturnPaths(hierarchies []*source.EntityHierarchy) []error {
	if len(b.pending) == 0 {
		return nil
	}

	model := newEntityModel(hierarchies)

	var errs []error

	for _, p := range b.pending {
		if err := model.check(p); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
