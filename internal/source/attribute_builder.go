package source

import (
	"hbm-source/internal/common"
	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/strategy"
)

// container is the kind of element whose attribute list is being built.
// It decides which attribute kinds are allowed.
type container int

const (
	containerEntity container = iota
	containerNaturalID
	containerJoin
	containerComponent
	containerCompositeElement
	containerIdentifier
	containerMapKey
)

func (c container) String() string {
	switch c {
	case containerEntity:
		return "class"
	case containerNaturalID:
		return "natural-id"
	case containerJoin:
		return "join"
	case containerComponent:
		return "component"
	case containerCompositeElement:
		return "composite-element"
	case containerIdentifier:
		return "composite-id"
	case containerMapKey:
		return "composite-map-key"
	default:
		return common.UnknownStr
	}
}

// attributeScope is the context of one attribute list.
type attributeScope struct {
	doc       *MappingDocument
	container container
	// entityName owns the attributes.
	entityName string
	// table is the containing table; empty means the entity's primary table.
	table string
	// path is the attribute path prefix; empty at entity level.
	path string
	// element is the element path for error origins.
	element   string
	naturalID NaturalIDMutability
	// insertable and updatable are inherited from enclosing components and joins.
	insertable bool
	updatable  bool
	// warnings collects tolerated irregularities; nil drops them.
	warnings *diagnostic.Diagnostics
}

func newEntityScope(doc *MappingDocument, entityName, element string, warnings *diagnostic.Diagnostics) attributeScope {
	return attributeScope{
		doc:        doc,
		container:  containerEntity,
		entityName: entityName,
		element:    element,
		insertable: true,
		updatable:  true,
		warnings:   warnings,
	}
}

func (s attributeScope) pathOf(name string) string {
	if s.path == "" {
		return name
	}

	return s.path + "." + name
}

func (s attributeScope) elementOf(kind, name string) string {
	step := kind
	if name != "" {
		step += "[" + name + "]"
	}

	if s.element == "" {
		return step
	}

	return s.element + "/" + step
}

// nested returns the scope of a component-like child.
func (s attributeScope) nested(c container, name, element string, insert, update *bool) attributeScope {
	child := s
	child.container = c
	child.path = s.pathOf(name)
	child.element = element
	child.insertable = common.BoolOr(insert, s.insertable)
	child.updatable = common.BoolOr(update, s.updatable)

	return child
}

func (s attributeScope) fail(element string, kind diagnostic.Kind, format string, args ...any) error {
	return s.doc.MakeMappingError(kind, element, format, args...)
}

func (s attributeScope) wrap(element string, err error) error {
	return s.doc.WrapMappingError(diagnostic.KindUnknownToken, element, err)
}

func (s attributeScope) warn(element string, kind diagnostic.Kind, format string, args ...any) {
	if s.warnings == nil {
		return
	}

	w := s.doc.MakeMappingError(kind, element, format, args...)
	s.warnings.AddWarning(w.Kind.String(), w.Message, w.Origin.Name, w.Origin.Element)
}

func (s attributeScope) notSupported(element, what string) error {
	return s.fail(element, diagnostic.KindUnsupportedFeature, "%s is not yet implemented", what)
}

// buildAttributes converts an ordered attribute list, preserving order.
func (s attributeScope) buildAttributes(elems descriptor.Attributes) ([]AttributeSource, error) {
	out := make([]AttributeSource, 0, len(elems))

	for _, e := range elems {
		a, err := s.buildAttribute(e)
		if err != nil {
			return nil, err
		}

		out = append(out, a)
	}

	return out, nil
}

func (s attributeScope) buildAttribute(e descriptor.AttributeElement) (AttributeSource, error) {
	element := s.elementOf(e.ElementName(), e.AttributeName())

	switch el := e.(type) {
	case *descriptor.Property:
		return s.buildBasic(el, element)

	case *descriptor.KeyProperty:
		return s.buildBasic(&el.Property, element)

	case *descriptor.ManyToOne:
		return s.buildManyToOne(el, element)

	case *descriptor.KeyManyToOne:
		return s.buildManyToOne(&el.ManyToOne, element)

	case *descriptor.OneToOne:
		if s.container != containerEntity {
			return nil, s.notSupported(element, "one-to-one inside "+s.container.String())
		}

		return s.buildOneToOne(el, element)

	case *descriptor.Component:
		return s.buildComponent(el, element)

	case *descriptor.NestedCompositeElement:
		return s.buildComponent(&el.Component, element)

	case *descriptor.DynamicComponent:
		return nil, s.notSupported(element, "dynamic-component")

	case *descriptor.Properties:
		return nil, s.notSupported(element, "properties")

	case *descriptor.AnyElement:
		if s.container == containerEntity {
			return nil, s.notSupported(element, "any")
		}

		return nil, s.notSupported(element, "any inside "+s.container.String())

	case *descriptor.Bag:
		return s.buildPlural(PluralBag, &el.Collection, element, nil)

	case *descriptor.Set:
		return s.buildPlural(PluralSet, &el.Collection, element, nil)

	case *descriptor.List:
		return s.buildPlural(PluralList, &el.Collection, element, func(p *PluralAttributeSource) (IndexSource, error) {
			return s.buildListIndex(el, p, element)
		})

	case *descriptor.Map:
		return s.buildPlural(PluralMap, &el.Collection, element, func(p *PluralAttributeSource) (IndexSource, error) {
			return s.buildMapIndex(el, p, element)
		})

	case *descriptor.IdBag:
		return nil, s.notSupported(element, "idbag")

	case *descriptor.Array:
		return nil, s.notSupported(element, "array")

	case *descriptor.PrimitiveArray:
		return nil, s.notSupported(element, "primitive-array")

	default:
		return nil, s.notSupported(element, e.ElementName())
	}
}

func (s attributeScope) info(name, access string, t TypeSource, optimisticLock *bool) AttributeInfo {
	return AttributeInfo{
		Name:             name,
		Path:             s.pathOf(name),
		Access:           common.FirstNonEmpty(access, s.doc.Defaults().Access),
		Type:             t,
		OptimisticLocked: common.BoolOr(optimisticLock, true),
		NaturalID:        s.naturalID,
	}
}

func (s attributeScope) buildBasic(p *descriptor.Property, element string) (*BasicAttributeSource, error) {
	generation, err := parsePropertyGeneration(p.Generated, s.pathOf(p.Name))
	if err != nil {
		return nil, s.wrap(element, err)
	}

	insert, update, err := s.insertUpdate(p.Insert, p.Update, generation, element)
	if err != nil {
		return nil, err
	}

	identifier := s.container == containerIdentifier || s.container == containerMapKey
	if identifier {
		insert, update = true, false
	}

	values, err := BuildValueSources(ValueSourcesAdapter{
		Owner:                     s.pathOf(p.Name),
		ContainingTableName:       s.table,
		ColumnAttribute:           p.Column,
		FormulaAttribute:          p.Formula,
		ColumnOrFormulaElements:   p.Columns,
		IncludedInInsertByDefault: insert,
		IncludedInUpdateByDefault: update,
		NullableByDefault:         !identifier,
		ForceNotNull:              identifier,
		Size:                      SizeSource{Length: p.Length, Precision: p.Precision, Scale: p.Scale},
		NotNull:                   p.NotNull,
		Unique:                    p.Unique,
		UniqueKey:                 p.UniqueKey,
		Index:                     p.Index,
	})
	if err != nil {
		return nil, s.wrap(element, err)
	}

	return &BasicAttributeSource{
		AttributeInfo:     s.info(p.Name, p.Access, typeSourceOf(p.Type, ""), p.OptimisticLock),
		ValueSources:      values,
		Generation:        generation,
		Lazy:              p.Lazy,
		IncludedInInsert:  insert,
		IncludedInUpdate:  update,
		NullableByDefault: !identifier && !common.BoolOr(p.NotNull, false),
	}, nil
}

// insertUpdate resolves insert/update inclusion. Generated values are never
// written by default, and may not be declared writable.
func (s attributeScope) insertUpdate(insert, update *bool, generation PropertyGeneration, element string) (bool, bool, error) {
	insertDefault, updateDefault := s.insertable, s.updatable

	if generation != GenerationNever {
		if common.BoolOr(insert, false) {
			return false, false, s.fail(element, diagnostic.KindStructuralConflict,
				"cannot specify both insert=\"true\" and generated=\"%s\"", generation)
		}

		insertDefault = false
	}

	if generation == GenerationAlways {
		if common.BoolOr(update, false) {
			return false, false, s.fail(element, diagnostic.KindStructuralConflict,
				"cannot specify both update=\"true\" and generated=\"%s\"", generation)
		}

		updateDefault = false
	}

	return common.BoolOr(insert, insertDefault), common.BoolOr(update, updateDefault), nil
}

func (s attributeScope) cascade(value, attribute, element string) (strategy.CascadeStyles, error) {
	styles, err := strategy.ParseCascadeStyles(value, s.doc.Defaults().Cascade, attribute)
	if err != nil {
		return nil, s.wrap(element, err)
	}

	return styles, nil
}

func (s attributeScope) fetchSettings(f strategy.FetchSettings, element string) (strategy.FetchSettings, error) {
	f.AssociationsLazy = s.doc.Defaults().AssociationsLazy

	err := strategy.CheckFetchTokens(f)
	if err != nil {
		return f, s.wrap(element, err)
	}

	return f, nil
}

func parseNotFound(token, attribute string) (bool, error) {
	switch token {
	case "", "exception":
		return false, nil
	case "ignore":
		return true, nil
	default:
		return false, &strategy.UnknownTokenError{Setting: "not-found", Token: token, Attribute: attribute}
	}
}

func (s attributeScope) buildManyToOne(m *descriptor.ManyToOne, element string) (*ToOneAttributeSource, error) {
	path := s.pathOf(m.Name)

	fetch, err := s.fetchSettings(strategy.FetchSettings{
		Attribute: path,
		Lazy:      m.Lazy,
		Fetch:     m.Fetch,
		OuterJoin: m.OuterJoin,
	}, element)
	if err != nil {
		return nil, err
	}

	_, err = strategy.ResolveFetchTiming(fetch)
	if err != nil {
		return nil, s.wrap(element, err)
	}

	cascade, err := s.cascade(m.Cascade, path, element)
	if err != nil {
		return nil, err
	}

	ignoreNotFound, err := parseNotFound(m.NotFound, path)
	if err != nil {
		return nil, s.wrap(element, err)
	}

	insert := common.BoolOr(m.Insert, s.insertable)
	update := common.BoolOr(m.Update, s.updatable)

	identifier := s.container == containerIdentifier || s.container == containerMapKey
	if identifier {
		insert, update = true, false
	}

	values, err := BuildValueSources(ValueSourcesAdapter{
		Owner:                     path,
		ContainingTableName:       s.table,
		ColumnAttribute:           m.Column,
		FormulaAttribute:          m.Formula,
		ColumnOrFormulaElements:   m.Columns,
		IncludedInInsertByDefault: insert,
		IncludedInUpdateByDefault: update,
		NullableByDefault:         !identifier,
		ForceNotNull:              identifier,
		NotNull:                   m.NotNull,
		Unique:                    m.Unique,
		UniqueKey:                 m.UniqueKey,
		Index:                     m.Index,
	})
	if err != nil {
		return nil, s.wrap(element, err)
	}

	return &ToOneAttributeSource{
		AttributeInfo:      s.info(m.Name, m.Access, TypeSource{}, m.OptimisticLock),
		Nature:             ManyToOne,
		ReferencedEntity:   s.doc.DetermineEntityName(m.EntityName, m.Class),
		ReferencedProperty: m.PropertyRef,
		ValueSources:       values,
		Cascade:            cascade,
		Unique:             m.Unique,
		IgnoreNotFound:     ignoreNotFound,
		ForeignKeyName:     m.ForeignKey,
		IncludedInInsert:   insert,
		IncludedInUpdate:   update,
		NullableByDefault:  !identifier && !common.BoolOr(m.NotNull, false),
		fetch:              fetch,
	}, nil
}

func (s attributeScope) buildOneToOne(o *descriptor.OneToOne, element string) (*ToOneAttributeSource, error) {
	path := s.pathOf(o.Name)

	fetch, err := s.fetchSettings(strategy.FetchSettings{
		Attribute:         path,
		Lazy:              o.Lazy,
		Fetch:             o.Fetch,
		OuterJoin:         o.OuterJoin,
		ImmediateRequired: !o.Constrained,
	}, element)
	if err != nil {
		return nil, err
	}

	_, err = strategy.ResolveFetchTiming(fetch)
	if err != nil {
		return nil, s.wrap(element, err)
	}

	cascade, err := s.cascade(o.Cascade, path, element)
	if err != nil {
		return nil, err
	}

	values, err := BuildValueSources(ValueSourcesAdapter{
		Owner:                   path,
		ContainingTableName:     s.table,
		FormulaAttribute:        o.Formula,
		ColumnOrFormulaElements: o.Columns,
		NullableByDefault:       true,
	})
	if err != nil {
		return nil, s.wrap(element, err)
	}

	return &ToOneAttributeSource{
		AttributeInfo:      s.info(o.Name, o.Access, TypeSource{}, nil),
		Nature:             OneToOne,
		ReferencedEntity:   s.doc.DetermineEntityName(o.EntityName, o.Class),
		ReferencedProperty: o.PropertyRef,
		ValueSources:       values,
		Cascade:            cascade,
		Constrained:        o.Constrained,
		ForeignKeyName:     o.ForeignKey,
		NullableByDefault:  !o.Constrained,
		fetch:              fetch,
	}, nil
}

func (s attributeScope) buildComponent(c *descriptor.Component, element string) (*ComponentAttributeSource, error) {
	childContainer := containerComponent
	if s.container == containerCompositeElement {
		childContainer = containerCompositeElement
	}

	child := s.nested(childContainer, c.Name, element, c.Insert, c.Update)
	if s.container == containerIdentifier || s.container == containerMapKey {
		child.container = s.container
	}

	attrs, err := child.buildAttributes(c.Attributes)
	if err != nil {
		return nil, err
	}

	return &ComponentAttributeSource{
		AttributeInfo:    s.info(c.Name, c.Access, TypeSource{}, c.OptimisticLock),
		Class:            qualifyOptional(s.doc, c.Class),
		ParentReference:  c.Parent,
		Lazy:             c.Lazy,
		Unique:           c.Unique,
		IncludedInInsert: child.insertable,
		IncludedInUpdate: child.updatable,
		Attributes:       attrs,
	}, nil
}

func qualifyOptional(doc *MappingDocument, className string) string {
	if className == "" {
		return ""
	}

	return doc.QualifyClassName(className)
}
