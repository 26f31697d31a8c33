package source

import (
	"hbm-source/internal/common"
	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/strategy"
)

type indexBuilder func(p *PluralAttributeSource) (IndexSource, error)

func (s attributeScope) buildPlural(nature PluralNature, c *descriptor.Collection, element string, index indexBuilder) (*PluralAttributeSource, error) {
	if s.container != containerEntity {
		return nil, s.notSupported(element, nature.String()+" inside "+s.container.String())
	}

	path := s.pathOf(c.Name)

	fetch, err := s.fetchSettings(strategy.FetchSettings{
		Attribute: path,
		Lazy:      c.Lazy,
		Fetch:     c.Fetch,
		OuterJoin: c.OuterJoin,
		BatchSize: c.BatchSize,
		Plural:    true,
	}, element)
	if err != nil {
		return nil, err
	}

	_, err = strategy.ResolveFetchTiming(fetch)
	if err != nil {
		return nil, s.wrap(element, err)
	}

	cascade, err := s.cascade(c.Cascade, path, element)
	if err != nil {
		return nil, err
	}

	caching, err := buildCaching(c.Cache, s.entityName+"."+path)
	if err != nil {
		return nil, s.wrap(element, err)
	}

	p := &PluralAttributeSource{
		AttributeInfo:  s.info(c.Name, c.Access, TypeSource{}, c.OptimisticLock),
		Nature:         nature,
		Cascade:        cascade,
		Inverse:        c.Inverse,
		Mutable:        common.BoolOr(c.Mutable, true),
		Where:          c.Where,
		OrderBy:        c.OrderBy,
		Sort:           c.Sort,
		BatchSize:      c.BatchSize,
		CollectionType: c.CollectionType,
		Check:          c.Check,
		Persister:      c.Persister,
		Caching:        caching,
		Filters:        filtersOf(c.Filters),
		Synchronize:    c.Synchronize,
		CustomSQL: CollectionCustomSQL{
			Insert:    customSQLOf(c.SQLInsert),
			Update:    customSQLOf(c.SQLUpdate),
			Delete:    customSQLOf(c.SQLDelete),
			DeleteAll: customSQLOf(c.SQLDeleteAll),
		},
		fetch: fetch,
	}

	if c.OneToMany == nil {
		p.CollectionTable = s.collectionTable(c)
	}

	table := ""
	if p.CollectionTable != nil {
		table = p.CollectionTable.Name
	}

	p.Key, err = s.buildKey(c.Key, path, table, element)
	if err != nil {
		return nil, err
	}

	p.Element, err = s.buildElement(c, path, table, element)
	if err != nil {
		return nil, err
	}

	if index != nil {
		p.Index, err = index(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// collectionTable names the join table of a value or many-to-many
// collection. Undeclared names are derived as <owner>_<attribute>.
func (s attributeScope) collectionTable(c *descriptor.Collection) *TableSource {
	defaults := s.doc.Defaults()
	ns := defaults.NamingStrategy

	name := c.Table
	if name == "" && c.Subselect == "" {
		name = ns.ClassToTableName(s.entityName) + "_" + ns.PropertyToColumnName(c.Name)
	}

	return &TableSource{
		Schema:    common.FirstNonEmpty(c.Schema, defaults.Schema),
		Catalog:   common.FirstNonEmpty(c.Catalog, defaults.Catalog),
		Name:      s.doc.QuoteIdentifier(ns.TableName(name)),
		Subselect: c.Subselect,
		Check:     c.Check,
	}
}

func (s attributeScope) buildKey(k *descriptor.Key, path, table, element string) (*KeySource, error) {
	if k == nil {
		return nil, s.fail(element, diagnostic.KindStructuralConflict, "collection '%s' declares no key", path)
	}

	cascadeDelete, err := parseOnDelete(k.OnDelete, path)
	if err != nil {
		return nil, s.wrap(element, err)
	}

	update := common.BoolOr(k.Update, true)

	values, err := BuildValueSources(ValueSourcesAdapter{
		Owner:                     path + " key",
		ContainingTableName:       table,
		ColumnAttribute:           k.Column,
		ColumnOrFormulaElements:   k.Columns,
		IncludedInInsertByDefault: true,
		IncludedInUpdateByDefault: update,
		NullableByDefault:         true,
		NotNull:                   k.NotNull,
		Unique:                    common.BoolOr(k.Unique, false),
	})
	if err != nil {
		return nil, s.wrap(element, err)
	}

	if len(values) == 0 {
		ns := s.doc.Defaults().NamingStrategy
		name := ns.ForeignKeyColumnName("", s.entityName, common.Unqualify(s.entityName), "")
		values = []RelationalValueSource{implicitColumn(name, table, true, update)}
	}

	nullable := TruthUnknown
	if k.NotNull != nil {
		nullable = truthOf(!*k.NotNull)
	}

	return &KeySource{
		ValueSources:         values,
		ReferencedProperty:   k.PropertyRef,
		ForeignKeyName:       k.ForeignKey,
		CascadeDeleteEnabled: cascadeDelete,
		Updatable:            update,
		Nullable:             nullable,
		Unique:               common.BoolOr(k.Unique, false),
	}, nil
}

func parseOnDelete(token, attribute string) (bool, error) {
	switch token {
	case "", "noaction":
		return false, nil
	case "cascade":
		return true, nil
	default:
		return false, &strategy.UnknownTokenError{Setting: "on-delete", Token: token, Attribute: attribute}
	}
}

func countSet(present ...bool) int {
	n := 0

	for _, p := range present {
		if p {
			n++
		}
	}

	return n
}

func (s attributeScope) buildElement(c *descriptor.Collection, path, table, element string) (ElementSource, error) {
	switch countSet(c.Element != nil, c.CompositeElement != nil, c.OneToMany != nil, c.ManyToMany != nil, c.ManyToAny != nil) {
	case 0:
		return nil, s.fail(element, diagnostic.KindStructuralConflict, "collection '%s' declares no element", path)
	case 1:
	default:
		return nil, s.fail(element, diagnostic.KindStructuralConflict, "collection '%s' declares more than one element kind", path)
	}

	switch {
	case c.ManyToAny != nil:
		return nil, s.notSupported(element, "many-to-any")

	case c.Element != nil:
		e := c.Element

		values, err := BuildValueSources(ValueSourcesAdapter{
			Owner:                     path + " element",
			ContainingTableName:       table,
			ColumnAttribute:           e.Column,
			FormulaAttribute:          e.Formula,
			ColumnOrFormulaElements:   e.Columns,
			IncludedInInsertByDefault: true,
			IncludedInUpdateByDefault: true,
			NullableByDefault:         true,
			Size:                      SizeSource{Length: e.Length, Precision: e.Precision, Scale: e.Scale},
			NotNull:                   e.NotNull,
			Unique:                    e.Unique,
		})
		if err != nil {
			return nil, s.wrap(element, err)
		}

		return &BasicElementSource{Type: typeSourceOf(e.Type, ""), ValueSources: values}, nil

	case c.CompositeElement != nil:
		ce := c.CompositeElement
		child := s.nested(containerCompositeElement, "", element+"/composite-element", nil, nil)
		child.path = path
		child.table = table

		attrs, err := child.buildAttributes(ce.Attributes)
		if err != nil {
			return nil, err
		}

		return &AggregateElementSource{
			Class:           qualifyOptional(s.doc, ce.Class),
			ParentReference: ce.Parent,
			Path:            path,
			Attributes:      attrs,
		}, nil

	case c.OneToMany != nil:
		ignore, err := parseNotFound(c.OneToMany.NotFound, path)
		if err != nil {
			return nil, s.wrap(element, err)
		}

		return &OneToManyElementSource{
			ReferencedEntity: s.doc.DetermineEntityName(c.OneToMany.EntityName, c.OneToMany.Class),
			IgnoreNotFound:   ignore,
		}, nil

	default:
		return s.buildManyToMany(c.ManyToMany, path, table, element)
	}
}

func (s attributeScope) buildManyToMany(m *descriptor.ManyToMany, path, table, element string) (*ManyToManyElementSource, error) {
	fetch, err := s.fetchSettings(strategy.FetchSettings{
		Attribute: path,
		Lazy:      m.Lazy,
		Fetch:     m.Fetch,
		OuterJoin: m.OuterJoin,
	}, element)
	if err != nil {
		return nil, err
	}

	if _, err := strategy.ResolveFetchTiming(fetch); err != nil {
		s.warn(element, diagnostic.KindUnknownToken,
			"unexpected lazy selection [%s] on many-to-many element of '%s', treated as delayed", m.Lazy, path)
	}

	ignore, err := parseNotFound(m.NotFound, path)
	if err != nil {
		return nil, s.wrap(element, err)
	}

	values, err := BuildValueSources(ValueSourcesAdapter{
		Owner:                     path + " element",
		ContainingTableName:       table,
		ColumnAttribute:           m.Column,
		FormulaAttribute:          m.Formula,
		ColumnOrFormulaElements:   m.Columns,
		IncludedInInsertByDefault: true,
		IncludedInUpdateByDefault: true,
		NullableByDefault:         true,
		Unique:                    m.Unique,
	})
	if err != nil {
		return nil, s.wrap(element, err)
	}

	return &ManyToManyElementSource{
		ReferencedEntity:   s.doc.DetermineEntityName(m.EntityName, m.Class),
		ReferencedProperty: m.PropertyRef,
		ValueSources:       values,
		Where:              m.Where,
		OrderBy:            m.OrderBy,
		Unique:             m.Unique,
		IgnoreNotFound:     ignore,
		ForeignKeyName:     m.ForeignKey,
		Filters:            filtersOf(m.Filters),
		fetch:              fetch,
	}, nil
}

func (s attributeScope) indexValues(owner, table, column, formula string, columns descriptor.Columns, length *int, element string) ([]RelationalValueSource, error) {
	values, err := BuildValueSources(ValueSourcesAdapter{
		Owner:                     owner,
		ContainingTableName:       table,
		ColumnAttribute:           column,
		FormulaAttribute:          formula,
		ColumnOrFormulaElements:   columns,
		IncludedInInsertByDefault: true,
		IncludedInUpdateByDefault: true,
		ForceNotNull:              true,
		Size:                      SizeSource{Length: length},
	})
	if err != nil {
		return nil, s.wrap(element, err)
	}

	return values, nil
}

func collectionTableName(p *PluralAttributeSource) string {
	if p.CollectionTable == nil {
		return ""
	}

	return p.CollectionTable.Name
}

func (s attributeScope) buildListIndex(l *descriptor.List, p *PluralAttributeSource, element string) (IndexSource, error) {
	owner := p.Path + " index"
	table := collectionTableName(p)

	switch {
	case l.ListIndex != nil && l.Index != nil:
		return nil, s.fail(element, diagnostic.KindStructuralConflict, "list '%s' specifies both <list-index> and <index>", p.Path)

	case l.ListIndex != nil:
		values, err := s.indexValues(owner, table, l.ListIndex.Column, "", l.ListIndex.Columns, nil, element)
		if err != nil {
			return nil, err
		}

		return &SequentialIndexSource{Base: l.ListIndex.Base, ValueSources: values}, nil

	case l.Index != nil:
		values, err := s.indexValues(owner, table, l.Index.Column, "", l.Index.Columns, l.Index.Length, element)
		if err != nil {
			return nil, err
		}

		return &SequentialIndexSource{ValueSources: values}, nil

	default:
		return nil, s.fail(element, diagnostic.KindStructuralConflict, "list '%s' declares no index", p.Path)
	}
}

func (s attributeScope) buildMapIndex(m *descriptor.Map, p *PluralAttributeSource, element string) (IndexSource, error) {
	owner := p.Path + " key"
	table := collectionTableName(p)

	switch countSet(m.MapKey != nil, m.Index != nil, m.CompositeMapKey != nil, m.MapKeyManyToMany != nil, m.IndexManyToAny != nil) {
	case 0:
		return nil, s.fail(element, diagnostic.KindStructuralConflict, "map '%s' declares no map key", p.Path)
	case 1:
	default:
		return nil, s.fail(element, diagnostic.KindStructuralConflict, "map '%s' declares more than one map key kind", p.Path)
	}

	switch {
	case m.IndexManyToAny != nil:
		return nil, s.notSupported(element, "index-many-to-any")

	case m.MapKey != nil:
		k := m.MapKey

		values, err := s.indexValues(owner, table, k.Column, k.Formula, k.Columns, k.Length, element)
		if err != nil {
			return nil, err
		}

		return &BasicIndexSource{Type: typeSourceOf(k.Type, ""), ValueSources: values}, nil

	case m.Index != nil:
		k := m.Index

		values, err := s.indexValues(owner, table, k.Column, "", k.Columns, k.Length, element)
		if err != nil {
			return nil, err
		}

		return &BasicIndexSource{Type: typeSourceOf(k.Type, ""), ValueSources: values}, nil

	case m.CompositeMapKey != nil:
		child := s.nested(containerMapKey, "", element+"/composite-map-key", nil, nil)
		child.path = p.Path + ".key"
		child.table = table

		attrs, err := child.buildAttributes(m.CompositeMapKey.Attributes)
		if err != nil {
			return nil, err
		}

		return &AggregateIndexSource{
			Class:      qualifyOptional(s.doc, m.CompositeMapKey.Class),
			Path:       child.path,
			Attributes: attrs,
		}, nil

	default:
		k := m.MapKeyManyToMany

		values, err := s.indexValues(owner, table, k.Column, k.Formula, k.Columns, nil, element)
		if err != nil {
			return nil, err
		}

		return &EntityIndexSource{
			ReferencedEntity: s.doc.DetermineEntityName(k.EntityName, k.Class),
			ValueSources:     values,
			ForeignKeyName:   k.ForeignKey,
		}, nil
	}
}

func buildCaching(c *descriptor.Cache, owner string) (*Caching, error) {
	if c == nil {
		return nil, nil
	}

	usage, err := ParseCacheUsage(c.Usage, owner)
	if err != nil {
		return nil, err
	}

	var includeLazy bool

	switch c.Include {
	case "", "all":
		includeLazy = true
	case "non-lazy":
		includeLazy = false
	default:
		return nil, &strategy.UnknownTokenError{Setting: "cache include", Token: c.Include, Attribute: owner}
	}

	return &Caching{
		Usage:       usage,
		Region:      common.FirstNonEmpty(c.Region, owner),
		IncludeLazy: includeLazy,
	}, nil
}

func customSQLOf(c *descriptor.CustomSQL) *CustomSQLSource {
	if c == nil || c.SQL == "" {
		return nil
	}

	return &CustomSQLSource{SQL: c.SQL, Callable: c.Callable, Check: c.Check}
}

func filtersOf(filters []descriptor.Filter) []FilterSource {
	if len(filters) == 0 {
		return nil
	}

	out := make([]FilterSource, len(filters))
	for i, f := range filters {
		out[i] = FilterSource{Name: f.Name, Condition: f.Condition}
	}

	return out
}
