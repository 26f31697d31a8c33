package source

import (
	"maps"

	"hbm-source/internal/common"
	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/strategy"
)

// entityBuilder assembles one EntitySource. Phase one (newEntityBuilder)
// sets everything that does not need the attribute list; phase two
// (buildAttributes) fills the attribute list, into which secondary tables
// append their own attributes. finish hands out the completed value.
type entityBuilder struct {
	doc     *MappingDocument
	decl    descriptor.ClassDeclaration
	elem    *descriptor.EntityElement
	element string
	// warnings receives tolerated irregularities; may be nil.
	warnings *diagnostic.Diagnostics

	entity          EntitySource
	attributes      []AttributeSource
	secondaryTables []*SecondaryTableSource
}

// BuildEntitySource builds the source of one class declaration, without
// its nested subclasses.
func BuildEntitySource(doc *MappingDocument, decl descriptor.ClassDeclaration) (*EntitySource, error) {
	return buildEntitySource(doc, decl, nil)
}

func buildEntitySource(doc *MappingDocument, decl descriptor.ClassDeclaration, warnings *diagnostic.Diagnostics) (*EntitySource, error) {
	b, err := newEntityBuilder(doc, decl)
	if err != nil {
		return nil, err
	}

	b.warnings = warnings

	err = b.buildAttributes()
	if err != nil {
		return nil, err
	}

	return b.finish(), nil
}

func newEntityBuilder(doc *MappingDocument, decl descriptor.ClassDeclaration) (*entityBuilder, error) {
	elem := decl.Entity()
	if elem == nil {
		return nil, doc.MakeMappingError(diagnostic.KindStructuralConflict, "", "empty %s declaration", decl.Kind)
	}

	if elem.Name == "" && elem.EntityName == "" {
		return nil, doc.MakeMappingError(diagnostic.KindStructuralConflict, decl.Kind.String(),
			"%s declares neither name nor entity-name", decl.Kind)
	}

	defaults := doc.Defaults()
	className := qualifyOptional(doc, elem.Name)
	entityName := doc.DetermineEntityName(elem.EntityName, elem.Name)
	element := decl.Kind.String() + "[" + entityName + "]"

	b := &entityBuilder{
		doc:     doc,
		decl:    decl,
		elem:    elem,
		element: element,
	}

	lazy := common.BoolOr(elem.Lazy, defaults.AssociationsLazy)

	proxy := elem.Proxy
	if proxy == "" && lazy {
		proxy = className
	}

	b.entity = EntitySource{
		Origin:             doc.Origin().At(element),
		ClassName:          className,
		EntityName:         entityName,
		JPAName:            common.FirstNonEmpty(elem.JPAName, common.Unqualify(entityName)),
		Abstract:           common.BoolOr(elem.Abstract, false),
		Lazy:               lazy,
		Proxy:              qualifyOptional(doc, proxy),
		BatchSize:          elem.BatchSize,
		DynamicInsert:      elem.DynamicInsert,
		DynamicUpdate:      elem.DynamicUpdate,
		SelectBeforeUpdate: elem.SelectBeforeUpdate,
		Persister:          elem.Persister,
		Synchronize:        elem.Synchronize,
		Filters:            filtersOf(elem.Filters),
		CustomInsert:       customSQLOf(elem.SQLInsert),
		CustomUpdate:       customSQLOf(elem.SQLUpdate),
		CustomDelete:       customSQLOf(elem.SQLDelete),
	}

	var err error

	switch decl.Kind {
	case descriptor.ClassRoot:
		err = b.initRoot(decl.Class)
	case descriptor.ClassSubclass:
		b.entity.Kind = EntityDiscriminatedSubclass
		b.entity.DiscriminatorMatchValue = common.FirstNonEmpty(decl.Subclass.DiscriminatorValue, entityName)
		b.entity.Extends = decl.Subclass.Extends
	case descriptor.ClassJoinedSubclass:
		b.entity.Kind = EntityJoinedSubclass
		err = b.initJoinedSubclass(decl.Subclass)
	case descriptor.ClassUnionSubclass:
		b.entity.Kind = EntityUnionSubclass
		b.entity.DiscriminatorMatchValue = decl.Subclass.DiscriminatorValue
		b.entity.PrimaryTable = b.table(decl.Subclass.Table, decl.Subclass.Schema, decl.Subclass.Catalog, elem.Subselect)
		b.entity.PrimaryTable.Check = decl.Subclass.Check
		b.entity.PrimaryTable.Comment = decl.Subclass.Comment
		b.entity.Extends = decl.Subclass.Extends
	}

	if err != nil {
		return nil, err
	}

	return b, nil
}

func (b *entityBuilder) fail(kind diagnostic.Kind, format string, args ...any) error {
	return b.doc.MakeMappingError(kind, b.element, format, args...)
}

func (b *entityBuilder) wrap(err error) error {
	return b.doc.WrapMappingError(diagnostic.KindUnknownToken, b.element, err)
}

func (b *entityBuilder) scope() attributeScope {
	return newEntityScope(b.doc, b.entity.EntityName, b.element, b.warnings)
}

// table resolves a primary table; an undeclared name is derived from the class.
func (b *entityBuilder) table(name, schema, catalog, subselect string) *TableSource {
	defaults := b.doc.Defaults()
	ns := defaults.NamingStrategy

	switch {
	case name != "":
		name = ns.TableName(name)
	case subselect == "":
		name = ns.ClassToTableName(common.FirstNonEmpty(b.entity.ClassName, b.entity.EntityName))
	}

	return &TableSource{
		Schema:    common.FirstNonEmpty(schema, defaults.Schema),
		Catalog:   common.FirstNonEmpty(catalog, defaults.Catalog),
		Name:      b.doc.QuoteIdentifier(name),
		Subselect: subselect,
	}
}

func (b *entityBuilder) initRoot(c *descriptor.Class) error {
	e := &b.entity
	e.Kind = EntityRoot
	e.PrimaryTable = b.table(c.Table, c.Schema, c.Catalog, c.Subselect)
	e.PrimaryTable.Check = c.Check
	e.PrimaryTable.Comment = c.Comment
	e.Mutable = common.BoolOr(c.Mutable, true)
	e.Where = c.Where
	e.Rowid = c.Rowid

	switch c.Polymorphism {
	case "", "implicit":
	case "explicit":
		e.ExplicitPolymorphism = true
	default:
		return b.wrap(&strategy.UnknownTokenError{Setting: "polymorphism", Token: c.Polymorphism, Attribute: e.EntityName})
	}

	var err error

	e.OptimisticLock, err = ParseOptimisticLockStyle(c.OptimisticLock, e.EntityName)
	if err != nil {
		return b.wrap(err)
	}

	e.Caching, err = buildCaching(c.Cache, e.EntityName)
	if err != nil {
		return b.wrap(err)
	}

	if c.NaturalIDCache != nil {
		e.NaturalIDCacheRegion = common.FirstNonEmpty(c.NaturalIDCache.Region, e.EntityName+"##NaturalId")
	}

	e.Identifier, err = b.buildIdentifier(c)
	if err != nil {
		return err
	}

	e.Version, err = b.buildVersion(c)
	if err != nil {
		return err
	}

	e.Discriminator, err = b.buildDiscriminator(c.Discriminator)
	if err != nil {
		return err
	}

	if e.Discriminator != nil || c.DiscriminatorValue != "" {
		e.DiscriminatorMatchValue = common.FirstNonEmpty(c.DiscriminatorValue, e.EntityName)
	}

	return nil
}

func (b *entityBuilder) initJoinedSubclass(s *descriptor.Subclass) error {
	e := &b.entity
	e.Extends = s.Extends
	e.DiscriminatorMatchValue = s.DiscriminatorValue
	e.PrimaryTable = b.table(s.Table, s.Schema, s.Catalog, b.elem.Subselect)
	e.PrimaryTable.Check = s.Check
	e.PrimaryTable.Comment = s.Comment

	if s.Key == nil {
		return b.fail(diagnostic.KindStructuralConflict, "joined-subclass '%s' declares no key", e.EntityName)
	}

	values, err := BuildValueSources(ValueSourcesAdapter{
		Owner:                     e.EntityName + " key",
		ContainingTableName:       e.PrimaryTable.Name,
		ColumnAttribute:           s.Key.Column,
		ColumnOrFormulaElements:   s.Key.Columns,
		IncludedInInsertByDefault: true,
		ForceNotNull:              true,
	})
	if err != nil {
		return b.wrap(err)
	}

	if len(values) == 0 {
		ns := b.doc.Defaults().NamingStrategy
		values = []RelationalValueSource{implicitColumn(
			ns.ForeignKeyColumnName("", e.EntityName, common.Unqualify(e.EntityName), ""),
			e.PrimaryTable.Name, true, false)}
	}

	e.PrimaryKeyJoinColumns = values
	e.JoinForeignKeyName = s.Key.ForeignKey

	return nil
}

func generatorOf(g *descriptor.Generator) GeneratorSource {
	if g == nil || g.Class == "" {
		return GeneratorSource{Strategy: "assigned"}
	}

	return GeneratorSource{Strategy: g.Class, Params: maps.Clone(g.Params)}
}

func (b *entityBuilder) buildIdentifier(c *descriptor.Class) (*IdentifierSource, error) {
	scope := b.scope()

	switch {
	case c.ID != nil && c.CompositeID != nil:
		return nil, b.fail(diagnostic.KindStructuralConflict, "entity '%s' specifies both <id> and <composite-id>", b.entity.EntityName)

	case c.ID != nil:
		id := c.ID
		name := common.FirstNonEmpty(id.Name, "id")

		values, err := BuildValueSources(ValueSourcesAdapter{
			Owner:                     name,
			ColumnAttribute:           id.Column,
			ColumnOrFormulaElements:   id.Columns,
			IncludedInInsertByDefault: true,
			ForceNotNull:              true,
			Size:                      SizeSource{Length: id.Length},
		})
		if err != nil {
			return nil, b.doc.WrapMappingError(diagnostic.KindStructuralConflict, scope.elementOf("id", name), err)
		}

		return &IdentifierSource{
			Nature: IdentifierSimple,
			Attribute: &BasicAttributeSource{
				AttributeInfo:    scope.info(name, id.Access, typeSourceOf(id.Type, ""), nil),
				ValueSources:     values,
				IncludedInInsert: true,
			},
			Generator:    generatorOf(id.Generator),
			UnsavedValue: id.UnsavedValue,
		}, nil

	case c.CompositeID != nil:
		cid := c.CompositeID
		idScope := scope
		idScope.container = containerIdentifier
		idScope.element = scope.elementOf("composite-id", cid.Name)

		if cid.Name != "" && !cid.Mapped {
			component := &descriptor.Component{
				Name:       cid.Name,
				Access:     cid.Access,
				Class:      cid.Class,
				Attributes: cid.Attributes,
			}

			attr, err := idScope.buildComponent(component, idScope.element)
			if err != nil {
				return nil, err
			}

			attr.IncludedInUpdate = false

			return &IdentifierSource{
				Nature:       IdentifierAggregatedComposite,
				Attribute:    attr,
				Generator:    generatorOf(cid.Generator),
				UnsavedValue: cid.UnsavedValue,
			}, nil
		}

		attrs, err := idScope.buildAttributes(cid.Attributes)
		if err != nil {
			return nil, err
		}

		idClass := ""
		if cid.Mapped {
			idClass = qualifyOptional(b.doc, cid.Class)
		}

		return &IdentifierSource{
			Nature:       IdentifierNonAggregatedComposite,
			Attributes:   attrs,
			IDClass:      idClass,
			Generator:    generatorOf(cid.Generator),
			UnsavedValue: cid.UnsavedValue,
		}, nil

	default:
		return nil, b.fail(diagnostic.KindStructuralConflict, "entity '%s' declares no identifier", b.entity.EntityName)
	}
}

func (b *entityBuilder) buildVersion(c *descriptor.Class) (*VersionSource, error) {
	scope := b.scope()

	switch {
	case c.Version != nil && c.Timestamp != nil:
		return nil, b.fail(diagnostic.KindStructuralConflict,
			"entity '%s' specifies both <version> and <timestamp>", b.entity.EntityName)

	case c.Version != nil:
		v := c.Version
		name := common.FirstNonEmpty(v.Name, "version")
		element := scope.elementOf("version", name)

		generation, err := b.versionGeneration(v.Generated, name, element)
		if err != nil {
			return nil, err
		}

		attr, err := b.versionAttribute(scope, name, v.Access, typeSourceOf(v.Type, "integer"),
			v.Column, v.Columns, common.BoolOr(v.Insert, generation == GenerationNever), generation, element)
		if err != nil {
			return nil, err
		}

		return &VersionSource{Nature: VersionCounter, Attribute: attr, UnsavedValue: v.UnsavedValue}, nil

	case c.Timestamp != nil:
		ts := c.Timestamp
		name := common.FirstNonEmpty(ts.Name, "timestamp")
		element := scope.elementOf("timestamp", name)

		generation, err := b.versionGeneration(ts.Generated, name, element)
		if err != nil {
			return nil, err
		}

		typeName := "timestamp"

		switch ts.Source {
		case "", "vm":
		case "db":
			typeName = "dbtimestamp"
		default:
			return nil, b.doc.WrapMappingError(diagnostic.KindUnknownToken, element,
				&strategy.UnknownTokenError{Setting: "timestamp source", Token: ts.Source, Attribute: name})
		}

		attr, err := b.versionAttribute(scope, name, ts.Access, TypeSource{Name: typeName},
			ts.Column, nil, generation == GenerationNever, generation, element)
		if err != nil {
			return nil, err
		}

		return &VersionSource{
			Nature:          VersionTimestamp,
			Attribute:       attr,
			UnsavedValue:    ts.UnsavedValue,
			TimestampSource: common.FirstNonEmpty(ts.Source, "vm"),
		}, nil

	default:
		return nil, nil
	}
}

// versionGeneration parses the generated setting of a version or timestamp.
// Versions can only be generated always.
func (b *entityBuilder) versionGeneration(token, name, element string) (PropertyGeneration, error) {
	generation, err := parsePropertyGeneration(token, name)
	if err != nil {
		return GenerationNever, b.doc.WrapMappingError(diagnostic.KindUnknownToken, element, err)
	}

	if generation == GenerationInsert {
		return GenerationNever, b.doc.MakeMappingError(diagnostic.KindStructuralConflict, element,
			"version attribute '%s' cannot be generated=\"insert\"; use generated=\"always\"", name)
	}

	return generation, nil
}

func (b *entityBuilder) versionAttribute(scope attributeScope, name, access string, t TypeSource,
	column string, columns descriptor.Columns, insert bool, generation PropertyGeneration, element string,
) (*BasicAttributeSource, error) {
	values, err := BuildValueSources(ValueSourcesAdapter{
		Owner:                     name,
		ColumnAttribute:           column,
		ColumnOrFormulaElements:   columns,
		IncludedInInsertByDefault: insert,
		IncludedInUpdateByDefault: true,
		ForceNotNull:              true,
	})
	if err != nil {
		return nil, b.doc.WrapMappingError(diagnostic.KindStructuralConflict, element, err)
	}

	return &BasicAttributeSource{
		AttributeInfo:    scope.info(name, access, t, nil),
		ValueSources:     values,
		Generation:       generation,
		IncludedInInsert: insert,
		IncludedInUpdate: true,
	}, nil
}

func (b *entityBuilder) buildDiscriminator(d *descriptor.Discriminator) (*DiscriminatorSource, error) {
	if d == nil {
		return nil, nil
	}

	column := d.Column
	if column == "" && d.Formula == "" && len(d.Columns) == 0 {
		column = "class"
	}

	inserted := common.BoolOr(d.Insert, true)

	values, err := BuildValueSources(ValueSourcesAdapter{
		Owner:                     b.entity.EntityName + " discriminator",
		ColumnAttribute:           column,
		FormulaAttribute:          d.Formula,
		ColumnOrFormulaElements:   d.Columns,
		IncludedInInsertByDefault: inserted,
		NotNull:                   d.NotNull,
		Size:                      SizeSource{Length: d.Length},
	})
	if err != nil {
		return nil, b.wrap(err)
	}

	if len(values) != 1 {
		return nil, b.fail(diagnostic.KindStructuralConflict,
			"discriminator of '%s' must map exactly one column or formula", b.entity.EntityName)
	}

	return &DiscriminatorSource{
		ValueSource: values[0],
		Type:        typeSourceOf(d.Type, "string"),
		Forced:      d.Force,
		Inserted:    inserted,
	}, nil
}

// buildAttributes is phase two: natural-id attributes, declared attributes,
// then the attributes of every secondary table.
func (b *entityBuilder) buildAttributes() error {
	scope := b.scope()

	if b.decl.Class != nil && b.decl.Class.NaturalID != nil {
		nid := b.decl.Class.NaturalID
		nscope := scope
		nscope.container = containerNaturalID
		nscope.element = scope.elementOf("natural-id", "")
		nscope.naturalID = NaturalIDImmutable

		if nid.Mutable {
			nscope.naturalID = NaturalIDMutable
		}

		attrs, err := nscope.buildAttributes(nid.Attributes)
		if err != nil {
			return err
		}

		b.attributes = append(b.attributes, attrs...)
	}

	attrs, err := scope.buildAttributes(b.elem.Attributes)
	if err != nil {
		return err
	}

	b.attributes = append(b.attributes, attrs...)

	for i := range b.elem.Joins {
		err = b.buildSecondaryTable(&b.elem.Joins[i], scope)
		if err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(b.attributes))

	for _, a := range b.attributes {
		name := a.Info().Name
		if seen[name] {
			return b.fail(diagnostic.KindDuplicateMapping, "duplicate attribute '%s' in entity '%s'", name, b.entity.EntityName)
		}

		seen[name] = true
	}

	return nil
}

func (b *entityBuilder) buildSecondaryTable(j *descriptor.Join, scope attributeScope) error {
	element := scope.elementOf("join", j.Table)

	if j.Table == "" && j.Subselect == "" {
		return b.doc.MakeMappingError(diagnostic.KindStructuralConflict, element,
			"secondary table of '%s' declares no table", b.entity.EntityName)
	}

	table := b.table(j.Table, j.Schema, j.Catalog, j.Subselect)
	table.Comment = j.Comment

	var fetchStyle strategy.FetchStyle

	switch j.Fetch {
	case "", "join":
		fetchStyle = strategy.FetchJoin
	case "select":
		fetchStyle = strategy.FetchSelect
	default:
		return b.doc.WrapMappingError(diagnostic.KindUnknownToken, element,
			&strategy.UnknownTokenError{Setting: "fetch", Token: j.Fetch, Attribute: j.Table})
	}

	if j.Key == nil {
		return b.doc.MakeMappingError(diagnostic.KindStructuralConflict, element,
			"secondary table '%s' declares no key", j.Table)
	}

	keyValues, err := BuildValueSources(ValueSourcesAdapter{
		Owner:                     j.Table + " key",
		ContainingTableName:       table.Name,
		ColumnAttribute:           j.Key.Column,
		ColumnOrFormulaElements:   j.Key.Columns,
		IncludedInInsertByDefault: true,
		ForceNotNull:              true,
	})
	if err != nil {
		return b.doc.WrapMappingError(diagnostic.KindStructuralConflict, element, err)
	}

	jscope := scope
	jscope.container = containerJoin
	jscope.table = table.Name
	jscope.element = element

	if j.Inverse {
		jscope.insertable, jscope.updatable = false, false
	}

	attrs, err := jscope.buildAttributes(j.Attributes)
	if err != nil {
		return err
	}

	b.attributes = append(b.attributes, attrs...)
	b.secondaryTables = append(b.secondaryTables, &SecondaryTableSource{
		Table:           *table,
		KeyValueSources: keyValues,
		ForeignKeyName:  j.Key.ForeignKey,
		Inverse:         j.Inverse,
		Optional:        j.Optional,
		FetchStyle:      fetchStyle,
		CustomInsert:    customSQLOf(j.SQLInsert),
		CustomUpdate:    customSQLOf(j.SQLUpdate),
		CustomDelete:    customSQLOf(j.SQLDelete),
	})

	return nil
}

// finish hands out the completed entity. The builder must not be used afterwards.
func (b *entityBuilder) finish() *EntitySource {
	e := b.entity
	e.Attributes = b.attributes
	e.SecondaryTables = b.secondaryTables

	return &e
}
