package descriptor

import "hbm-source/internal/common"

// HibernateMapping is the root element of one mapping document.
type HibernateMapping struct {
	// Package is prefixed to unqualified class names.
	Package string `yaml:"package,omitempty"`
	// Schema is the default schema of mapped tables.
	Schema string `yaml:"schema,omitempty"`
	// Catalog is the default catalog of mapped tables.
	Catalog string `yaml:"catalog,omitempty"`
	// DefaultCascade applies to associations without an explicit cascade.
	DefaultCascade string `yaml:"default-cascade,omitempty"`
	// DefaultAccess is the default property access strategy.
	DefaultAccess string `yaml:"default-access,omitempty"`
	// DefaultLazy is the default laziness of classes and associations.
	DefaultLazy *bool `yaml:"default-lazy,omitempty"`
	// AutoImport registers unqualified class names as query imports.
	AutoImport *bool `yaml:"auto-import,omitempty"`

	Classes       []ClassDeclaration `yaml:"classes,omitempty"`
	Imports       []Import           `yaml:"imports,omitempty"`
	Queries       []Query            `yaml:"queries,omitempty"`
	SQLQueries    []SQLQuery         `yaml:"sql-queries,omitempty"`
	ResultSets    []ResultSet        `yaml:"resultsets,omitempty"`
	FilterDefs    []FilterDef        `yaml:"filter-defs,omitempty"`
	TypeDefs      []TypeDef          `yaml:"typedefs,omitempty"`
	FetchProfiles []FetchProfile     `yaml:"fetch-profiles,omitempty"`
}

// ClassKind identifies which element declared a mapped class.
type ClassKind int

const (
	ClassRoot ClassKind = iota
	ClassSubclass
	ClassJoinedSubclass
	ClassUnionSubclass
)

// String returns the element name of the kind.
func (k ClassKind) String() string {
	switch k {
	case ClassRoot:
		return "class"
	case ClassSubclass:
		return "subclass"
	case ClassJoinedSubclass:
		return "joined-subclass"
	case ClassUnionSubclass:
		return "union-subclass"
	default:
		return common.UnknownStr
	}
}

// ClassDeclaration is one entry of a class list: either a root class or one
// of the subclass kinds. Exactly one of Class and Subclass is set.
type ClassDeclaration struct {
	Kind     ClassKind
	Class    *Class
	Subclass *Subclass
}

// Entity returns the fields shared by every class kind.
func (d ClassDeclaration) Entity() *EntityElement {
	if d.Class != nil {
		return &d.Class.EntityElement
	}

	if d.Subclass != nil {
		return &d.Subclass.EntityElement
	}

	return nil
}

// EntityElement holds the settings shared by class and subclass elements.
type EntityElement struct {
	// Name is the class name, possibly unqualified.
	Name string `yaml:"name,omitempty"`
	// EntityName overrides the entity name (defaults to the qualified class name).
	EntityName string `yaml:"entity-name,omitempty"`
	// JPAName is the name used in queries, when it differs from the unqualified class name.
	JPAName string `yaml:"jpa-name,omitempty"`

	Abstract           *bool  `yaml:"abstract,omitempty"`
	Lazy               *bool  `yaml:"lazy,omitempty"`
	Proxy              string `yaml:"proxy,omitempty"`
	BatchSize          int    `yaml:"batch-size,omitempty"`
	DynamicInsert      bool   `yaml:"dynamic-insert,omitempty"`
	DynamicUpdate      bool   `yaml:"dynamic-update,omitempty"`
	SelectBeforeUpdate bool   `yaml:"select-before-update,omitempty"`
	Persister          string `yaml:"persister,omitempty"`
	Subselect          string `yaml:"subselect,omitempty"`
	Loader             string `yaml:"loader,omitempty"`

	Synchronize []string   `yaml:"synchronize,omitempty"`
	SQLInsert   *CustomSQL `yaml:"sql-insert,omitempty"`
	SQLUpdate   *CustomSQL `yaml:"sql-update,omitempty"`
	SQLDelete   *CustomSQL `yaml:"sql-delete,omitempty"`
	Filters     []Filter   `yaml:"filters,omitempty"`

	// Attributes are the declared attributes, in declaration order.
	Attributes Attributes `yaml:"attributes,omitempty"`
	// Joins are the secondary tables.
	Joins []Join `yaml:"joins,omitempty"`
	// Subclasses are the nested subclass declarations.
	Subclasses []ClassDeclaration `yaml:"subclasses,omitempty"`
}

// Class is a root class element.
type Class struct {
	EntityElement `yaml:",inline"`

	Table          string `yaml:"table,omitempty"`
	Schema         string `yaml:"schema,omitempty"`
	Catalog        string `yaml:"catalog,omitempty"`
	Check          string `yaml:"check,omitempty"`
	Comment        string `yaml:"comment,omitempty"`
	Where          string `yaml:"where,omitempty"`
	Rowid          string `yaml:"rowid,omitempty"`
	Mutable        *bool  `yaml:"mutable,omitempty"`
	Polymorphism   string `yaml:"polymorphism,omitempty"`
	OptimisticLock string `yaml:"optimistic-lock,omitempty"`

	DiscriminatorValue string         `yaml:"discriminator-value,omitempty"`
	Discriminator      *Discriminator `yaml:"discriminator,omitempty"`

	ID          *ID          `yaml:"id,omitempty"`
	CompositeID *CompositeID `yaml:"composite-id,omitempty"`
	Version     *Version     `yaml:"version,omitempty"`
	Timestamp   *Timestamp   `yaml:"timestamp,omitempty"`
	NaturalID   *NaturalID   `yaml:"natural-id,omitempty"`
	Cache       *Cache       `yaml:"cache,omitempty"`

	NaturalIDCache *NaturalIDCache `yaml:"natural-id-cache,omitempty"`
}

// Subclass is a subclass, joined-subclass or union-subclass element.
// Table settings apply to joined and union subclasses, Key to joined
// subclasses only.
type Subclass struct {
	EntityElement `yaml:",inline"`

	// Extends names the superclass when the subclass is declared outside its parent.
	Extends            string `yaml:"extends,omitempty"`
	DiscriminatorValue string `yaml:"discriminator-value,omitempty"`

	Table   string `yaml:"table,omitempty"`
	Schema  string `yaml:"schema,omitempty"`
	Catalog string `yaml:"catalog,omitempty"`
	Check   string `yaml:"check,omitempty"`
	Comment string `yaml:"comment,omitempty"`
	Key     *Key   `yaml:"key,omitempty"`
}

// ID is the simple identifier element.
type ID struct {
	Name         string     `yaml:"name,omitempty"`
	Access       string     `yaml:"access,omitempty"`
	Type         *TypeSpec  `yaml:"type,omitempty"`
	Column       string     `yaml:"column,omitempty"`
	Columns      Columns    `yaml:"columns,omitempty"`
	Length       *int       `yaml:"length,omitempty"`
	UnsavedValue string     `yaml:"unsaved-value,omitempty"`
	Generator    *Generator `yaml:"generator,omitempty"`
}

// CompositeID is the composite identifier element. With a Name (or Mapped
// false and a Class) it is an embedded identifier component; otherwise its
// key attributes are virtual.
type CompositeID struct {
	Name         string     `yaml:"name,omitempty"`
	Class        string     `yaml:"class,omitempty"`
	Access       string     `yaml:"access,omitempty"`
	Mapped       bool       `yaml:"mapped,omitempty"`
	UnsavedValue string     `yaml:"unsaved-value,omitempty"`
	Attributes   Attributes `yaml:"attributes,omitempty"`
	Generator    *Generator `yaml:"generator,omitempty"`
}

// Generator names an identifier generation strategy.
type Generator struct {
	Class  string            `yaml:"class,omitempty"`
	Params map[string]string `yaml:"params,omitempty"`
}

// Version is the version element.
type Version struct {
	Name         string    `yaml:"name,omitempty"`
	Access       string    `yaml:"access,omitempty"`
	Type         *TypeSpec `yaml:"type,omitempty"`
	Column       string    `yaml:"column,omitempty"`
	Columns      Columns   `yaml:"columns,omitempty"`
	UnsavedValue string    `yaml:"unsaved-value,omitempty"`
	Generated    string    `yaml:"generated,omitempty"`
	Insert       *bool     `yaml:"insert,omitempty"`
}

// Timestamp is the timestamp element, an alternative to Version.
type Timestamp struct {
	Name         string `yaml:"name,omitempty"`
	Access       string `yaml:"access,omitempty"`
	Column       string `yaml:"column,omitempty"`
	UnsavedValue string `yaml:"unsaved-value,omitempty"`
	// Source is "vm" or "db".
	Source    string `yaml:"source,omitempty"`
	Generated string `yaml:"generated,omitempty"`
}

// Discriminator is the discriminator element of a root class.
type Discriminator struct {
	Column  string    `yaml:"column,omitempty"`
	Formula string    `yaml:"formula,omitempty"`
	Columns Columns   `yaml:"columns,omitempty"`
	Type    *TypeSpec `yaml:"type,omitempty"`
	Length  *int      `yaml:"length,omitempty"`
	NotNull *bool     `yaml:"not-null,omitempty"`
	Force   bool      `yaml:"force,omitempty"`
	Insert  *bool     `yaml:"insert,omitempty"`
}

// NaturalID groups the attributes of the business key.
type NaturalID struct {
	Mutable    bool       `yaml:"mutable,omitempty"`
	Attributes Attributes `yaml:"attributes,omitempty"`
}

// NaturalIDCache is the cache region of natural-id lookups.
type NaturalIDCache struct {
	Region string `yaml:"region,omitempty"`
}

// Cache is the second-level cache setting of a class or collection.
type Cache struct {
	Usage   string `yaml:"usage,omitempty"`
	Region  string `yaml:"region,omitempty"`
	Include string `yaml:"include,omitempty"`
}

// Filter applies a filter definition to a class or collection.
type Filter struct {
	Name      string `yaml:"name"`
	Condition string `yaml:"condition,omitempty"`
}

// Join is a secondary table.
type Join struct {
	Table     string     `yaml:"table"`
	Schema    string     `yaml:"schema,omitempty"`
	Catalog   string     `yaml:"catalog,omitempty"`
	Subselect string     `yaml:"subselect,omitempty"`
	Comment   string     `yaml:"comment,omitempty"`
	Inverse   bool       `yaml:"inverse,omitempty"`
	Optional  bool       `yaml:"optional,omitempty"`
	Fetch     string     `yaml:"fetch,omitempty"`
	Key       *Key       `yaml:"key,omitempty"`
	SQLInsert *CustomSQL `yaml:"sql-insert,omitempty"`
	SQLUpdate *CustomSQL `yaml:"sql-update,omitempty"`
	SQLDelete *CustomSQL `yaml:"sql-delete,omitempty"`

	Attributes Attributes `yaml:"attributes,omitempty"`
}

// Key is a foreign key back to the owning table.
type Key struct {
	Column      string  `yaml:"column,omitempty"`
	Columns     Columns `yaml:"columns,omitempty"`
	PropertyRef string  `yaml:"property-ref,omitempty"`
	ForeignKey  string  `yaml:"foreign-key,omitempty"`
	// OnDelete is "cascade" or "noaction".
	OnDelete string `yaml:"on-delete,omitempty"`
	NotNull  *bool  `yaml:"not-null,omitempty"`
	Update   *bool  `yaml:"update,omitempty"`
	Unique   *bool  `yaml:"unique,omitempty"`
}

// Column is a nested column element.
type Column struct {
	Name      string `yaml:"name,omitempty"`
	SQLType   string `yaml:"sql-type,omitempty"`
	Length    *int   `yaml:"length,omitempty"`
	Precision *int   `yaml:"precision,omitempty"`
	Scale     *int   `yaml:"scale,omitempty"`
	NotNull   *bool  `yaml:"not-null,omitempty"`
	Unique    *bool  `yaml:"unique,omitempty"`
	UniqueKey string `yaml:"unique-key,omitempty"`
	Index     string `yaml:"index,omitempty"`
	Default   string `yaml:"default,omitempty"`
	Check     string `yaml:"check,omitempty"`
	Comment   string `yaml:"comment,omitempty"`
	Read      string `yaml:"read,omitempty"`
	Write     string `yaml:"write,omitempty"`
}

// ColumnOrFormula is one entry of a nested column list: a column element
// or a formula. Column is nil for formulas.
type ColumnOrFormula struct {
	Column  *Column
	Formula string
}

// IsFormula reports whether the entry is a formula.
func (c ColumnOrFormula) IsFormula() bool {
	return c.Column == nil
}

// Columns is an ordered list of nested column and formula elements.
type Columns []ColumnOrFormula

// TypeSpec is an explicit Hibernate type: a name plus optional parameters.
type TypeSpec struct {
	Name   string            `yaml:"name,omitempty"`
	Params map[string]string `yaml:"params,omitempty"`
}

// CustomSQL is a custom insert, update or delete statement.
type CustomSQL struct {
	SQL      string `yaml:"sql,omitempty"`
	Callable bool   `yaml:"callable,omitempty"`
	// Check is "none", "rowcount" or "param".
	Check string `yaml:"check,omitempty"`
}
