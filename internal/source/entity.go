package source

import (
	"hbm-source/internal/common"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/strategy"
)

// EntityKind is the variant of a mapped class.
type EntityKind int

const (
	EntityRoot EntityKind = iota
	EntityJoinedSubclass
	EntityDiscriminatedSubclass
	EntityUnionSubclass
)

// String returns a human-readable entity kind.
func (k EntityKind) String() string {
	switch k {
	case EntityRoot:
		return "root"
	case EntityJoinedSubclass:
		return "joined_subclass"
	case EntityDiscriminatedSubclass:
		return "discriminated_subclass"
	case EntityUnionSubclass:
		return "union_subclass"
	default:
		return common.UnknownStr
	}
}

// TableSource is a physical table reference.
type TableSource struct {
	Schema  string
	Catalog string
	Name    string
	// Subselect replaces the table by a query when set.
	Subselect string
	Check     string
	Comment   string
}

// CustomSQLSource is a custom insert, update or delete statement.
type CustomSQLSource struct {
	SQL      string
	Callable bool
	Check    string
}

// FilterSource applies a filter definition.
type FilterSource struct {
	Name      string
	Condition string
}

// EntitySource is one mapped class. Root-only settings are nil or zero on
// subclasses. The superclass link and the subclasses are kept by the owning
// EntityHierarchy.
type EntitySource struct {
	Kind EntityKind
	// Origin locates the declaring element.
	Origin diagnostic.Origin

	ClassName  string
	EntityName string
	JPAName    string

	Abstract           bool
	Lazy               bool
	Proxy              string
	BatchSize          int
	DynamicInsert      bool
	DynamicUpdate      bool
	SelectBeforeUpdate bool
	Persister          string
	Synchronize        []string
	Filters            []FilterSource

	CustomInsert *CustomSQLSource
	CustomUpdate *CustomSQLSource
	CustomDelete *CustomSQLSource

	// PrimaryTable is nil for discriminated subclasses, which share the root table.
	PrimaryTable *TableSource
	// DiscriminatorMatchValue selects this class in a single-table hierarchy.
	DiscriminatorMatchValue string

	// Attributes are natural-id attributes, then the declared attributes,
	// then secondary table attributes, each in declaration order.
	Attributes      []AttributeSource
	SecondaryTables []*SecondaryTableSource

	// Root only.
	Identifier           *IdentifierSource
	Version              *VersionSource
	Discriminator        *DiscriminatorSource
	OptimisticLock       OptimisticLockStyle
	Caching              *Caching
	NaturalIDCacheRegion string
	Mutable              bool
	ExplicitPolymorphism bool
	Where                string
	Rowid                string

	// Joined subclass only: the primary key columns joining to the superclass table.
	PrimaryKeyJoinColumns []RelationalValueSource
	JoinForeignKeyName    string

	// Extends is the declared superclass name of a top-level subclass element.
	Extends string
}

// Attribute returns the attribute with the given name.
func (e *EntitySource) Attribute(name string) (AttributeSource, bool) {
	for _, a := range e.Attributes {
		if a.Info().Name == name {
			return a, true
		}
	}

	return nil, false
}

// IdentifierNature is the identifier strategy of a root entity.
type IdentifierNature int

const (
	IdentifierSimple IdentifierNature = iota
	IdentifierAggregatedComposite
	IdentifierNonAggregatedComposite
)

// String returns a human-readable identifier nature.
func (n IdentifierNature) String() string {
	switch n {
	case IdentifierSimple:
		return "simple"
	case IdentifierAggregatedComposite:
		return "aggregated_composite"
	case IdentifierNonAggregatedComposite:
		return "non_aggregated_composite"
	default:
		return common.UnknownStr
	}
}

// IdentifierSource is the identifier of a root entity.
type IdentifierSource struct {
	Nature IdentifierNature
	// Attribute is the *BasicAttributeSource of a simple identifier or the
	// *ComponentAttributeSource of an aggregated one. Nil for non-aggregated
	// identifiers.
	Attribute AttributeSource
	// Attributes are the virtual key attributes of a non-aggregated identifier.
	Attributes []AttributeSource
	// IDClass is the identifier class of a mapped non-aggregated identifier.
	IDClass      string
	Generator    GeneratorSource
	UnsavedValue string
}

// GeneratorSource is an identifier generation strategy.
type GeneratorSource struct {
	Strategy string
	Params   map[string]string
}

// VersionNature distinguishes version from timestamp versioning.
type VersionNature int

const (
	VersionCounter VersionNature = iota
	VersionTimestamp
)

// String returns the descriptor element name of the nature.
func (n VersionNature) String() string {
	switch n {
	case VersionCounter:
		return "version"
	case VersionTimestamp:
		return "timestamp"
	default:
		return common.UnknownStr
	}
}

// VersionSource is the optimistic locking version attribute.
type VersionSource struct {
	Nature       VersionNature
	Attribute    *BasicAttributeSource
	UnsavedValue string
	// TimestampSource is "vm" or "db" for timestamps.
	TimestampSource string
}

// DiscriminatorSource is the discriminator of a single-table hierarchy.
type DiscriminatorSource struct {
	ValueSource RelationalValueSource
	Type        TypeSource
	Forced      bool
	Inserted    bool
}

// OptimisticLockStyle is how concurrent updates are detected.
type OptimisticLockStyle int

const (
	OptimisticLockVersion OptimisticLockStyle = iota
	OptimisticLockNone
	OptimisticLockDirty
	OptimisticLockAll
)

// String returns the descriptor token of the style.
func (s OptimisticLockStyle) String() string {
	switch s {
	case OptimisticLockVersion:
		return "version"
	case OptimisticLockNone:
		return "none"
	case OptimisticLockDirty:
		return "dirty"
	case OptimisticLockAll:
		return "all"
	default:
		return common.UnknownStr
	}
}

// ParseOptimisticLockStyle parses an optimistic-lock token; empty means version.
func ParseOptimisticLockStyle(token, entity string) (OptimisticLockStyle, error) {
	switch token {
	case "", "version":
		return OptimisticLockVersion, nil
	case "none":
		return OptimisticLockNone, nil
	case "dirty":
		return OptimisticLockDirty, nil
	case "all":
		return OptimisticLockAll, nil
	default:
		return OptimisticLockVersion, &strategy.UnknownTokenError{Setting: "optimistic-lock", Token: token, Attribute: entity}
	}
}

// CacheUsage is the concurrency strategy of a cache region.
type CacheUsage int

const (
	CacheReadOnly CacheUsage = iota
	CacheReadWrite
	CacheNonstrictReadWrite
	CacheTransactional
)

// String returns the descriptor token of the usage.
func (u CacheUsage) String() string {
	switch u {
	case CacheReadOnly:
		return "read-only"
	case CacheReadWrite:
		return "read-write"
	case CacheNonstrictReadWrite:
		return "nonstrict-read-write"
	case CacheTransactional:
		return "transactional"
	default:
		return common.UnknownStr
	}
}

// ParseCacheUsage parses a cache usage token.
func ParseCacheUsage(token, owner string) (CacheUsage, error) {
	switch token {
	case "read-only":
		return CacheReadOnly, nil
	case "read-write":
		return CacheReadWrite, nil
	case "nonstrict-read-write":
		return CacheNonstrictReadWrite, nil
	case "transactional":
		return CacheTransactional, nil
	default:
		return CacheReadOnly, &strategy.UnknownTokenError{Setting: "cache usage", Token: token, Attribute: owner}
	}
}

// Caching is the second-level cache setting of an entity or collection.
type Caching struct {
	Usage  CacheUsage
	Region string
	// IncludeLazy reports whether lazy attributes are cached ("all" versus "non-lazy").
	IncludeLazy bool
}

// SecondaryTableSource is a table joined to the entity's primary table.
type SecondaryTableSource struct {
	Table TableSource
	// KeyValueSources are the columns referencing the primary table.
	KeyValueSources []RelationalValueSource
	ForeignKeyName  string
	Inverse         bool
	Optional        bool
	FetchStyle      strategy.FetchStyle
	CustomInsert    *CustomSQLSource
	CustomUpdate    *CustomSQLSource
	CustomDelete    *CustomSQLSource
}
