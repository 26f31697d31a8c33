package source

import (
	"hbm-source/internal/common"
	"hbm-source/internal/strategy"
)

// PluralNature is the collection semantics of a plural attribute.
type PluralNature int

const (
	PluralBag PluralNature = iota
	PluralSet
	PluralList
	PluralMap
)

// String returns the descriptor element name of the nature.
func (n PluralNature) String() string {
	switch n {
	case PluralBag:
		return "bag"
	case PluralSet:
		return "set"
	case PluralList:
		return "list"
	case PluralMap:
		return "map"
	default:
		return common.UnknownStr
	}
}

// Indexed reports whether the collection owns an index.
func (n PluralNature) Indexed() bool {
	return n == PluralList || n == PluralMap
}

// PluralAttributeSource is a collection attribute. Key and Element are
// always set; Index is set exactly for lists and maps.
type PluralAttributeSource struct {
	AttributeInfo

	Nature PluralNature
	// CollectionTable is the join table; nil for one-to-many collections.
	CollectionTable *TableSource

	Key     *KeySource
	Element ElementSource
	Index   IndexSource

	Cascade        strategy.CascadeStyles
	Inverse        bool
	Mutable        bool
	Where          string
	OrderBy        string
	Sort           string
	BatchSize      int
	CollectionType string
	Check          string
	Persister      string
	Caching        *Caching
	Filters        []FilterSource
	Synchronize    []string
	CustomSQL      CollectionCustomSQL

	fetch strategy.FetchSettings
}

// FetchTiming derives when the collection is loaded.
func (p *PluralAttributeSource) FetchTiming() strategy.FetchTiming {
	// settings were validated when the source was built
	t, _ := strategy.ResolveFetchTiming(p.fetch)
	return t
}

// FetchStyle derives how the collection is loaded.
func (p *PluralAttributeSource) FetchStyle() strategy.FetchStyle {
	return strategy.ResolveFetchStyle(p.fetch)
}

// CollectionCustomSQL holds the custom statements of a collection.
type CollectionCustomSQL struct {
	Insert    *CustomSQLSource
	Update    *CustomSQLSource
	Delete    *CustomSQLSource
	DeleteAll *CustomSQLSource
}

// KeySource is the foreign key of a collection back to its owner. Its
// ValueSources are never empty: an undeclared key yields one implicit column.
type KeySource struct {
	ValueSources []RelationalValueSource
	// ReferencedProperty is the owner property the key references; empty
	// means the owner's identifier.
	ReferencedProperty   string
	ForeignKeyName       string
	CascadeDeleteEnabled bool
	Updatable            bool
	Nullable             TruthValue
	Unique               bool
}

// ElementNature is the kind of a collection element.
type ElementNature int

const (
	ElementBasic ElementNature = iota
	ElementAggregate
	ElementOneToMany
	ElementManyToMany
)

// String returns a human-readable element nature.
func (n ElementNature) String() string {
	switch n {
	case ElementBasic:
		return "basic"
	case ElementAggregate:
		return "aggregate"
	case ElementOneToMany:
		return "one_to_many"
	case ElementManyToMany:
		return "many_to_many"
	default:
		return common.UnknownStr
	}
}

// ElementSource is the element of a collection. The set of implementations
// is closed: *BasicElementSource, *AggregateElementSource,
// *OneToManyElementSource and *ManyToManyElementSource.
type ElementSource interface {
	Nature() ElementNature
	elementSource()
}

// BasicElementSource is a collection of basic values.
type BasicElementSource struct {
	Type         TypeSource
	ValueSources []RelationalValueSource
}

// AggregateElementSource is a collection of components.
type AggregateElementSource struct {
	Class           string
	ParentReference string
	// Path is the attribute path used for the sub-attributes.
	Path       string
	Attributes []AttributeSource
}

// OneToManyElementSource is a collection of entities owning the foreign key.
type OneToManyElementSource struct {
	ReferencedEntity string
	IgnoreNotFound   bool
}

// ManyToManyElementSource is a collection of entities linked through the
// collection table.
type ManyToManyElementSource struct {
	ReferencedEntity   string
	ReferencedProperty string
	ValueSources       []RelationalValueSource
	Where              string
	OrderBy            string
	Unique             bool
	IgnoreNotFound     bool
	ForeignKeyName     string
	Filters            []FilterSource

	fetch strategy.FetchSettings
}

// FetchTiming derives when the element entities are loaded. Unlike other
// associations an unrecognized lazy token means DELAYED.
func (m *ManyToManyElementSource) FetchTiming() strategy.FetchTiming {
	return strategy.ResolveManyToManyFetchTiming(m.fetch)
}

// FetchStyle derives how the element entities are loaded.
func (m *ManyToManyElementSource) FetchStyle() strategy.FetchStyle {
	return strategy.ResolveFetchStyle(m.fetch)
}

func (*BasicElementSource) Nature() ElementNature      { return ElementBasic }
func (*AggregateElementSource) Nature() ElementNature  { return ElementAggregate }
func (*OneToManyElementSource) Nature() ElementNature  { return ElementOneToMany }
func (*ManyToManyElementSource) Nature() ElementNature { return ElementManyToMany }

func (*BasicElementSource) elementSource()      {}
func (*AggregateElementSource) elementSource()  {}
func (*OneToManyElementSource) elementSource()  {}
func (*ManyToManyElementSource) elementSource() {}

// IndexNature is the kind of a list or map index.
type IndexNature int

const (
	IndexSequential IndexNature = iota
	IndexBasic
	IndexAggregate
	IndexEntity
)

// String returns a human-readable index nature.
func (n IndexNature) String() string {
	switch n {
	case IndexSequential:
		return "sequential"
	case IndexBasic:
		return "basic"
	case IndexAggregate:
		return "aggregate"
	case IndexEntity:
		return "entity"
	default:
		return common.UnknownStr
	}
}

// IndexSource is the index of a list or map. The set of implementations is
// closed: *SequentialIndexSource, *BasicIndexSource, *AggregateIndexSource
// and *EntityIndexSource.
type IndexSource interface {
	Nature() IndexNature
	indexSource()
}

// SequentialIndexSource is the integer position column of a list.
type SequentialIndexSource struct {
	Base         int
	ValueSources []RelationalValueSource
}

// BasicIndexSource is a basic map key.
type BasicIndexSource struct {
	Type         TypeSource
	ValueSources []RelationalValueSource
}

// AggregateIndexSource is a component map key.
type AggregateIndexSource struct {
	Class      string
	Path       string
	Attributes []AttributeSource
}

// EntityIndexSource is an entity map key.
type EntityIndexSource struct {
	ReferencedEntity string
	ValueSources     []RelationalValueSource
	ForeignKeyName   string
}

func (*SequentialIndexSource) Nature() IndexNature { return IndexSequential }
func (*BasicIndexSource) Nature() IndexNature      { return IndexBasic }
func (*AggregateIndexSource) Nature() IndexNature  { return IndexAggregate }
func (*EntityIndexSource) Nature() IndexNature     { return IndexEntity }

func (*SequentialIndexSource) indexSource() {}
func (*BasicIndexSource) indexSource()      {}
func (*AggregateIndexSource) indexSource()  {}
func (*EntityIndexSource) indexSource()     {}
