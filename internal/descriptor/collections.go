package descriptor

// Collection holds the settings shared by every collection element.
type Collection struct {
	Name      string `yaml:"name"`
	Access    string `yaml:"access,omitempty"`
	Table     string `yaml:"table,omitempty"`
	Schema    string `yaml:"schema,omitempty"`
	Catalog   string `yaml:"catalog,omitempty"`
	Subselect string `yaml:"subselect,omitempty"`
	Check     string `yaml:"check,omitempty"`
	Persister string `yaml:"persister,omitempty"`

	// Lazy is "true", "false" or "extra".
	Lazy           string `yaml:"lazy,omitempty"`
	Fetch          string `yaml:"fetch,omitempty"`
	OuterJoin      string `yaml:"outer-join,omitempty"`
	BatchSize      int    `yaml:"batch-size,omitempty"`
	Cascade        string `yaml:"cascade,omitempty"`
	Inverse        bool   `yaml:"inverse,omitempty"`
	Mutable        *bool  `yaml:"mutable,omitempty"`
	OptimisticLock *bool  `yaml:"optimistic-lock,omitempty"`
	Where          string `yaml:"where,omitempty"`
	OrderBy        string `yaml:"order-by,omitempty"`
	// Sort is "unsorted", "natural" or a comparator class name.
	Sort           string `yaml:"sort,omitempty"`
	CollectionType string `yaml:"collection-type,omitempty"`

	Cache        *Cache     `yaml:"cache,omitempty"`
	Filters      []Filter   `yaml:"filters,omitempty"`
	Synchronize  []string   `yaml:"synchronize,omitempty"`
	SQLInsert    *CustomSQL `yaml:"sql-insert,omitempty"`
	SQLUpdate    *CustomSQL `yaml:"sql-update,omitempty"`
	SQLDelete    *CustomSQL `yaml:"sql-delete,omitempty"`
	SQLDeleteAll *CustomSQL `yaml:"sql-delete-all,omitempty"`

	Key *Key `yaml:"key,omitempty"`

	// Exactly one element kind is expected.
	Element          *Element          `yaml:"element,omitempty"`
	CompositeElement *CompositeElement `yaml:"composite-element,omitempty"`
	OneToMany        *OneToMany        `yaml:"one-to-many,omitempty"`
	ManyToMany       *ManyToMany       `yaml:"many-to-many,omitempty"`
	ManyToAny        *ManyToAny        `yaml:"many-to-any,omitempty"`
}

// Bag is an unordered collection allowing duplicates.
type Bag struct {
	Collection `yaml:",inline"`
}

// Set is an unordered collection without duplicates.
type Set struct {
	Collection `yaml:",inline"`
}

// List is an indexed collection.
type List struct {
	Collection `yaml:",inline"`

	ListIndex *ListIndex `yaml:"list-index,omitempty"`
	// Index is the legacy spelling of ListIndex.
	Index *Index `yaml:"index,omitempty"`
}

// Map is a keyed collection. Exactly one key kind is expected.
type Map struct {
	Collection `yaml:",inline"`

	MapKey           *MapKey           `yaml:"map-key,omitempty"`
	CompositeMapKey  *CompositeMapKey  `yaml:"composite-map-key,omitempty"`
	MapKeyManyToMany *MapKeyManyToMany `yaml:"map-key-many-to-many,omitempty"`
	// Index is the legacy spelling of MapKey.
	Index          *Index          `yaml:"index,omitempty"`
	IndexManyToAny *IndexManyToAny `yaml:"index-many-to-any,omitempty"`
}

// IdBag is a bag with a surrogate key. Not supported by resolution.
type IdBag struct {
	Collection `yaml:",inline"`
}

// Array is an indexed array of entities or values. Not supported by resolution.
type Array struct {
	Collection `yaml:",inline"`
}

// PrimitiveArray is an array of primitive values. Not supported by resolution.
type PrimitiveArray struct {
	Collection `yaml:",inline"`
}

// Element is a basic collection element.
type Element struct {
	Type      *TypeSpec `yaml:"type,omitempty"`
	Column    string    `yaml:"column,omitempty"`
	Formula   string    `yaml:"formula,omitempty"`
	Columns   Columns   `yaml:"columns,omitempty"`
	Length    *int      `yaml:"length,omitempty"`
	Precision *int      `yaml:"precision,omitempty"`
	Scale     *int      `yaml:"scale,omitempty"`
	NotNull   *bool     `yaml:"not-null,omitempty"`
	Unique    bool      `yaml:"unique,omitempty"`
}

// CompositeElement is a component collection element.
type CompositeElement struct {
	Class      string     `yaml:"class,omitempty"`
	Parent     string     `yaml:"parent,omitempty"`
	Attributes Attributes `yaml:"attributes,omitempty"`
}

// OneToMany is an entity collection element stored in the target table.
type OneToMany struct {
	Class      string `yaml:"class,omitempty"`
	EntityName string `yaml:"entity-name,omitempty"`
	NotFound   string `yaml:"not-found,omitempty"`
}

// ManyToMany is an entity collection element stored in a join table.
type ManyToMany struct {
	Class       string   `yaml:"class,omitempty"`
	EntityName  string   `yaml:"entity-name,omitempty"`
	Column      string   `yaml:"column,omitempty"`
	Formula     string   `yaml:"formula,omitempty"`
	Columns     Columns  `yaml:"columns,omitempty"`
	Fetch       string   `yaml:"fetch,omitempty"`
	Lazy        string   `yaml:"lazy,omitempty"`
	OuterJoin   string   `yaml:"outer-join,omitempty"`
	NotFound    string   `yaml:"not-found,omitempty"`
	PropertyRef string   `yaml:"property-ref,omitempty"`
	Where       string   `yaml:"where,omitempty"`
	OrderBy     string   `yaml:"order-by,omitempty"`
	Unique      bool     `yaml:"unique,omitempty"`
	ForeignKey  string   `yaml:"foreign-key,omitempty"`
	Filters     []Filter `yaml:"filters,omitempty"`
}

// ManyToAny is a polymorphic collection element. Not supported by resolution.
type ManyToAny struct {
	IDType   string  `yaml:"id-type,omitempty"`
	MetaType string  `yaml:"meta-type,omitempty"`
	Columns  Columns `yaml:"columns,omitempty"`
}

// ListIndex is the position column of a list.
type ListIndex struct {
	Column  string  `yaml:"column,omitempty"`
	Columns Columns `yaml:"columns,omitempty"`
	Base    int     `yaml:"base,omitempty"`
}

// Index is the legacy index element of lists and maps.
type Index struct {
	Column  string    `yaml:"column,omitempty"`
	Columns Columns   `yaml:"columns,omitempty"`
	Type    *TypeSpec `yaml:"type,omitempty"`
	Length  *int      `yaml:"length,omitempty"`
}

// MapKey is a basic map key.
type MapKey struct {
	Column  string    `yaml:"column,omitempty"`
	Formula string    `yaml:"formula,omitempty"`
	Columns Columns   `yaml:"columns,omitempty"`
	Type    *TypeSpec `yaml:"type,omitempty"`
	Length  *int      `yaml:"length,omitempty"`
}

// CompositeMapKey is a component map key.
type CompositeMapKey struct {
	Class      string     `yaml:"class,omitempty"`
	Attributes Attributes `yaml:"attributes,omitempty"`
}

// MapKeyManyToMany is an entity map key.
type MapKeyManyToMany struct {
	Class      string  `yaml:"class,omitempty"`
	EntityName string  `yaml:"entity-name,omitempty"`
	Column     string  `yaml:"column,omitempty"`
	Formula    string  `yaml:"formula,omitempty"`
	Columns    Columns `yaml:"columns,omitempty"`
	ForeignKey string  `yaml:"foreign-key,omitempty"`
}

// IndexManyToAny is a polymorphic map key. Not supported by resolution.
type IndexManyToAny struct {
	IDType   string  `yaml:"id-type,omitempty"`
	MetaType string  `yaml:"meta-type,omitempty"`
	Columns  Columns `yaml:"columns,omitempty"`
}
