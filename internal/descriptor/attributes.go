package descriptor

// AttributeElement is one entry of an ordered attribute list. The set of
// implementations is closed; ElementName returns the descriptor key that
// declared it.
type AttributeElement interface {
	ElementName() string
	AttributeName() string
	attributeElement()
}

// Attributes is an ordered list of attribute elements.
type Attributes []AttributeElement

// Property is a basic valued attribute.
type Property struct {
	Name           string    `yaml:"name"`
	Access         string    `yaml:"access,omitempty"`
	Type           *TypeSpec `yaml:"type,omitempty"`
	Column         string    `yaml:"column,omitempty"`
	Formula        string    `yaml:"formula,omitempty"`
	Columns        Columns   `yaml:"columns,omitempty"`
	Length         *int      `yaml:"length,omitempty"`
	Precision      *int      `yaml:"precision,omitempty"`
	Scale          *int      `yaml:"scale,omitempty"`
	NotNull        *bool     `yaml:"not-null,omitempty"`
	Unique         bool      `yaml:"unique,omitempty"`
	UniqueKey      string    `yaml:"unique-key,omitempty"`
	Index          string    `yaml:"index,omitempty"`
	Insert         *bool     `yaml:"insert,omitempty"`
	Update         *bool     `yaml:"update,omitempty"`
	OptimisticLock *bool     `yaml:"optimistic-lock,omitempty"`
	Lazy           bool      `yaml:"lazy,omitempty"`
	// Generated is "never", "insert" or "always".
	Generated string `yaml:"generated,omitempty"`
}

// KeyProperty is a basic attribute of a composite identifier or composite map key.
type KeyProperty struct {
	Property `yaml:",inline"`
}

// ManyToOne is a many-to-one association.
type ManyToOne struct {
	Name           string  `yaml:"name"`
	Access         string  `yaml:"access,omitempty"`
	Class          string  `yaml:"class,omitempty"`
	EntityName     string  `yaml:"entity-name,omitempty"`
	Column         string  `yaml:"column,omitempty"`
	Formula        string  `yaml:"formula,omitempty"`
	Columns        Columns `yaml:"columns,omitempty"`
	NotNull        *bool   `yaml:"not-null,omitempty"`
	Unique         bool    `yaml:"unique,omitempty"`
	UniqueKey      string  `yaml:"unique-key,omitempty"`
	Index          string  `yaml:"index,omitempty"`
	Cascade        string  `yaml:"cascade,omitempty"`
	Fetch          string  `yaml:"fetch,omitempty"`
	Lazy           string  `yaml:"lazy,omitempty"`
	OuterJoin      string  `yaml:"outer-join,omitempty"`
	Insert         *bool   `yaml:"insert,omitempty"`
	Update         *bool   `yaml:"update,omitempty"`
	OptimisticLock *bool   `yaml:"optimistic-lock,omitempty"`
	PropertyRef    string  `yaml:"property-ref,omitempty"`
	ForeignKey     string  `yaml:"foreign-key,omitempty"`
	// NotFound is "exception" or "ignore".
	NotFound string `yaml:"not-found,omitempty"`
}

// KeyManyToOne is a to-one attribute of a composite identifier or composite map key.
type KeyManyToOne struct {
	ManyToOne `yaml:",inline"`
}

// OneToOne is a one-to-one association.
type OneToOne struct {
	Name        string  `yaml:"name"`
	Access      string  `yaml:"access,omitempty"`
	Class       string  `yaml:"class,omitempty"`
	EntityName  string  `yaml:"entity-name,omitempty"`
	Cascade     string  `yaml:"cascade,omitempty"`
	Constrained bool    `yaml:"constrained,omitempty"`
	Fetch       string  `yaml:"fetch,omitempty"`
	Lazy        string  `yaml:"lazy,omitempty"`
	OuterJoin   string  `yaml:"outer-join,omitempty"`
	PropertyRef string  `yaml:"property-ref,omitempty"`
	ForeignKey  string  `yaml:"foreign-key,omitempty"`
	Formula     string  `yaml:"formula,omitempty"`
	Columns     Columns `yaml:"columns,omitempty"`
}

// Component is an embedded value type with its own attributes.
type Component struct {
	Name           string     `yaml:"name"`
	Access         string     `yaml:"access,omitempty"`
	Class          string     `yaml:"class,omitempty"`
	Insert         *bool      `yaml:"insert,omitempty"`
	Update         *bool      `yaml:"update,omitempty"`
	Lazy           bool       `yaml:"lazy,omitempty"`
	OptimisticLock *bool      `yaml:"optimistic-lock,omitempty"`
	Unique         bool       `yaml:"unique,omitempty"`
	Parent         string     `yaml:"parent,omitempty"`
	Attributes     Attributes `yaml:"attributes,omitempty"`
}

// NestedCompositeElement is a component nested in a composite collection element.
type NestedCompositeElement struct {
	Component `yaml:",inline"`
}

// DynamicComponent is a map-backed component. Not supported by resolution.
type DynamicComponent struct {
	Component `yaml:",inline"`
}

// Properties is a named grouping of attributes. Not supported by resolution.
type Properties struct {
	Name       string     `yaml:"name"`
	Unique     bool       `yaml:"unique,omitempty"`
	Insert     *bool      `yaml:"insert,omitempty"`
	Update     *bool      `yaml:"update,omitempty"`
	Attributes Attributes `yaml:"attributes,omitempty"`
}

// AnyElement is a polymorphic association. Not supported by resolution.
type AnyElement struct {
	Name     string  `yaml:"name"`
	IDType   string  `yaml:"id-type,omitempty"`
	MetaType string  `yaml:"meta-type,omitempty"`
	Columns  Columns `yaml:"columns,omitempty"`
}

func (*Property) ElementName() string               { return "property" }
func (*KeyProperty) ElementName() string            { return "key-property" }
func (*ManyToOne) ElementName() string              { return "many-to-one" }
func (*KeyManyToOne) ElementName() string           { return "key-many-to-one" }
func (*OneToOne) ElementName() string               { return "one-to-one" }
func (*Component) ElementName() string              { return "component" }
func (*NestedCompositeElement) ElementName() string { return "nested-composite-element" }
func (*DynamicComponent) ElementName() string       { return "dynamic-component" }
func (*Properties) ElementName() string             { return "properties" }
func (*AnyElement) ElementName() string             { return "any" }
func (*Bag) ElementName() string                    { return "bag" }
func (*Set) ElementName() string                    { return "set" }
func (*List) ElementName() string                   { return "list" }
func (*Map) ElementName() string                    { return "map" }
func (*IdBag) ElementName() string                  { return "idbag" }
func (*Array) ElementName() string                  { return "array" }
func (*PrimitiveArray) ElementName() string         { return "primitive-array" }

func (p *Property) AttributeName() string   { return p.Name }
func (m *ManyToOne) AttributeName() string  { return m.Name }
func (o *OneToOne) AttributeName() string   { return o.Name }
func (c *Component) AttributeName() string  { return c.Name }
func (p *Properties) AttributeName() string { return p.Name }
func (a *AnyElement) AttributeName() string { return a.Name }

func (c *Collection) AttributeName() string { return c.Name }

func (*Property) attributeElement()   {}
func (*ManyToOne) attributeElement()  {}
func (*OneToOne) attributeElement()   {}
func (*Component) attributeElement()  {}
func (*Properties) attributeElement() {}
func (*AnyElement) attributeElement() {}
func (*Collection) attributeElement() {}

var (
	_ AttributeElement = (*Property)(nil)
	_ AttributeElement = (*KeyProperty)(nil)
	_ AttributeElement = (*ManyToOne)(nil)
	_ AttributeElement = (*KeyManyToOne)(nil)
	_ AttributeElement = (*OneToOne)(nil)
	_ AttributeElement = (*Component)(nil)
	_ AttributeElement = (*NestedCompositeElement)(nil)
	_ AttributeElement = (*DynamicComponent)(nil)
	_ AttributeElement = (*Properties)(nil)
	_ AttributeElement = (*AnyElement)(nil)
	_ AttributeElement = (*Bag)(nil)
	_ AttributeElement = (*Set)(nil)
	_ AttributeElement = (*List)(nil)
	_ AttributeElement = (*Map)(nil)
	_ AttributeElement = (*IdBag)(nil)
	_ AttributeElement = (*Array)(nil)
	_ AttributeElement = (*PrimitiveArray)(nil)
)

// attributeFactories maps attribute list keys to element constructors.
var attributeFactories = map[string]func() AttributeElement{
	"property":                 func() AttributeElement { return &Property{} },
	"key-property":             func() AttributeElement { return &KeyProperty{} },
	"many-to-one":              func() AttributeElement { return &ManyToOne{} },
	"key-many-to-one":          func() AttributeElement { return &KeyManyToOne{} },
	"one-to-one":               func() AttributeElement { return &OneToOne{} },
	"component":                func() AttributeElement { return &Component{} },
	"nested-composite-element": func() AttributeElement { return &NestedCompositeElement{} },
	"dynamic-component":        func() AttributeElement { return &DynamicComponent{} },
	"properties":               func() AttributeElement { return &Properties{} },
	"any":                      func() AttributeElement { return &AnyElement{} },
	"bag":                      func() AttributeElement { return &Bag{} },
	"set":                      func() AttributeElement { return &Set{} },
	"list":                     func() AttributeElement { return &List{} },
	"map":                      func() AttributeElement { return &Map{} },
	"idbag":                    func() AttributeElement { return &IdBag{} },
	"array":                    func() AttributeElement { return &Array{} },
	"primitive-array":          func() AttributeElement { return &PrimitiveArray{} },
}
