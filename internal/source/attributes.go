package source

import (
	"maps"

	"hbm-source/internal/common"
	"hbm-source/internal/descriptor"
	"hbm-source/internal/strategy"
)

// NaturalIDMutability classifies an attribute's part in the business key.
type NaturalIDMutability int

const (
	NotNaturalID NaturalIDMutability = iota
	NaturalIDMutable
	NaturalIDImmutable
)

// String returns a human-readable classification.
func (n NaturalIDMutability) String() string {
	switch n {
	case NotNaturalID:
		return "not_natural_id"
	case NaturalIDMutable:
		return "mutable"
	case NaturalIDImmutable:
		return "immutable"
	default:
		return common.UnknownStr
	}
}

// PropertyGeneration is when the database generates an attribute's value.
type PropertyGeneration int

const (
	GenerationNever PropertyGeneration = iota
	GenerationInsert
	GenerationAlways
)

// String returns the descriptor token for the generation.
func (g PropertyGeneration) String() string {
	switch g {
	case GenerationNever:
		return "never"
	case GenerationInsert:
		return "insert"
	case GenerationAlways:
		return "always"
	default:
		return common.UnknownStr
	}
}

func parsePropertyGeneration(token, attribute string) (PropertyGeneration, error) {
	switch token {
	case "", "never":
		return GenerationNever, nil
	case "insert":
		return GenerationInsert, nil
	case "always":
		return GenerationAlways, nil
	default:
		return GenerationNever, &strategy.UnknownTokenError{Setting: "generated", Token: token, Attribute: attribute}
	}
}

// TypeSource is an explicit type: a name and its parameters. An empty Name
// leaves the type to be inferred by the binder.
type TypeSource struct {
	Name   string
	Params map[string]string
}

func typeSourceOf(t *descriptor.TypeSpec, def string) TypeSource {
	if t == nil || t.Name == "" {
		return TypeSource{Name: def}
	}

	return TypeSource{Name: t.Name, Params: maps.Clone(t.Params)}
}

// AttributeInfo holds what every attribute source carries.
type AttributeInfo struct {
	Name string
	// Path is the attribute path from the owning entity, e.g. "address.street".
	Path   string
	Access string
	Type   TypeSource
	// OptimisticLocked reports whether changes increment the entity version.
	OptimisticLocked bool
	NaturalID        NaturalIDMutability
}

// Info returns the shared attribute settings.
func (a *AttributeInfo) Info() *AttributeInfo { return a }

// AttributeSource is one declared attribute. The set of implementations is
// closed: *BasicAttributeSource, *ComponentAttributeSource,
// *ToOneAttributeSource and *PluralAttributeSource.
type AttributeSource interface {
	Info() *AttributeInfo
	IsSingular() bool
	attributeSource()
}

// BasicAttributeSource is a single valued attribute mapped to columns or a formula.
type BasicAttributeSource struct {
	AttributeInfo

	ValueSources []RelationalValueSource
	Generation   PropertyGeneration
	Lazy         bool

	IncludedInInsert  bool
	IncludedInUpdate  bool
	NullableByDefault bool
}

// ComponentAttributeSource is an embedded value with its own sub-attributes.
type ComponentAttributeSource struct {
	AttributeInfo

	// Class is the qualified component class name, if declared.
	Class string
	// ParentReference names the component property pointing back to its owner.
	ParentReference string
	Lazy            bool
	Unique          bool

	IncludedInInsert bool
	IncludedInUpdate bool

	// Attributes are the sub-attributes in declaration order.
	Attributes []AttributeSource
}

// ToOneNature distinguishes the to-one association kinds.
type ToOneNature int

const (
	ManyToOne ToOneNature = iota
	OneToOne
)

// String returns the descriptor element name of the nature.
func (n ToOneNature) String() string {
	switch n {
	case ManyToOne:
		return "many-to-one"
	case OneToOne:
		return "one-to-one"
	default:
		return common.UnknownStr
	}
}

// ToOneAttributeSource is a many-to-one or one-to-one association. Fetch
// timing and style are derived from the declared settings on demand.
type ToOneAttributeSource struct {
	AttributeInfo

	Nature ToOneNature
	// ReferencedEntity is the target entity name.
	ReferencedEntity string
	// ReferencedProperty is the property-ref; empty means the target's identifier.
	ReferencedProperty string
	ValueSources       []RelationalValueSource
	Cascade            strategy.CascadeStyles
	// Constrained marks a one-to-one whose primary key references the target.
	Constrained    bool
	Unique         bool
	IgnoreNotFound bool
	ForeignKeyName string

	IncludedInInsert  bool
	IncludedInUpdate  bool
	NullableByDefault bool

	fetch strategy.FetchSettings
}

// FetchTiming derives when the target is loaded.
func (a *ToOneAttributeSource) FetchTiming() strategy.FetchTiming {
	// settings were validated when the source was built
	t, _ := strategy.ResolveFetchTiming(a.fetch)
	return t
}

// FetchStyle derives how the target is loaded.
func (a *ToOneAttributeSource) FetchStyle() strategy.FetchStyle {
	return strategy.ResolveFetchStyle(a.fetch)
}

// DefaultNamingRules returns the column naming rules used when the
// association declares no columns: one per column of the referenced
// attribute.
func (a *ToOneAttributeSource) DefaultNamingRules(referenced strategy.ReferencedAttribute) []strategy.DefaultNamingRule {
	return strategy.DefaultNamingRules(a.Name, referenced)
}

func (*BasicAttributeSource) IsSingular() bool     { return true }
func (*ComponentAttributeSource) IsSingular() bool { return true }
func (*ToOneAttributeSource) IsSingular() bool     { return true }
func (*PluralAttributeSource) IsSingular() bool    { return false }

func (*BasicAttributeSource) attributeSource()     {}
func (*ComponentAttributeSource) attributeSource() {}
func (*ToOneAttributeSource) attributeSource()     {}
func (*PluralAttributeSource) attributeSource()    {}

// ReferencedAttribute adapts an attribute source to the naming resolver's
// view of a foreign key target.
func ReferencedAttribute(a AttributeSource) strategy.ReferencedAttribute {
	return referencedAttribute{a}
}

type referencedAttribute struct {
	attr AttributeSource
}

func (r referencedAttribute) Name() string {
	return r.attr.Info().Name
}

func (r referencedAttribute) SubAttributes() []strategy.ReferencedAttribute {
	c, ok := r.attr.(*ComponentAttributeSource)
	if !ok {
		return nil
	}

	subs := make([]strategy.ReferencedAttribute, len(c.Attributes))
	for i, sub := range c.Attributes {
		subs[i] = referencedAttribute{sub}
	}

	return subs
}
