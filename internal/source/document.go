package source

import (
	"strings"

	"hbm-source/internal/common"
	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/strategy"
)

// MappingDefaults is one level of the binding context: the naming, quoting
// and package defaults in effect for a document.
type MappingDefaults struct {
	// Package is prefixed to unqualified class names.
	Package string
	// Schema and Catalog qualify tables that do not name their own.
	Schema  string
	Catalog string
	// Cascade is the cascade string of associations without one.
	Cascade string
	// Access is the default attribute access strategy.
	Access string
	// AssociationsLazy is the default laziness of classes and associations.
	AssociationsLazy bool
	// AutoImport registers unqualified entity names as query imports.
	AutoImport bool
	// QuoteIdentifiers quotes every table name.
	QuoteIdentifiers bool
	// NamingStrategy derives physical names.
	NamingStrategy strategy.NamingStrategy
}

// DefaultMappingDefaults returns the root binding context used when no
// configuration is given.
func DefaultMappingDefaults() *MappingDefaults {
	return &MappingDefaults{
		Cascade:          "none",
		Access:           "property",
		AssociationsLazy: true,
		AutoImport:       true,
		NamingStrategy:   strategy.DefaultNamingStrategy{},
	}
}

// MappingDocument is one descriptor root together with its local binding
// context. It is immutable after construction.
type MappingDocument struct {
	root     *descriptor.HibernateMapping
	origin   diagnostic.Origin
	defaults MappingDefaults
}

// NewMappingDocument derives the document's binding context from parent,
// overriding only what root declares. A nil parent means DefaultMappingDefaults.
func NewMappingDocument(root *descriptor.HibernateMapping, origin diagnostic.Origin, parent *MappingDefaults) *MappingDocument {
	if parent == nil {
		parent = DefaultMappingDefaults()
	}

	d := *parent
	if d.NamingStrategy == nil {
		d.NamingStrategy = strategy.DefaultNamingStrategy{}
	}

	if root == nil {
		root = &descriptor.HibernateMapping{}
	}

	if root.Package != "" {
		d.Package = root.Package
	}

	if root.Schema != "" {
		d.Schema = root.Schema
	}

	if root.Catalog != "" {
		d.Catalog = root.Catalog
	}

	if root.DefaultCascade != "" {
		d.Cascade = root.DefaultCascade
	}

	if root.DefaultAccess != "" {
		d.Access = root.DefaultAccess
	}

	d.AssociationsLazy = common.BoolOr(root.DefaultLazy, d.AssociationsLazy)
	d.AutoImport = common.BoolOr(root.AutoImport, d.AutoImport)

	return &MappingDocument{root: root, origin: origin, defaults: d}
}

// Root returns the descriptor root.
func (m *MappingDocument) Root() *descriptor.HibernateMapping {
	return m.root
}

// Origin returns the document identity for diagnostics.
func (m *MappingDocument) Origin() diagnostic.Origin {
	return m.origin
}

// Defaults returns a copy of the effective binding context.
func (m *MappingDocument) Defaults() MappingDefaults {
	return m.defaults
}

// QualifyClassName prefixes names without a '.' with the default package.
func (m *MappingDocument) QualifyClassName(name string) string {
	return common.Qualify(name, m.defaults.Package)
}

// DetermineEntityName returns entityName when given, otherwise the
// qualified class name.
func (m *MappingDocument) DetermineEntityName(entityName, className string) string {
	if entityName != "" {
		return entityName
	}

	return m.QualifyClassName(className)
}

// QuoteIdentifier applies the quoting policy to a table name.
func (m *MappingDocument) QuoteIdentifier(name string) string {
	if !m.defaults.QuoteIdentifiers || name == "" || strings.HasPrefix(name, "`") {
		return name
	}

	return "`" + name + "`"
}

// MakeMappingError creates a MappingError located in this document.
// element is an optional element path such as "class[Order]/set[lines]".
func (m *MappingDocument) MakeMappingError(kind diagnostic.Kind, element, format string, args ...any) *diagnostic.MappingError {
	return diagnostic.NewMappingError(kind, m.at(element), format, args...)
}

// WrapMappingError turns err into a MappingError located in this document.
// Errors that already are MappingErrors keep their kind.
func (m *MappingDocument) WrapMappingError(kind diagnostic.Kind, element string, err error) *diagnostic.MappingError {
	return diagnostic.WrapMappingError(kind, m.at(element), err)
}

func (m *MappingDocument) at(element string) diagnostic.Origin {
	if element == "" {
		return m.origin
	}

	return m.origin.At(element)
}
