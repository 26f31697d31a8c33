package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/strategy"
)

const testOrigin = "test.hbm.yaml"

func newDoc(t *testing.T, yaml string) *MappingDocument {
	t.Helper()

	hm, err := descriptor.Parse([]byte(yaml), testOrigin)
	require.NoError(t, err)

	return NewMappingDocument(hm, diagnostic.Origin{Name: testOrigin}, nil)
}

func buildFirst(t *testing.T, yaml string) (*EntitySource, error) {
	t.Helper()

	doc := newDoc(t, yaml)
	require.NotEmpty(t, doc.Root().Classes)

	return BuildEntitySource(doc, doc.Root().Classes[0])
}

func mustBuildFirst(t *testing.T, yaml string) *EntitySource {
	t.Helper()

	e, err := buildFirst(t, yaml)
	require.NoError(t, err)

	return e
}

func TestNewMappingDocument_Defaults(t *testing.T) {
	doc := NewMappingDocument(nil, diagnostic.Origin{Name: "empty"}, nil)

	d := doc.Defaults()
	assert.Equal(t, "none", d.Cascade)
	assert.Equal(t, "property", d.Access)
	assert.True(t, d.AssociationsLazy)
	assert.True(t, d.AutoImport)
	assert.IsType(t, strategy.DefaultNamingStrategy{}, d.NamingStrategy)
	assert.NotNil(t, doc.Root())
}

func TestNewMappingDocument_Overrides(t *testing.T) {
	lazy := false
	parent := &MappingDefaults{
		Package:          "com.base",
		Schema:           "base",
		Cascade:          "all",
		Access:           "field",
		AssociationsLazy: true,
		AutoImport:       true,
		QuoteIdentifiers: true,
		NamingStrategy:   strategy.ImprovedNamingStrategy{},
	}

	root := &descriptor.HibernateMapping{
		Package:     "com.acme",
		DefaultLazy: &lazy,
	}

	doc := NewMappingDocument(root, diagnostic.Origin{Name: "a"}, parent)

	d := doc.Defaults()
	assert.Equal(t, "com.acme", d.Package)
	assert.Equal(t, "base", d.Schema)
	assert.Equal(t, "all", d.Cascade)
	assert.Equal(t, "field", d.Access)
	assert.False(t, d.AssociationsLazy)
	assert.True(t, d.QuoteIdentifiers)
	assert.IsType(t, strategy.ImprovedNamingStrategy{}, d.NamingStrategy)

	// the parent is left untouched
	assert.Equal(t, "com.base", parent.Package)
	assert.True(t, parent.AssociationsLazy)
}

func TestMappingDocument_Names(t *testing.T) {
	doc := NewMappingDocument(&descriptor.HibernateMapping{Package: "com.acme"}, diagnostic.Origin{Name: "a"}, nil)

	assert.Equal(t, "com.acme.Order", doc.QualifyClassName("Order"))
	assert.Equal(t, "org.other.Order", doc.QualifyClassName("org.other.Order"))
	assert.Equal(t, "com.acme.Order", doc.DetermineEntityName("", "Order"))
	assert.Equal(t, "PurchaseOrder", doc.DetermineEntityName("PurchaseOrder", "Order"))
	assert.Equal(t, "orders", doc.QuoteIdentifier("orders"))
}

func TestMappingDocument_QuoteIdentifier(t *testing.T) {
	parent := DefaultMappingDefaults()
	parent.QuoteIdentifiers = true

	doc := NewMappingDocument(nil, diagnostic.Origin{Name: "a"}, parent)

	assert.Equal(t, "`orders`", doc.QuoteIdentifier("orders"))
	assert.Equal(t, "`orders`", doc.QuoteIdentifier("`orders`"))
	assert.Equal(t, "", doc.QuoteIdentifier(""))
}

func TestMappingDocument_MakeMappingError(t *testing.T) {
	doc := NewMappingDocument(nil, diagnostic.Origin{Name: "orders.hbm.yaml"}, nil)

	err := doc.MakeMappingError(diagnostic.KindStructuralConflict, "class[Order]", "broken %s", "thing")
	assert.Equal(t, diagnostic.KindStructuralConflict, err.Kind)
	assert.Equal(t, "orders.hbm.yaml#class[Order]", err.Origin.String())
	assert.Equal(t, "[structural_conflict] broken thing (origin: orders.hbm.yaml#class[Order])", err.Error())

	err = doc.MakeMappingError(diagnostic.KindUnknownToken, "", "bad")
	assert.Equal(t, "orders.hbm.yaml", err.Origin.String())
}

func TestMappingDocument_WrapMappingError(t *testing.T) {
	doc := NewMappingDocument(nil, diagnostic.Origin{Name: "a"}, nil)

	err := doc.WrapMappingError(diagnostic.KindUnknownToken, "class[A]",
		&strategy.UnknownTokenError{Setting: "lazy", Token: "bogus", Attribute: "b"})
	require.ErrorIs(t, err, diagnostic.ErrUnknownToken)
	assert.Equal(t, "a#class[A]", err.Origin.String())

	var tokenErr *strategy.UnknownTokenError
	require.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, "bogus", tokenErr.Token)
}
