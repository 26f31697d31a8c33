package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbm-source/internal/diagnostic"
	"hbm-source/internal/strategy"
)

func attributeNames(attrs []AttributeSource) []string {
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Info().Name
	}

	return names
}

func TestBuildAttributes_OrderPreserved(t *testing.T) {
	e := mustBuildFirst(t, `
classes:
  - class:
      name: Order
      id: { name: id }
      natural-id:
        attributes:
          - property: { name: number }
      attributes:
        - property: { name: placed }
        - many-to-one: { name: customer, class: Customer }
        - component:
            name: address
            attributes:
              - property: { name: street }
        - set:
            name: tags
            key: { column: order_id }
            element: { column: tag, type: string }
        - property: { name: note }
      joins:
        - table: order_audit
          key: { column: order_id }
          attributes:
            - property: { name: audited_by }
`)

	assert.Equal(t, []string{"number", "placed", "customer", "address", "tags", "note", "audited_by"},
		attributeNames(e.Attributes))

	number, _ := e.Attribute("number")
	assert.Equal(t, NaturalIDImmutable, number.Info().NaturalID)

	placed, _ := e.Attribute("placed")
	assert.Equal(t, NotNaturalID, placed.Info().NaturalID)

	assert.True(t, placed.IsSingular())

	tags, _ := e.Attribute("tags")
	assert.False(t, tags.IsSingular())
}

func TestBuildAttributes_Unsupported(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		wantMsg string
	}{
		{name: "dynamic-component", attr: "dynamic-component: { name: dyn }", wantMsg: "dynamic-component is not yet implemented"},
		{name: "properties", attr: "properties: { name: grp }", wantMsg: "properties is not yet implemented"},
		{name: "any", attr: "any: { name: thing, id-type: long }", wantMsg: "any is not yet implemented"},
		{name: "idbag", attr: "idbag: { name: ids }", wantMsg: "idbag is not yet implemented"},
		{name: "array", attr: "array: { name: arr }", wantMsg: "array is not yet implemented"},
		{name: "primitive-array", attr: "primitive-array: { name: prims }", wantMsg: "primitive-array is not yet implemented"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildFirst(t, `
classes:
  - class:
      name: A
      id: { name: id }
      attributes:
        - `+tt.attr+`
`)
			require.Error(t, err)
			assert.Equal(t, diagnostic.KindUnsupportedFeature, diagnostic.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), testOrigin+"#class[A]/")
		})
	}
}

func TestBuildAttributes_UnsupportedInsideComponent(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		wantMsg string
	}{
		{name: "one-to-one", attr: "one-to-one: { name: o, class: B }", wantMsg: "one-to-one inside component is not yet implemented"},
		{name: "collection", attr: "set: { name: s, key: { column: a_id }, element: { column: v } }", wantMsg: "set inside component is not yet implemented"},
		{name: "any", attr: "any: { name: thing }", wantMsg: "any inside component is not yet implemented"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildFirst(t, `
classes:
  - class:
      name: A
      id: { name: id }
      attributes:
        - component:
            name: c
            attributes:
              - `+tt.attr+`
`)
			require.Error(t, err)
			assert.Equal(t, diagnostic.KindUnsupportedFeature, diagnostic.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), "class[A]/component[c]/")
		})
	}
}

func TestBuildManyToOne_Fetch(t *testing.T) {
	tests := []struct {
		name       string
		settings   string
		wantTiming strategy.FetchTiming
		wantStyle  strategy.FetchStyle
	}{
		{name: "defaults", settings: "", wantTiming: strategy.FetchDelayed, wantStyle: strategy.FetchSelect},
		{name: "lazy false", settings: ", lazy: \"false\"", wantTiming: strategy.FetchImmediate, wantStyle: strategy.FetchSelect},
		{name: "proxy", settings: ", lazy: proxy", wantTiming: strategy.FetchDelayed, wantStyle: strategy.FetchSelect},
		{name: "fetch join", settings: ", fetch: join", wantTiming: strategy.FetchImmediate, wantStyle: strategy.FetchJoin},
		{name: "outer join", settings: ", outer-join: \"true\"", wantTiming: strategy.FetchImmediate, wantStyle: strategy.FetchJoin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustBuildFirst(t, `
classes:
  - class:
      name: Order
      id: { name: id }
      attributes:
        - many-to-one: { name: customer, class: Customer`+tt.settings+` }
`)

			a, ok := e.Attribute("customer")
			require.True(t, ok)

			toOne := a.(*ToOneAttributeSource)
			assert.Equal(t, ManyToOne, toOne.Nature)
			assert.Equal(t, tt.wantTiming, toOne.FetchTiming())
			assert.Equal(t, tt.wantStyle, toOne.FetchStyle())
		})
	}
}

func TestBuildManyToOne_Details(t *testing.T) {
	e := mustBuildFirst(t, `
package: com.acme
default-cascade: save-update
classes:
  - class:
      name: Order
      id: { name: id }
      attributes:
        - many-to-one:
            name: customer
            class: Customer
            column: customer_id
            not-null: true
            not-found: ignore
            property-ref: code
        - many-to-one: { name: shipper, entity-name: Carrier, cascade: "all-delete-orphan" }
`)

	customer, _ := e.Attribute("customer")
	c := customer.(*ToOneAttributeSource)
	assert.Equal(t, "com.acme.Customer", c.ReferencedEntity)
	assert.Equal(t, "code", c.ReferencedProperty)
	assert.True(t, c.IgnoreNotFound)
	assert.False(t, c.NullableByDefault)
	assert.Equal(t, []string{"customer_id"}, ColumnNames(c.ValueSources))
	assert.False(t, c.ValueSources[0].(*ColumnSource).IsNullable())
	assert.True(t, c.Cascade.Contains(strategy.CascadeSaveUpdate))

	shipper, _ := e.Attribute("shipper")
	s := shipper.(*ToOneAttributeSource)
	assert.Equal(t, "Carrier", s.ReferencedEntity)
	assert.True(t, s.Cascade.DeletesOrphans())
	assert.Empty(t, s.ValueSources)
}

func TestBuildOneToOne(t *testing.T) {
	e := mustBuildFirst(t, `
classes:
  - class:
      name: Person
      id: { name: id }
      attributes:
        - one-to-one: { name: passport, class: Passport }
        - one-to-one: { name: profile, class: Profile, constrained: true }
`)

	passport, _ := e.Attribute("passport")
	p := passport.(*ToOneAttributeSource)
	assert.Equal(t, OneToOne, p.Nature)
	assert.Equal(t, strategy.FetchImmediate, p.FetchTiming())

	profile, _ := e.Attribute("profile")
	assert.Equal(t, strategy.FetchDelayed, profile.(*ToOneAttributeSource).FetchTiming())
}

func TestBuildAttributes_UnknownTokens(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		wantMsg string
	}{
		{name: "lazy", attr: "many-to-one: { name: c, class: C, lazy: bogus }", wantMsg: "unexpected lazy selection [bogus] on 'c'"},
		{name: "fetch", attr: "many-to-one: { name: c, class: C, fetch: eager }", wantMsg: "unexpected fetch selection [eager] on 'c'"},
		{name: "outer-join", attr: "many-to-one: { name: c, class: C, outer-join: sometimes }", wantMsg: "unexpected outer-join selection [sometimes] on 'c'"},
		{name: "cascade", attr: "many-to-one: { name: c, class: C, cascade: bogus }", wantMsg: "unexpected cascade selection [bogus] on 'c'"},
		{name: "not-found", attr: "many-to-one: { name: c, class: C, not-found: maybe }", wantMsg: "unexpected not-found selection [maybe] on 'c'"},
		{name: "generated", attr: "property: { name: p, generated: sometimes }", wantMsg: "unexpected generated selection [sometimes] on 'p'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildFirst(t, `
classes:
  - class:
      name: A
      id: { name: id }
      attributes:
        - `+tt.attr+`
`)
			require.Error(t, err)
			assert.ErrorIs(t, err, diagnostic.ErrUnknownToken)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestBuildBasic_Generated(t *testing.T) {
	e := mustBuildFirst(t, `
classes:
  - class:
      name: A
      id: { name: id }
      attributes:
        - property: { name: created, generated: insert }
        - property: { name: modified, generated: always }
        - property: { name: computed, insert: false, update: false }
`)

	created, _ := e.Attribute("created")
	c := created.(*BasicAttributeSource)
	assert.Equal(t, GenerationInsert, c.Generation)
	assert.False(t, c.IncludedInInsert)
	assert.True(t, c.IncludedInUpdate)

	modified, _ := e.Attribute("modified")
	m := modified.(*BasicAttributeSource)
	assert.False(t, m.IncludedInInsert)
	assert.False(t, m.IncludedInUpdate)

	computed, _ := e.Attribute("computed")
	assert.False(t, computed.(*BasicAttributeSource).IncludedInInsert)

	_, err := buildFirst(t, `
classes:
  - class:
      name: A
      id: { name: id }
      attributes:
        - property: { name: modified, generated: always, update: true }
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, diagnostic.ErrStructuralConflict)
	assert.Contains(t, err.Error(), `cannot specify both update="true" and generated="always"`)
}

func TestBuildBasic_ValueConflictIsLocated(t *testing.T) {
	_, err := buildFirst(t, `
classes:
  - class:
      name: A
      id: { name: id }
      attributes:
        - property: { name: total, column: total, formula: "a + b" }
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, diagnostic.ErrStructuralConflict)
	assert.Contains(t, err.Error(), "attribute 'total' specifies both column and formula attributes")
	assert.Contains(t, err.Error(), testOrigin+"#class[A]/property[total]")
}

func TestBuildComponent(t *testing.T) {
	e := mustBuildFirst(t, `
package: com.acme
default-access: field
classes:
  - class:
      name: Customer
      id: { name: id }
      attributes:
        - component:
            name: address
            class: Address
            update: false
            attributes:
              - property: { name: street, access: property }
              - component:
                  name: geo
                  attributes:
                    - property: { name: lat }
`)

	a, _ := e.Attribute("address")
	address := a.(*ComponentAttributeSource)
	assert.Equal(t, "com.acme.Address", address.Class)
	assert.Equal(t, "field", address.Access)
	assert.True(t, address.IncludedInInsert)
	assert.False(t, address.IncludedInUpdate)
	require.Len(t, address.Attributes, 2)

	street := address.Attributes[0].(*BasicAttributeSource)
	assert.Equal(t, "address.street", street.Path)
	assert.Equal(t, "property", street.Access)
	assert.False(t, street.IncludedInUpdate)

	geo := address.Attributes[1].(*ComponentAttributeSource)
	lat := geo.Attributes[0].(*BasicAttributeSource)
	assert.Equal(t, "address.geo.lat", lat.Path)
	assert.False(t, lat.IncludedInUpdate)
}

func TestToOne_DefaultNamingRules(t *testing.T) {
	e := mustBuildFirst(t, `
classes:
  - class:
      name: Account
      composite-id:
        name: key
        class: AccountKey
        attributes:
          - key-property: { name: bank }
          - key-property: { name: number }
      attributes:
        - many-to-one: { name: parent, class: Account }
`)

	parent, _ := e.Attribute("parent")
	rules := parent.(*ToOneAttributeSource).DefaultNamingRules(ReferencedAttribute(e.Identifier.Attribute))
	require.Len(t, rules, 2)

	for _, rule := range rules {
		assert.Equal(t, "parent", rule(strategy.DefaultNamingStrategy{}))
	}
}
