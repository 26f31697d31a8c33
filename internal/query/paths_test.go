package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/registry"
	"hbm-source/internal/source"
)

const shopClasses = `
package: com.acme
classes:
  - class:
      name: Order
      id: { name: id }
      version: { name: version }
      attributes:
        - property: { name: total }
        - component:
            name: shipTo
            attributes:
              - property: { name: street }
              - property: { name: city }
        - many-to-one: { name: customer, class: Customer }
        - set:
            name: lines
            key: { column: order_id }
            one-to-many: { class: OrderLine }
        - bag:
            name: notes
            key: { column: order_id }
            element: { column: note }
      subclasses:
        - joined-subclass:
            name: RushOrder
            key: { column: id }
            attributes:
              - property: { name: deadline }
  - class:
      name: OrderLine
      id: { name: id }
      attributes:
        - property: { name: quantity }
  - class:
      name: Customer
      id: { name: id }
      attributes:
        - property: { name: name }
`

// checkReturns binds queries together with shopClasses and checks the
// native return paths against the resulting hierarchies.
func checkReturns(t *testing.T, queries string) []error {
	t.Helper()

	hm, err := descriptor.Parse([]byte(shopClasses+queries), "shop.hbm.yaml")
	require.NoError(t, err)

	doc := source.NewMappingDocument(hm, diagnostic.Origin{Name: "shop.hbm.yaml"}, nil)

	builder := source.NewHierarchyBuilder()
	require.NoError(t, builder.ProcessDocument(doc))

	hierarchies, err := builder.Build()
	require.NoError(t, err)

	binder := NewBinder(registry.NewInMemory())
	require.NoError(t, binder.Bind(doc))

	return binder.CheckReturnPaths(hierarchies)
}

func TestCheckReturnPaths_Resolvable(t *testing.T) {
	errs := checkReturns(t, `
sql-queries:
  - name: rushOrders
    query: "select * from orders"
    returns:
      - return:
          alias: o
          class: RushOrder
          properties:
            - { name: id, columns: [ id ] }
            - { name: version, columns: [ version ] }
            - { name: total, columns: [ total_amt ] }
            - { name: deadline, columns: [ deadline ] }
            - { name: shipTo.street, columns: [ street ] }
            - { name: customer.name, columns: [ customer_name ] }
      - return-join: { alias: c, property: o.customer }
      - return-join: { alias: l, property: o.lines }
resultsets:
  - name: orderLines
    returns:
      - load-collection:
          alias: l
          role: Order.lines
          properties:
            - { name: key, columns: [ order_id ] }
            - { name: element, columns: [ id ] }
            - { name: element.quantity, columns: [ qty ] }
      - load-collection:
          alias: n
          role: Order.notes
          properties: [ { name: element, columns: [ note ] } ]
`)
	assert.Empty(t, errs)
}

func TestCheckReturnPaths_Unresolvable(t *testing.T) {
	tests := []struct {
		name    string
		queries string
		wantMsg string
	}{
		{
			name: "unknown dotted property",
			queries: `
sql-queries:
  - name: q
    query: "select 1"
    returns:
      - return:
          alias: o
          class: Order
          properties: [ { name: nosuch.street, columns: [ street ] } ]
`,
			wantMsg: "sql-query 'q': return property 'nosuch.street' of alias 'o' does not resolve to a known attribute of 'com.acme.Order'",
		},
		{
			name: "unknown component sub-attribute",
			queries: `
sql-queries:
  - name: q
    query: "select 1"
    returns:
      - return:
          alias: o
          class: Order
          properties: [ { name: shipTo.zip, columns: [ zip ] } ]
`,
			wantMsg: "return property 'shipTo.zip'",
		},
		{
			name: "subclass property on superclass return",
			queries: `
sql-queries:
  - name: q
    query: "select 1"
    returns:
      - return:
          alias: o
          class: Order
          properties: [ { name: deadline, columns: [ deadline ] } ]
`,
			wantMsg: "return property 'deadline'",
		},
		{
			name: "unknown join path",
			queries: `
sql-queries:
  - name: q
    query: "select 1"
    returns:
      - return: { alias: o, class: Order }
      - return-join: { alias: x, property: o.noSuchAssociation }
`,
			wantMsg: "return-join path 'o.noSuchAssociation' does not resolve to a known attribute of 'com.acme.Order'",
		},
		{
			name: "join through a basic property",
			queries: `
sql-queries:
  - name: q
    query: "select 1"
    returns:
      - return: { alias: o, class: Order }
      - return-join: { alias: x, property: o.total }
`,
			wantMsg: "return-join path 'o.total' is not an association",
		},
		{
			name: "unknown collection role",
			queries: `
resultsets:
  - name: rs
    returns:
      - load-collection: { alias: c, role: Order.noSuchCollection }
`,
			wantMsg: "resultset 'rs': load-collection role 'com.acme.Order.noSuchCollection' does not resolve",
		},
		{
			name: "collection role on a to-one",
			queries: `
resultsets:
  - name: rs
    returns:
      - load-collection: { alias: c, role: Order.customer }
`,
			wantMsg: "load-collection role 'com.acme.Order.customer' is not a collection",
		},
		{
			name: "unknown collection element attribute",
			queries: `
resultsets:
  - name: rs
    returns:
      - load-collection:
          alias: c
          role: Order.lines
          properties: [ { name: element.price, columns: [ price ] } ]
`,
			wantMsg: "return property 'element.price'",
		},
		{
			name: "unknown entity",
			queries: `
sql-queries:
  - name: q
    query: "select 1"
    returns:
      - return: { alias: i, class: Invoice }
`,
			wantMsg: "return 'i' refers to unknown entity 'com.acme.Invoice'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := checkReturns(t, tt.queries)
			require.Len(t, errs, 1)

			err := errs[0]
			assert.ErrorIs(t, err, diagnostic.ErrUnresolvableReference)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), "shop.hbm.yaml")
		})
	}
}

func TestCheckReturnPaths_OneErrorPerMapping(t *testing.T) {
	errs := checkReturns(t, `
sql-queries:
  - name: first
    query: "select 1"
    returns:
      - return:
          alias: o
          class: Order
          properties:
            - { name: bogus, columns: [ a ] }
            - { name: alsoBogus, columns: [ b ] }
  - name: second
    query: "select 1"
    returns:
      - return: { alias: o, class: Order }
      - return-join: { alias: x, property: o.bogus }
  - name: fine
    query: "select 1"
    returns:
      - return-scalar: { column: cnt, type: long }
`)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "sql-query 'first'")
	assert.Contains(t, errs[1].Error(), "sql-query 'second'")
}
