package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refAttr struct {
	name string
	subs []ReferencedAttribute
}

func (r refAttr) Name() string                         { return r.name }
func (r refAttr) SubAttributes() []ReferencedAttribute { return r.subs }

func TestImprovedNamingStrategy(t *testing.T) {
	ns := ImprovedNamingStrategy{}

	assert.Equal(t, "order_line", ns.ClassToTableName("com.acme.OrderLine"))
	assert.Equal(t, "total_amount", ns.PropertyToColumnName("totalAmount"))
	assert.Equal(t, "street", ns.PropertyToColumnName("address.street"))
	assert.Equal(t, "customer", ns.ForeignKeyColumnName("customer", "Customer", "customers", "id"))
	assert.Equal(t, "customers", ns.ForeignKeyColumnName("", "Customer", "customers", "id"))
}

func TestDefaultNamingStrategy(t *testing.T) {
	ns := DefaultNamingStrategy{}

	assert.Equal(t, "OrderLine", ns.ClassToTableName("com.acme.OrderLine"))
	assert.Equal(t, "totalAmount", ns.PropertyToColumnName("totalAmount"))
	assert.Equal(t, "ORDERS", ns.TableName("ORDERS"))
}

func TestNamingStrategyByName(t *testing.T) {
	ns, err := NamingStrategyByName("improved")
	require.NoError(t, err)
	assert.IsType(t, ImprovedNamingStrategy{}, ns)

	_, err = NamingStrategyByName("fancy")
	assert.Error(t, err)
}

func TestDefaultNamingRules(t *testing.T) {
	t.Run("simple reference yields one rule", func(t *testing.T) {
		rules := DefaultNamingRules("customer", refAttr{name: "id"})
		require.Len(t, rules, 1)
		assert.Equal(t, "customer", rules[0](DefaultNamingStrategy{}))
	})

	t.Run("nil reference yields one rule", func(t *testing.T) {
		assert.Len(t, DefaultNamingRules("customer", nil), 1)
	})

	t.Run("composite reference fans out per leaf", func(t *testing.T) {
		ref := refAttr{name: "id", subs: []ReferencedAttribute{
			refAttr{name: "region"},
			refAttr{name: "number", subs: []ReferencedAttribute{
				refAttr{name: "prefix"},
				refAttr{name: "suffix"},
			}},
		}}

		rules := DefaultNamingRules("accountNumber", ref)
		require.Len(t, rules, 3)

		for _, rule := range rules {
			assert.Equal(t, "account_number", rule(ImprovedNamingStrategy{}))
		}
	})
}
