package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Order", "order"},
		{"com.acme.OrderLine", "orderline"},
		{"Order_Line", "orderline"},
		{"order-line", "orderline"},
		{"orderLine", "orderline"},
		{"XMLPayment", "xmlpayment"},
		{"com.acme.Outer$Inner", "inner"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestTokenizeName(t *testing.T) {
	assert.Equal(t, []string{"xml", "payment"}, TokenizeName("com.acme.XMLPayment"))
	assert.Equal(t, []string{"gift", "card", "payment"}, TokenizeName("gift_cardPayment"))
	assert.Equal(t, []string{"id"}, TokenizeName("ID"))
	assert.Nil(t, TokenizeName(""))
}
