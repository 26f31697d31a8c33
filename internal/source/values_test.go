package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
)

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func TestTruthValue_Or(t *testing.T) {
	assert.True(t, TruthUnknown.Or(true))
	assert.False(t, TruthUnknown.Or(false))
	assert.True(t, TruthTrue.Or(false))
	assert.False(t, TruthFalse.Or(true))
}

func TestBuildValueSources_Conflicts(t *testing.T) {
	nested := descriptor.Columns{{Column: &descriptor.Column{Name: "c"}}}

	tests := []struct {
		name    string
		adapter ValueSourcesAdapter
		wantErr string
	}{
		{
			name:    "column and formula",
			adapter: ValueSourcesAdapter{Owner: "total", ColumnAttribute: "a", FormulaAttribute: "b"},
			wantErr: "attribute 'total' specifies both column and formula attributes",
		},
		{
			name:    "column and nested",
			adapter: ValueSourcesAdapter{Owner: "total", ColumnAttribute: "a", ColumnOrFormulaElements: nested},
			wantErr: "attribute 'total' specifies both column attribute and nested <column>/<formula> elements",
		},
		{
			name:    "formula and nested",
			adapter: ValueSourcesAdapter{Owner: "total", FormulaAttribute: "a + b", ColumnOrFormulaElements: nested},
			wantErr: "attribute 'total' specifies both formula attribute and nested <column>/<formula> elements",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := BuildValueSources(tt.adapter)
			require.Error(t, err)
			assert.Nil(t, values)
			assert.ErrorIs(t, err, diagnostic.ErrStructuralConflict)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildValueSources_Forms(t *testing.T) {
	values, err := BuildValueSources(ValueSourcesAdapter{})
	require.NoError(t, err)
	assert.Empty(t, values)

	values, err = BuildValueSources(ValueSourcesAdapter{
		ColumnAttribute:           "total_amt",
		ContainingTableName:       "orders",
		IncludedInInsertByDefault: true,
		NullableByDefault:         true,
		Size:                      SizeSource{Precision: intPtr(10), Scale: intPtr(2)},
	})
	require.NoError(t, err)
	require.Len(t, values, 1)

	col := values[0].(*ColumnSource)
	assert.Equal(t, "total_amt", col.Name)
	assert.Equal(t, "orders", col.ContainingTableName())
	assert.Equal(t, 10, *col.Size.Precision)
	assert.True(t, col.IncludedInInsert)
	assert.False(t, col.IncludedInUpdate)
	assert.Equal(t, TruthUnknown, col.Nullable)
	assert.True(t, col.IsNullable())

	values, err = BuildValueSources(ValueSourcesAdapter{FormulaAttribute: "price * qty"})
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "price * qty", values[0].(*DerivedValueSource).Expression)
}

func TestBuildValueSources_NestedOrder(t *testing.T) {
	values, err := BuildValueSources(ValueSourcesAdapter{
		Owner: "name",
		ColumnOrFormulaElements: descriptor.Columns{
			{Column: &descriptor.Column{Name: "first_name", Length: intPtr(40)}},
			{Formula: "upper(last_name)"},
			{Column: &descriptor.Column{Name: "middle_name", SQLType: "varchar2"}},
		},
		Size:    SizeSource{Length: intPtr(10)},
		SQLType: "varchar",
	})
	require.NoError(t, err)
	require.Len(t, values, 3)

	assert.Equal(t, []string{"first_name", "middle_name"}, ColumnNames(values))

	first := values[0].(*ColumnSource)
	assert.Equal(t, 40, *first.Size.Length)
	assert.Equal(t, "varchar", first.SQLType)

	assert.IsType(t, &DerivedValueSource{}, values[1])

	middle := values[2].(*ColumnSource)
	assert.Equal(t, 10, *middle.Size.Length)
	assert.Equal(t, "varchar2", middle.SQLType)
}

func TestBuildValueSources_Nullability(t *testing.T) {
	tests := []struct {
		name    string
		adapter ValueSourcesAdapter
		want    TruthValue
	}{
		{name: "nullable by default", adapter: ValueSourcesAdapter{NullableByDefault: true}, want: TruthUnknown},
		{name: "not nullable by default", adapter: ValueSourcesAdapter{}, want: TruthFalse},
		{name: "explicit not-null", adapter: ValueSourcesAdapter{NullableByDefault: true, NotNull: boolPtr(true)}, want: TruthFalse},
		{name: "explicit nullable", adapter: ValueSourcesAdapter{NotNull: boolPtr(false)}, want: TruthTrue},
		{name: "forced", adapter: ValueSourcesAdapter{NotNull: boolPtr(false), ForceNotNull: true}, want: TruthFalse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.adapter.ColumnAttribute = "c"

			values, err := BuildValueSources(tt.adapter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, values[0].(*ColumnSource).Nullable)
		})
	}
}

func TestBuildValueSources_NestedColumnOverridesNotNull(t *testing.T) {
	values, err := BuildValueSources(ValueSourcesAdapter{
		NotNull: boolPtr(true),
		ColumnOrFormulaElements: descriptor.Columns{
			{Column: &descriptor.Column{Name: "a"}},
			{Column: &descriptor.Column{Name: "b", NotNull: boolPtr(false)}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, TruthFalse, values[0].(*ColumnSource).Nullable)
	assert.Equal(t, TruthTrue, values[1].(*ColumnSource).Nullable)
}

func TestBasicAttribute_RoundTrip(t *testing.T) {
	e := mustBuildFirst(t, `
classes:
  - class:
      name: Order
      id: { name: id }
      attributes:
        - property: { name: total, column: total_amt }
`)

	a, ok := e.Attribute("total")
	require.True(t, ok)

	basic := a.(*BasicAttributeSource)
	assert.Equal(t, "total", basic.Name)
	require.Len(t, basic.ValueSources, 1)

	col := basic.ValueSources[0].(*ColumnSource)
	assert.Equal(t, "total_amt", col.Name)
	assert.Empty(t, col.ContainingTableName())
	assert.True(t, col.IncludedInInsert)
	assert.True(t, col.IncludedInUpdate)
	assert.True(t, col.IsNullable())
}
