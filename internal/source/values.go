package source

import (
	"hbm-source/internal/common"
	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
)

// TruthValue is a tri-state flag. TruthUnknown means "not declared; the
// binder applies its default".
type TruthValue int

const (
	TruthUnknown TruthValue = iota
	TruthTrue
	TruthFalse
)

// String returns a human-readable truth value.
func (t TruthValue) String() string {
	switch t {
	case TruthUnknown:
		return "unknown"
	case TruthTrue:
		return "true"
	case TruthFalse:
		return "false"
	default:
		return common.UnknownStr
	}
}

// Or resolves TruthUnknown to def.
func (t TruthValue) Or(def bool) bool {
	switch t {
	case TruthTrue:
		return true
	case TruthFalse:
		return false
	default:
		return def
	}
}

func truthOf(b bool) TruthValue {
	if b {
		return TruthTrue
	}

	return TruthFalse
}

// RelationalValueSource is one resolved column or formula. The set of
// implementations is closed: *ColumnSource and *DerivedValueSource.
type RelationalValueSource interface {
	// ContainingTableName is the table the value lives in. Empty means the
	// owning entity's primary table.
	ContainingTableName() string
	relationalValueSource()
}

// SizeSource is the declared length, precision and scale of a column.
type SizeSource struct {
	Length    *int
	Precision *int
	Scale     *int
}

func (s SizeSource) or(def SizeSource) SizeSource {
	if s.Length == nil {
		s.Length = def.Length
	}

	if s.Precision == nil {
		s.Precision = def.Precision
	}

	if s.Scale == nil {
		s.Scale = def.Scale
	}

	return s
}

// ColumnSource is a physical column.
type ColumnSource struct {
	Name    string
	SQLType string
	Size    SizeSource
	// Nullable is TruthFalse for not-null columns, TruthTrue for columns
	// explicitly declared nullable and TruthUnknown otherwise.
	Nullable  TruthValue
	Unique    bool
	UniqueKey string
	Index     string
	Default   string
	Check     string
	Comment   string
	// ReadFragment and WriteFragment are custom SQL read/write expressions.
	ReadFragment  string
	WriteFragment string

	IncludedInInsert bool
	IncludedInUpdate bool

	// Implicit marks a column that was not declared; its Name was derived
	// from the naming strategy.
	Implicit bool

	TableName string
}

// ContainingTableName implements RelationalValueSource.
func (c *ColumnSource) ContainingTableName() string { return c.TableName }

// IsNullable reports whether the column accepts nulls once defaults apply.
func (c *ColumnSource) IsNullable() bool {
	return c.Nullable.Or(true)
}

// DerivedValueSource is a formula.
type DerivedValueSource struct {
	Expression string
	TableName  string
}

// ContainingTableName implements RelationalValueSource.
func (d *DerivedValueSource) ContainingTableName() string { return d.TableName }

func (*ColumnSource) relationalValueSource()       {}
func (*DerivedValueSource) relationalValueSource() {}

// ValueSourcesAdapter carries the value-source signals of one attribute.
type ValueSourcesAdapter struct {
	// Owner names the attribute in error messages.
	Owner string

	ContainingTableName     string
	ColumnAttribute         string
	FormulaAttribute        string
	ColumnOrFormulaElements descriptor.Columns

	IncludedInInsertByDefault bool
	IncludedInUpdateByDefault bool
	NullableByDefault         bool
	// ForceNotNull makes every column not-null whatever the descriptor says.
	ForceNotNull bool

	// Column-attribute settings of the owning element. Nested column
	// elements use them as fallbacks.
	Size      SizeSource
	NotNull   *bool
	Unique    bool
	UniqueKey string
	Index     string
	SQLType   string
}

// BuildValueSources resolves the column/formula form in use. Exactly one of
// column attribute, formula attribute and nested elements may be given;
// none at all yields an empty result. Errors carry no origin; callers
// locate them.
func BuildValueSources(a ValueSourcesAdapter) ([]RelationalValueSource, error) {
	nested := len(a.ColumnOrFormulaElements) > 0

	switch {
	case a.ColumnAttribute != "":
		if nested {
			return nil, conflict(a.Owner, "column attribute and nested <column>/<formula> elements")
		}

		if a.FormulaAttribute != "" {
			return nil, conflict(a.Owner, "column and formula attributes")
		}

		return []RelationalValueSource{a.columnFromAttribute()}, nil

	case a.FormulaAttribute != "":
		if nested {
			return nil, conflict(a.Owner, "formula attribute and nested <column>/<formula> elements")
		}

		return []RelationalValueSource{&DerivedValueSource{
			Expression: a.FormulaAttribute,
			TableName:  a.ContainingTableName,
		}}, nil

	case nested:
		out := make([]RelationalValueSource, 0, len(a.ColumnOrFormulaElements))

		for _, cf := range a.ColumnOrFormulaElements {
			if cf.IsFormula() {
				out = append(out, &DerivedValueSource{
					Expression: cf.Formula,
					TableName:  a.ContainingTableName,
				})

				continue
			}

			out = append(out, a.columnFromElement(cf.Column))
		}

		return out, nil

	default:
		return nil, nil
	}
}

func conflict(owner, combination string) error {
	return diagnostic.NewMappingError(diagnostic.KindStructuralConflict, diagnostic.Origin{},
		"attribute '%s' specifies both %s", owner, combination)
}

func (a ValueSourcesAdapter) nullability(notNull *bool) TruthValue {
	switch {
	case a.ForceNotNull:
		return TruthFalse
	case notNull != nil:
		return truthOf(!*notNull)
	case a.NullableByDefault:
		return TruthUnknown
	default:
		return TruthFalse
	}
}

func (a ValueSourcesAdapter) columnFromAttribute() *ColumnSource {
	return &ColumnSource{
		Name:             a.ColumnAttribute,
		SQLType:          a.SQLType,
		Size:             a.Size,
		Nullable:         a.nullability(a.NotNull),
		Unique:           a.Unique,
		UniqueKey:        a.UniqueKey,
		Index:            a.Index,
		IncludedInInsert: a.IncludedInInsertByDefault,
		IncludedInUpdate: a.IncludedInUpdateByDefault,
		TableName:        a.ContainingTableName,
	}
}

func (a ValueSourcesAdapter) columnFromElement(c *descriptor.Column) *ColumnSource {
	notNull := c.NotNull
	if notNull == nil {
		notNull = a.NotNull
	}

	return &ColumnSource{
		Name:    c.Name,
		SQLType: common.FirstNonEmpty(c.SQLType, a.SQLType),
		Size: SizeSource{
			Length:    c.Length,
			Precision: c.Precision,
			Scale:     c.Scale,
		}.or(a.Size),
		Nullable:         a.nullability(notNull),
		Unique:           common.BoolOr(c.Unique, a.Unique),
		UniqueKey:        common.FirstNonEmpty(c.UniqueKey, a.UniqueKey),
		Index:            common.FirstNonEmpty(c.Index, a.Index),
		Default:          c.Default,
		Check:            c.Check,
		Comment:          c.Comment,
		ReadFragment:     c.Read,
		WriteFragment:    c.Write,
		IncludedInInsert: a.IncludedInInsertByDefault,
		IncludedInUpdate: a.IncludedInUpdateByDefault,
		TableName:        a.ContainingTableName,
	}
}

// implicitColumn is the single derived column of a key or index that
// declares none.
func implicitColumn(name, table string, insert, update bool) *ColumnSource {
	return &ColumnSource{
		Name:             name,
		Nullable:         TruthFalse,
		IncludedInInsert: insert,
		IncludedInUpdate: update,
		Implicit:         true,
		TableName:        table,
	}
}

// ColumnNames returns the names of the column value sources, skipping formulas.
func ColumnNames(values []RelationalValueSource) []string {
	var names []string

	for _, v := range values {
		if c, ok := v.(*ColumnSource); ok {
			names = append(names, c.Name)
		}
	}

	return names
}
