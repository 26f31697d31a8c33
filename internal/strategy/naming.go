package strategy

import (
	"strings"
	"unicode"

	"hbm-source/internal/common"
)

// NamingStrategy turns logical names into physical table and column names.
type NamingStrategy interface {
	// ClassToTableName returns the table name for an entity class.
	ClassToTableName(className string) string
	// PropertyToColumnName returns the column name for a property path.
	PropertyToColumnName(propertyName string) string
	// TableName adjusts an explicitly declared table name.
	TableName(tableName string) string
	// ColumnName adjusts an explicitly declared column name.
	ColumnName(columnName string) string
	// ForeignKeyColumnName returns the column name for a foreign key.
	ForeignKeyColumnName(propertyName, propertyEntityName, propertyTableName, referencedColumnName string) string
}

// DefaultNamingStrategy keeps names as declared, stripping qualifiers.
type DefaultNamingStrategy struct{}

var _ NamingStrategy = DefaultNamingStrategy{}

func (DefaultNamingStrategy) ClassToTableName(className string) string {
	return common.Unqualify(className)
}

func (DefaultNamingStrategy) PropertyToColumnName(propertyName string) string {
	return common.Unqualify(propertyName)
}

func (DefaultNamingStrategy) TableName(tableName string) string { return tableName }

func (DefaultNamingStrategy) ColumnName(columnName string) string { return columnName }

func (DefaultNamingStrategy) ForeignKeyColumnName(propertyName, _, propertyTableName, _ string) string {
	header := propertyName
	if header == "" {
		header = propertyTableName
	}

	return common.Unqualify(header)
}

// ImprovedNamingStrategy produces lower snake_case names.
type ImprovedNamingStrategy struct{}

var _ NamingStrategy = ImprovedNamingStrategy{}

func (ImprovedNamingStrategy) ClassToTableName(className string) string {
	return addUnderscores(common.Unqualify(className))
}

func (ImprovedNamingStrategy) PropertyToColumnName(propertyName string) string {
	return addUnderscores(common.Unqualify(propertyName))
}

func (ImprovedNamingStrategy) TableName(tableName string) string {
	return addUnderscores(tableName)
}

func (ImprovedNamingStrategy) ColumnName(columnName string) string {
	return addUnderscores(columnName)
}

func (s ImprovedNamingStrategy) ForeignKeyColumnName(propertyName, _, propertyTableName, _ string) string {
	header := propertyTableName
	if propertyName != "" {
		header = common.Unqualify(propertyName)
	}

	return s.ColumnName(header)
}

// addUnderscores inserts '_' at lower-Upper-lower boundaries and lowercases.
func addUnderscores(name string) string {
	runes := []rune(strings.ReplaceAll(name, ".", "_"))

	var sb strings.Builder

	for i, r := range runes {
		if i > 0 && i < len(runes)-1 &&
			unicode.IsLower(runes[i-1]) && unicode.IsUpper(r) && unicode.IsLower(runes[i+1]) {
			sb.WriteRune('_')
		}

		sb.WriteRune(r)
	}

	return strings.ToLower(sb.String())
}

// NamingStrategyByName returns the strategy registered under name.
func NamingStrategyByName(name string) (NamingStrategy, error) {
	switch name {
	case "", "default":
		return DefaultNamingStrategy{}, nil
	case "improved":
		return ImprovedNamingStrategy{}, nil
	default:
		return nil, &UnknownTokenError{Setting: "naming_strategy", Token: name}
	}
}

// DefaultNamingRule computes one default column name once the binder
// has picked a naming strategy.
type DefaultNamingRule func(NamingStrategy) string

// ReferencedAttribute is the binder's view of the attribute a foreign key
// points at. Composite attributes expose their parts via SubAttributes.
type ReferencedAttribute interface {
	Name() string
	SubAttributes() []ReferencedAttribute
}

// DefaultNamingRules returns one naming rule per column of the foreign key
// that attributeName maps. A composite referenced attribute fans out into
// the rules of its sub-attributes, in order; every leaf rule derives its
// name from attributeName.
func DefaultNamingRules(attributeName string, referenced ReferencedAttribute) []DefaultNamingRule {
	if referenced != nil {
		if subs := referenced.SubAttributes(); len(subs) > 0 {
			var rules []DefaultNamingRule
			for _, sub := range subs {
				rules = append(rules, DefaultNamingRules(attributeName, sub)...)
			}

			return rules
		}
	}

	return []DefaultNamingRule{
		func(ns NamingStrategy) string {
			return ns.PropertyToColumnName(attributeName)
		},
	}
}
