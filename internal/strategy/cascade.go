package strategy

import (
	"slices"
	"strings"

	"hbm-source/internal/common"
)

// CascadeStyle is one named cascade behavior.
type CascadeStyle int

const (
	CascadeNone CascadeStyle = iota
	CascadeAll
	CascadeAllDeleteOrphan
	CascadeSaveUpdate
	CascadePersist
	CascadeMerge
	CascadeLock
	CascadeRefresh
	CascadeReplicate
	CascadeEvict
	CascadeDelete
	CascadeDeleteOrphan
)

var cascadeStyleNames = map[string]CascadeStyle{
	"none":              CascadeNone,
	"all":               CascadeAll,
	"all-delete-orphan": CascadeAllDeleteOrphan,
	"save-update":       CascadeSaveUpdate,
	"persist":           CascadePersist,
	"merge":             CascadeMerge,
	"lock":              CascadeLock,
	"refresh":           CascadeRefresh,
	"replicate":         CascadeReplicate,
	"evict":             CascadeEvict,
	"delete":            CascadeDelete,
	"remove":            CascadeDelete,
	"delete-orphan":     CascadeDeleteOrphan,
}

// String returns the canonical descriptor token for the style.
func (c CascadeStyle) String() string {
	switch c {
	case CascadeNone:
		return "none"
	case CascadeAll:
		return "all"
	case CascadeAllDeleteOrphan:
		return "all-delete-orphan"
	case CascadeSaveUpdate:
		return "save-update"
	case CascadePersist:
		return "persist"
	case CascadeMerge:
		return "merge"
	case CascadeLock:
		return "lock"
	case CascadeRefresh:
		return "refresh"
	case CascadeReplicate:
		return "replicate"
	case CascadeEvict:
		return "evict"
	case CascadeDelete:
		return "delete"
	case CascadeDeleteOrphan:
		return "delete-orphan"
	default:
		return common.UnknownStr
	}
}

// ParseCascadeStyle looks up a single cascade token.
func ParseCascadeStyle(token string) (CascadeStyle, bool) {
	c, ok := cascadeStyleNames[strings.ToLower(strings.TrimSpace(token))]
	return c, ok
}

// CascadeStyles is a set of cascade styles in first-seen order.
type CascadeStyles []CascadeStyle

// Contains reports whether the set holds c.
func (cs CascadeStyles) Contains(c CascadeStyle) bool {
	return slices.Contains(cs, c)
}

// DeletesOrphans reports whether orphan removal is implied.
func (cs CascadeStyles) DeletesOrphans() bool {
	return cs.Contains(CascadeAllDeleteOrphan) || cs.Contains(CascadeDeleteOrphan)
}

// String renders the set as a comma separated token list.
func (cs CascadeStyles) String() string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.String()
	}

	return strings.Join(names, ",")
}

// ParseCascadeStyles splits a comma separated cascade string into styles,
// falling back to defaultValue when value is blank. attribute names the
// owner for error reporting.
func ParseCascadeStyles(value, defaultValue, attribute string) (CascadeStyles, error) {
	if strings.TrimSpace(value) == "" {
		value = defaultValue
	}

	var result CascadeStyles

	for _, token := range common.SplitTrim(value, ",") {
		c, ok := ParseCascadeStyle(token)
		if !ok {
			return nil, &UnknownTokenError{Setting: "cascade", Token: token, Attribute: attribute}
		}

		if !result.Contains(c) {
			result = append(result, c)
		}
	}

	return result, nil
}
