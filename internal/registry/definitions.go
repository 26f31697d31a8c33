package registry

import (
	"hbm-source/internal/common"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/strategy"
)

// FlushMode is the session flush mode a named query runs under.
type FlushMode int

const (
	// FlushUnset leaves the session's flush mode alone.
	FlushUnset FlushMode = iota
	FlushAuto
	FlushCommit
	FlushAlways
	FlushManual
)

// String returns the descriptor token of the mode.
func (m FlushMode) String() string {
	switch m {
	case FlushUnset:
		return ""
	case FlushAuto:
		return "auto"
	case FlushCommit:
		return "commit"
	case FlushAlways:
		return "always"
	case FlushManual:
		return "manual"
	default:
		return common.UnknownStr
	}
}

// CacheMode is how a named query interacts with the second-level cache.
type CacheMode int

const (
	CacheModeUnset CacheMode = iota
	CacheModeGet
	CacheModeIgnore
	CacheModeNormal
	CacheModePut
	CacheModeRefresh
)

// String returns the descriptor token of the mode.
func (m CacheMode) String() string {
	switch m {
	case CacheModeUnset:
		return ""
	case CacheModeGet:
		return "get"
	case CacheModeIgnore:
		return "ignore"
	case CacheModeNormal:
		return "normal"
	case CacheModePut:
		return "put"
	case CacheModeRefresh:
		return "refresh"
	default:
		return common.UnknownStr
	}
}

// LockMode is the lock acquired on rows of a native query return.
type LockMode int

const (
	LockRead LockMode = iota
	LockNone
	LockUpgrade
	LockUpgradeNoWait
	LockUpgradeSkipLocked
	LockWrite
	LockForce
)

// String returns the descriptor token of the mode.
func (m LockMode) String() string {
	switch m {
	case LockRead:
		return "read"
	case LockNone:
		return "none"
	case LockUpgrade:
		return "upgrade"
	case LockUpgradeNoWait:
		return "upgrade-nowait"
	case LockUpgradeSkipLocked:
		return "upgrade-skiplocked"
	case LockWrite:
		return "write"
	case LockForce:
		return "force"
	default:
		return common.UnknownStr
	}
}

// Parameter is a declared query or filter parameter.
type Parameter struct {
	Name string
	Type string
}

// NamedQuery is a named HQL query.
type NamedQuery struct {
	Name        string
	Query       string
	FlushMode   FlushMode
	CacheMode   CacheMode
	Cacheable   bool
	CacheRegion string
	FetchSize   *int
	Timeout     *int
	ReadOnly    bool
	Comment     string
	Parameters  []Parameter
	Origin      diagnostic.Origin
}

// NamedNativeQuery is a named SQL query. Its result shape is either the
// referenced ResultSetRef or the inline Returns.
type NamedNativeQuery struct {
	NamedQuery

	Callable     bool
	ResultSetRef string
	QuerySpaces  []string
	Returns      []NativeReturn
}

// NativeReturn is one entry of a native query result mapping. The set of
// implementations is closed: *RootReturn, *JoinReturn, *CollectionReturn
// and *ScalarReturn.
type NativeReturn interface {
	nativeReturn()
}

// PropertyResult maps a returned property to result set columns.
type PropertyResult struct {
	Name    string
	Columns []string
}

// RootReturn returns entities of EntityName under Alias.
type RootReturn struct {
	Alias               string
	EntityName          string
	LockMode            LockMode
	DiscriminatorColumn string
	Properties          []PropertyResult
}

// JoinReturn fetches OwnerProperty of the earlier return OwnerAlias.
type JoinReturn struct {
	Alias         string
	OwnerAlias    string
	OwnerProperty string
	LockMode      LockMode
	Properties    []PropertyResult
}

// CollectionReturn loads the collection role OwnerEntityName.OwnerProperty.
type CollectionReturn struct {
	Alias           string
	OwnerEntityName string
	OwnerProperty   string
	LockMode        LockMode
	Properties      []PropertyResult
}

// ScalarReturn is a scalar result column.
type ScalarReturn struct {
	Column string
	Type   string
}

func (*RootReturn) nativeReturn()       {}
func (*JoinReturn) nativeReturn()       {}
func (*CollectionReturn) nativeReturn() {}
func (*ScalarReturn) nativeReturn()     {}

// ResultSetMapping is a named, reusable native query result shape.
type ResultSetMapping struct {
	Name    string
	Returns []NativeReturn
	Origin  diagnostic.Origin
}

// FilterDefinition is a named filter with typed parameters.
type FilterDefinition struct {
	Name             string
	DefaultCondition string
	Parameters       []Parameter
	Origin           diagnostic.Origin
}

// TypeDefinition is a named, parameterized type.
type TypeDefinition struct {
	Name      string
	TypeClass string
	Params    map[string]string
	Origin    diagnostic.Origin
}

// FetchProfile overrides association fetching when enabled.
type FetchProfile struct {
	Name    string
	Fetches []FetchProfileFetch
	Origin  diagnostic.Origin
}

// FetchProfileFetch overrides the fetch style of one association.
type FetchProfileFetch struct {
	Entity      string
	Association string
	// Style is FetchJoin or FetchSubselect.
	Style strategy.FetchStyle
}
