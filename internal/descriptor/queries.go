package descriptor

// Import registers a query alias for a class name.
type Import struct {
	Class  string `yaml:"class"`
	Rename string `yaml:"rename,omitempty"`
}

// QueryParam declares the type of a named query parameter.
type QueryParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"`
}

// Query is a named HQL query.
type Query struct {
	Name        string       `yaml:"name"`
	Query       string       `yaml:"query"`
	FlushMode   string       `yaml:"flush-mode,omitempty"`
	CacheMode   string       `yaml:"cache-mode,omitempty"`
	Cacheable   bool         `yaml:"cacheable,omitempty"`
	CacheRegion string       `yaml:"cache-region,omitempty"`
	FetchSize   *int         `yaml:"fetch-size,omitempty"`
	Timeout     *int         `yaml:"timeout,omitempty"`
	ReadOnly    bool         `yaml:"read-only,omitempty"`
	Comment     string       `yaml:"comment,omitempty"`
	Params      []QueryParam `yaml:"params,omitempty"`
}

// SQLQuery is a named native query. Its result shape is either given inline
// by Returns or by reference to a ResultSet.
type SQLQuery struct {
	Query `yaml:",inline"`

	Callable     bool     `yaml:"callable,omitempty"`
	ResultSetRef string   `yaml:"resultset-ref,omitempty"`
	Synchronize  []string `yaml:"synchronize,omitempty"`
	Returns      Returns  `yaml:"returns,omitempty"`
}

// ResultSet is a named, reusable native query result mapping.
type ResultSet struct {
	Name    string  `yaml:"name"`
	Returns Returns `yaml:"returns,omitempty"`
}

// ReturnElement is one entry of a native query result mapping. The set of
// implementations is closed.
type ReturnElement interface {
	ElementName() string
	returnElement()
}

// Returns is an ordered list of return elements.
type Returns []ReturnElement

// ReturnProperty maps a property of a returned entity to result columns.
type ReturnProperty struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns,omitempty"`
}

// Return is a root entity return.
type Return struct {
	Alias         string           `yaml:"alias"`
	Class         string           `yaml:"class,omitempty"`
	EntityName    string           `yaml:"entity-name,omitempty"`
	LockMode      string           `yaml:"lock-mode,omitempty"`
	Discriminator string           `yaml:"discriminator,omitempty"`
	Properties    []ReturnProperty `yaml:"properties,omitempty"`
}

// ReturnJoin is a fetched association of an earlier return, addressed by
// the dotted path "alias.property".
type ReturnJoin struct {
	Alias      string           `yaml:"alias"`
	Property   string           `yaml:"property"`
	LockMode   string           `yaml:"lock-mode,omitempty"`
	Properties []ReturnProperty `yaml:"properties,omitempty"`
}

// LoadCollection loads a collection role, given as "OwnerEntity.property".
type LoadCollection struct {
	Alias      string           `yaml:"alias"`
	Role       string           `yaml:"role"`
	LockMode   string           `yaml:"lock-mode,omitempty"`
	Properties []ReturnProperty `yaml:"properties,omitempty"`
}

// ReturnScalar is a scalar result column.
type ReturnScalar struct {
	Column string `yaml:"column"`
	Type   string `yaml:"type,omitempty"`
}

func (*Return) ElementName() string         { return "return" }
func (*ReturnJoin) ElementName() string     { return "return-join" }
func (*LoadCollection) ElementName() string { return "load-collection" }
func (*ReturnScalar) ElementName() string   { return "return-scalar" }

func (*Return) returnElement()         {}
func (*ReturnJoin) returnElement()     {}
func (*LoadCollection) returnElement() {}
func (*ReturnScalar) returnElement()   {}

var returnFactories = map[string]func() ReturnElement{
	"return":          func() ReturnElement { return &Return{} },
	"return-join":     func() ReturnElement { return &ReturnJoin{} },
	"load-collection": func() ReturnElement { return &LoadCollection{} },
	"return-scalar":   func() ReturnElement { return &ReturnScalar{} },
}

// FilterParam declares a filter parameter.
type FilterParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// FilterDef is a filter definition.
type FilterDef struct {
	Name      string        `yaml:"name"`
	Condition string        `yaml:"condition,omitempty"`
	Params    []FilterParam `yaml:"params,omitempty"`
}

// TypeDef is a named, parameterized type.
type TypeDef struct {
	Name   string            `yaml:"name"`
	Class  string            `yaml:"class"`
	Params map[string]string `yaml:"params,omitempty"`
}

// FetchProfile overrides association fetching under a profile name.
type FetchProfile struct {
	Name    string              `yaml:"name"`
	Fetches []FetchProfileFetch `yaml:"fetches,omitempty"`
}

// FetchProfileFetch is one association override of a fetch profile.
type FetchProfileFetch struct {
	Entity      string `yaml:"entity,omitempty"`
	Association string `yaml:"association"`
	// Style is "join" or "subselect".
	Style string `yaml:"style,omitempty"`
}
