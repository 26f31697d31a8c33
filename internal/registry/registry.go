// Package registry is the output boundary of query and definition binding:
// the collector that receives named queries, result set mappings, imports,
// filter and type definitions and fetch profiles.
package registry

import (
	"maps"
	"slices"

	"hbm-source/internal/diagnostic"
)

// MetadataRegistry receives definitions. Binding only ever adds; a
// registry is never read back during resolution.
type MetadataRegistry interface {
	AddImport(importName, entityName string, origin diagnostic.Origin) error
	AddNamedQuery(q *NamedQuery) error
	AddNamedNativeQuery(q *NamedNativeQuery) error
	AddResultSetMapping(m *ResultSetMapping) error
	AddFilterDefinition(f *FilterDefinition) error
	AddTypeDefinition(t *TypeDefinition) error
	AddFetchProfile(p *FetchProfile) error
}

type importEntry struct {
	entityName string
	origin     diagnostic.Origin
}

// InMemory is a MetadataRegistry backed by maps. Names are unique per
// definition kind; HQL and native queries share one namespace.
type InMemory struct {
	imports       map[string]importEntry
	queries       map[string]*NamedQuery
	nativeQueries map[string]*NamedNativeQuery
	resultSets    map[string]*ResultSetMapping
	filters       map[string]*FilterDefinition
	types         map[string]*TypeDefinition
	fetchProfiles map[string]*FetchProfile
}

var _ MetadataRegistry = (*InMemory)(nil)

// NewInMemory returns an empty registry.
func NewInMemory() *InMemory {
	return &InMemory{
		imports:       make(map[string]importEntry),
		queries:       make(map[string]*NamedQuery),
		nativeQueries: make(map[string]*NamedNativeQuery),
		resultSets:    make(map[string]*ResultSetMapping),
		filters:       make(map[string]*FilterDefinition),
		types:         make(map[string]*TypeDefinition),
		fetchProfiles: make(map[string]*FetchProfile),
	}
}

func duplicate(what, name string, origin, previous diagnostic.Origin) error {
	return diagnostic.NewMappingError(diagnostic.KindDuplicateMapping, origin,
		"duplicate %s '%s', already defined at %s", what, name, previous)
}

// AddImport registers importName as an alias of entityName. Importing the
// same name for the same entity again is a no-op.
func (r *InMemory) AddImport(importName, entityName string, origin diagnostic.Origin) error {
	if existing, ok := r.imports[importName]; ok {
		if existing.entityName == entityName {
			return nil
		}

		return diagnostic.NewMappingError(diagnostic.KindDuplicateMapping, origin,
			"duplicate import '%s' for '%s', already imported for '%s' at %s",
			importName, entityName, existing.entityName, existing.origin)
	}

	r.imports[importName] = importEntry{entityName: entityName, origin: origin}

	return nil
}

// AddNamedQuery registers an HQL query.
func (r *InMemory) AddNamedQuery(q *NamedQuery) error {
	if prev, ok := r.queryOrigin(q.Name); ok {
		return duplicate("query", q.Name, q.Origin, prev)
	}

	r.queries[q.Name] = q

	return nil
}

// AddNamedNativeQuery registers a native query.
func (r *InMemory) AddNamedNativeQuery(q *NamedNativeQuery) error {
	if prev, ok := r.queryOrigin(q.Name); ok {
		return duplicate("query", q.Name, q.Origin, prev)
	}

	r.nativeQueries[q.Name] = q

	return nil
}

func (r *InMemory) queryOrigin(name string) (diagnostic.Origin, bool) {
	if q, ok := r.queries[name]; ok {
		return q.Origin, true
	}

	if q, ok := r.nativeQueries[name]; ok {
		return q.Origin, true
	}

	return diagnostic.Origin{}, false
}

// AddResultSetMapping registers a result set mapping.
func (r *InMemory) AddResultSetMapping(m *ResultSetMapping) error {
	if prev, ok := r.resultSets[m.Name]; ok {
		return duplicate("result set mapping", m.Name, m.Origin, prev.Origin)
	}

	r.resultSets[m.Name] = m

	return nil
}

// AddFilterDefinition registers a filter definition.
func (r *InMemory) AddFilterDefinition(f *FilterDefinition) error {
	if prev, ok := r.filters[f.Name]; ok {
		return duplicate("filter definition", f.Name, f.Origin, prev.Origin)
	}

	r.filters[f.Name] = f

	return nil
}

// AddTypeDefinition registers a type definition.
func (r *InMemory) AddTypeDefinition(t *TypeDefinition) error {
	if prev, ok := r.types[t.Name]; ok {
		return duplicate("type definition", t.Name, t.Origin, prev.Origin)
	}

	r.types[t.Name] = t

	return nil
}

// AddFetchProfile registers a fetch profile.
func (r *InMemory) AddFetchProfile(p *FetchProfile) error {
	if prev, ok := r.fetchProfiles[p.Name]; ok {
		return duplicate("fetch profile", p.Name, p.Origin, prev.Origin)
	}

	r.fetchProfiles[p.Name] = p

	return nil
}

// Imports returns a copy of the import table.
func (r *InMemory) Imports() map[string]string {
	out := make(map[string]string, len(r.imports))
	for name, e := range r.imports {
		out[name] = e.entityName
	}

	return out
}

// NamedQuery returns the HQL query with the given name.
func (r *InMemory) NamedQuery(name string) (*NamedQuery, bool) {
	q, ok := r.queries[name]
	return q, ok
}

// NamedNativeQuery returns the native query with the given name.
func (r *InMemory) NamedNativeQuery(name string) (*NamedNativeQuery, bool) {
	q, ok := r.nativeQueries[name]
	return q, ok
}

// ResultSetMapping returns the result set mapping with the given name.
func (r *InMemory) ResultSetMapping(name string) (*ResultSetMapping, bool) {
	m, ok := r.resultSets[name]
	return m, ok
}

// FilterDefinition returns the filter definition with the given name.
func (r *InMemory) FilterDefinition(name string) (*FilterDefinition, bool) {
	f, ok := r.filters[name]
	return f, ok
}

// TypeDefinition returns the type definition with the given name.
func (r *InMemory) TypeDefinition(name string) (*TypeDefinition, bool) {
	t, ok := r.types[name]
	return t, ok
}

// FetchProfile returns the fetch profile with the given name.
func (r *InMemory) FetchProfile(name string) (*FetchProfile, bool) {
	p, ok := r.fetchProfiles[name]
	return p, ok
}

// Counts returns the number of definitions per kind, keyed by kind name.
func (r *InMemory) Counts() map[string]int {
	return map[string]int{
		"imports":        len(r.imports),
		"queries":        len(r.queries),
		"native_queries": len(r.nativeQueries),
		"result_sets":    len(r.resultSets),
		"filters":        len(r.filters),
		"types":          len(r.types),
		"fetch_profiles": len(r.fetchProfiles),
	}
}

// QueryNames returns the names of all HQL and native queries, sorted.
func (r *InMemory) QueryNames() []string {
	names := slices.Collect(maps.Keys(r.queries))
	names = append(names, slices.Collect(maps.Keys(r.nativeQueries))...)
	slices.Sort(names)

	return names
}

func sortedValues[V any](m map[string]V) []V {
	out := make([]V, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[name])
	}

	return out
}

// Replay emits every definition of r into dst, kind by kind and sorted by
// name within a kind. It stops at the first error dst returns.
func (r *InMemory) Replay(dst MetadataRegistry) error {
	for _, name := range slices.Sorted(maps.Keys(r.imports)) {
		e := r.imports[name]
		if err := dst.AddImport(name, e.entityName, e.origin); err != nil {
			return err
		}
	}

	for _, q := range sortedValues(r.queries) {
		if err := dst.AddNamedQuery(q); err != nil {
			return err
		}
	}

	for _, q := range sortedValues(r.nativeQueries) {
		if err := dst.AddNamedNativeQuery(q); err != nil {
			return err
		}
	}

	for _, m := range sortedValues(r.resultSets) {
		if err := dst.AddResultSetMapping(m); err != nil {
			return err
		}
	}

	for _, f := range sortedValues(r.filters) {
		if err := dst.AddFilterDefinition(f); err != nil {
			return err
		}
	}

	for _, t := range sortedValues(r.types) {
		if err := dst.AddTypeDefinition(t); err != nil {
			return err
		}
	}

	for _, p := range sortedValues(r.fetchProfiles) {
		if err := dst.AddFetchProfile(p); err != nil {
			return err
		}
	}

	return nil
}
