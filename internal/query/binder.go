// Package query binds the document-level definitions of a mapping document
// (imports, named queries, native result set mappings, filter and type
// definitions, fetch profiles) into a MetadataRegistry.
package query

import (
	"maps"
	"strings"

	"hbm-source/internal/common"
	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/registry"
	"hbm-source/internal/source"
	"hbm-source/internal/strategy"
)

// Binder emits the definitions of mapping documents into a registry.
// Native returns are remembered for CheckReturnPaths.
type Binder struct {
	registry registry.MetadataRegistry
	pending  []pendingReturns
}

// NewBinder returns a binder writing to r.
func NewBinder(r registry.MetadataRegistry) *Binder {
	return &Binder{registry: r}
}

// Bind emits every definition of doc. It stops at the first error.
func (b *Binder) Bind(doc *source.MappingDocument) error {
	root := doc.Root()

	steps := []func(*source.MappingDocument, *descriptor.HibernateMapping) error{
		b.bindImports,
		b.bindQueries,
		b.bindResultSets,
		b.bindSQLQueries,
		b.bindFilterDefs,
		b.bindTypeDefs,
		b.bindFetchProfiles,
	}

	for _, step := range steps {
		err := step(doc, root)
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *Binder) remember(owner string, origin diagnostic.Origin, returns []registry.NativeReturn) {
	if len(returns) == 0 {
		return
	}

	b.pending = append(b.pending, pendingReturns{owner: owner, origin: origin, returns: returns})
}

func (b *Binder) bindImports(doc *source.MappingDocument, root *descriptor.HibernateMapping) error {
	for _, imp := range root.Imports {
		element := "import[" + imp.Class + "]"
		if imp.Class == "" {
			return doc.MakeMappingError(diagnostic.KindStructuralConflict, "import", "import declares no class")
		}

		class := doc.QualifyClassName(imp.Class)
		rename := common.FirstNonEmpty(imp.Rename, common.Unqualify(class))

		err := b.registry.AddImport(rename, class, doc.Origin().At(element))
		if err != nil {
			return err
		}
	}

	if !doc.Defaults().AutoImport {
		return nil
	}

	return b.autoImport(doc, root.Classes)
}

// autoImport registers every mapped entity under its entity name and its
// unqualified name.
func (b *Binder) autoImport(doc *source.MappingDocument, decls []descriptor.ClassDeclaration) error {
	for _, decl := range decls {
		elem := decl.Entity()
		if elem == nil {
			continue
		}

		entityName := doc.DetermineEntityName(elem.EntityName, elem.Name)
		origin := doc.Origin().At(decl.Kind.String() + "[" + entityName + "]")

		err := b.registry.AddImport(entityName, entityName, origin)
		if err != nil {
			return err
		}

		if short := common.Unqualify(entityName); short != entityName {
			err = b.registry.AddImport(short, entityName, origin)
			if err != nil {
				return err
			}
		}

		err = b.autoImport(doc, elem.Subclasses)
		if err != nil {
			return err
		}
	}

	return nil
}

func parseFlushMode(token, query string) (registry.FlushMode, error) {
	switch token {
	case "":
		return registry.FlushUnset, nil
	case "auto":
		return registry.FlushAuto, nil
	case "commit":
		return registry.FlushCommit, nil
	case "always":
		return registry.FlushAlways, nil
	case "never", "manual":
		return registry.FlushManual, nil
	default:
		return registry.FlushUnset, &strategy.UnknownTokenError{Setting: "flush-mode", Token: token, Attribute: query}
	}
}

func parseCacheMode(token, query string) (registry.CacheMode, error) {
	switch token {
	case "":
		return registry.CacheModeUnset, nil
	case "get":
		return registry.CacheModeGet, nil
	case "ignore":
		return registry.CacheModeIgnore, nil
	case "normal":
		return registry.CacheModeNormal, nil
	case "put":
		return registry.CacheModePut, nil
	case "refresh":
		return registry.CacheModeRefresh, nil
	default:
		return registry.CacheModeUnset, &strategy.UnknownTokenError{Setting: "cache-mode", Token: token, Attribute: query}
	}
}

func parameters(params []descriptor.QueryParam) []registry.Parameter {
	if len(params) == 0 {
		return nil
	}

	out := make([]registry.Parameter, len(params))
	for i, p := range params {
		out[i] = registry.Parameter{Name: p.Name, Type: p.Type}
	}

	return out
}

func (b *Binder) namedQuery(doc *source.MappingDocument, q *descriptor.Query, element string) (*registry.NamedQuery, error) {
	if q.Name == "" {
		return nil, doc.MakeMappingError(diagnostic.KindStructuralConflict, element, "named query declares no name")
	}

	flushMode, err := parseFlushMode(q.FlushMode, q.Name)
	if err != nil {
		return nil, doc.WrapMappingError(diagnostic.KindUnknownToken, element, err)
	}

	cacheMode, err := parseCacheMode(q.CacheMode, q.Name)
	if err != nil {
		return nil, doc.WrapMappingError(diagnostic.KindUnknownToken, element, err)
	}

	return &registry.NamedQuery{
		Name:        q.Name,
		Query:       strings.TrimSpace(q.Query),
		FlushMode:   flushMode,
		CacheMode:   cacheMode,
		Cacheable:   q.Cacheable,
		CacheRegion: q.CacheRegion,
		FetchSize:   q.FetchSize,
		Timeout:     q.Timeout,
		ReadOnly:    q.ReadOnly,
		Comment:     q.Comment,
		Parameters:  parameters(q.Params),
		Origin:      doc.Origin().At(element),
	}, nil
}

func (b *Binder) bindQueries(doc *source.MappingDocument, root *descriptor.HibernateMapping) error {
	for i := range root.Queries {
		q := &root.Queries[i]

		named, err := b.namedQuery(doc, q, "query["+q.Name+"]")
		if err != nil {
			return err
		}

		err = b.registry.AddNamedQuery(named)
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *Binder) bindSQLQueries(doc *source.MappingDocument, root *descriptor.HibernateMapping) error {
	for i := range root.SQLQueries {
		q := &root.SQLQueries[i]
		element := "sql-query[" + q.Name + "]"

		named, err := b.namedQuery(doc, &q.Query, element)
		if err != nil {
			return err
		}

		if q.ResultSetRef != "" && len(q.Returns) > 0 {
			return doc.MakeMappingError(diagnostic.KindStructuralConflict, element,
				"sql-query '%s' specifies both resultset-ref and returns", q.Name)
		}

		returns, err := bindReturns(doc, q.Returns, element)
		if err != nil {
			return err
		}

		b.remember("sql-query '"+q.Name+"'", doc.Origin().At(element), returns)

		err = b.registry.AddNamedNativeQuery(&registry.NamedNativeQuery{
			NamedQuery:   *named,
			Callable:     q.Callable,
			ResultSetRef: q.ResultSetRef,
			QuerySpaces:  q.Synchronize,
			Returns:      returns,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *Binder) bindResultSets(doc *source.MappingDocument, root *descriptor.HibernateMapping) error {
	for _, rs := range root.ResultSets {
		element := "resultset[" + rs.Name + "]"
		if rs.Name == "" {
			return doc.MakeMappingError(diagnostic.KindStructuralConflict, element, "resultset declares no name")
		}

		returns, err := bindReturns(doc, rs.Returns, element)
		if err != nil {
			return err
		}

		b.remember("resultset '"+rs.Name+"'", doc.Origin().At(element), returns)

		err = b.registry.AddResultSetMapping(&registry.ResultSetMapping{
			Name:    rs.Name,
			Returns: returns,
			Origin:  doc.Origin().At(element),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *Binder) bindFilterDefs(doc *source.MappingDocument, root *descriptor.HibernateMapping) error {
	for _, f := range root.FilterDefs {
		element := "filter-def[" + f.Name + "]"

		params := make([]registry.Parameter, len(f.Params))
		for i, p := range f.Params {
			params[i] = registry.Parameter{Name: p.Name, Type: p.Type}
		}

		err := b.registry.AddFilterDefinition(&registry.FilterDefinition{
			Name:             f.Name,
			DefaultCondition: strings.TrimSpace(f.Condition),
			Parameters:       params,
			Origin:           doc.Origin().At(element),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *Binder) bindTypeDefs(doc *source.MappingDocument, root *descriptor.HibernateMapping) error {
	for _, td := range root.TypeDefs {
		element := "typedef[" + td.Name + "]"
		if td.Class == "" {
			return doc.MakeMappingError(diagnostic.KindStructuralConflict, element, "typedef '%s' declares no class", td.Name)
		}

		err := b.registry.AddTypeDefinition(&registry.TypeDefinition{
			Name:      td.Name,
			TypeClass: doc.QualifyClassName(td.Class),
			Params:    maps.Clone(td.Params),
			Origin:    doc.Origin().At(element),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *Binder) bindFetchProfiles(doc *source.MappingDocument, root *descriptor.HibernateMapping) error {
	for _, fp := range root.FetchProfiles {
		element := "fetch-profile[" + fp.Name + "]"
		fetches := make([]registry.FetchProfileFetch, 0, len(fp.Fetches))

		for _, f := range fp.Fetches {
			if f.Entity == "" {
				return doc.MakeMappingError(diagnostic.KindStructuralConflict, element,
					"fetch-profile '%s' fetch of '%s' declares no entity", fp.Name, f.Association)
			}

			var style strategy.FetchStyle

			switch f.Style {
			case "", "join":
				style = strategy.FetchJoin
			case "subselect":
				style = strategy.FetchSubselect
			default:
				return doc.WrapMappingError(diagnostic.KindUnknownToken, element,
					&strategy.UnknownTokenError{Setting: "fetch style", Token: f.Style, Attribute: f.Association})
			}

			fetches = append(fetches, registry.FetchProfileFetch{
				Entity:      doc.QualifyClassName(f.Entity),
				Association: f.Association,
				Style:       style,
			})
		}

		err := b.registry.AddFetchProfile(&registry.FetchProfile{
			Name:    fp.Name,
			Fetches: fetches,
			Origin:  doc.Origin().At(element),
		})
		if err != nil {
			return err
		}
	}

	return nil
}
