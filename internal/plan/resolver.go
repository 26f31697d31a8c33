package plan

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"hbm-source/internal/descriptor"
	"hbm-source/internal/diagnostic"
	"hbm-source/internal/query"
	"hbm-source/internal/registry"
	"hbm-source/internal/source"
)

// Diagnostic codes for failures that are not MappingErrors.
const (
	CodeLoadFailed    = "load_failed"
	CodeResolveFailed = "resolve_failed"
)

// Options controls how a run reacts to errors.
type Options struct {
	// FailFast aborts the run at the first error instead of collecting
	// every per-document error into the result's diagnostics.
	FailFast bool
	// Concurrency bounds the number of files decoded at once (0 = GOMAXPROCS).
	Concurrency int
}

// Result is the outcome of one run.
type Result struct {
	// ID correlates the run's log lines.
	ID uuid.UUID
	// Documents lists the processed document names in input order.
	Documents []string
	// Hierarchies is nil when any error occurred.
	Hierarchies []*source.EntityHierarchy
	Diagnostics diagnostic.Diagnostics
}

// Err returns the combined error of all error diagnostics, or nil.
func (r *Result) Err() error {
	return r.Diagnostics.Err()
}

// EntityCount returns the number of entities across all hierarchies.
func (r *Result) EntityCount() int {
	n := 0
	for _, h := range r.Hierarchies {
		n += len(h.Entities())
	}

	return n
}

// Resolver performs the resolution pipeline.
type Resolver struct {
	defaults *source.MappingDefaults
	registry registry.MetadataRegistry
	logger   *slog.Logger
	options  Options
}

// NewResolver creates a new Resolver. A nil defaults means
// source.DefaultMappingDefaults, a nil registry a fresh in-memory one and a
// nil logger discards everything.
func NewResolver(
	defaults *source.MappingDefaults,
	reg registry.MetadataRegistry,
	logger *slog.Logger,
	options Options,
) *Resolver {
	if defaults == nil {
		defaults = source.DefaultMappingDefaults()
	}

	if reg == nil {
		reg = registry.NewInMemory()
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Resolver{
		defaults: defaults,
		registry: reg,
		logger:   logger,
		options:  options,
	}
}

// Registry returns the registry receiving query metadata.
func (r *Resolver) Registry() registry.MetadataRegistry {
	return r.registry
}

type loaded struct {
	path string
	root *descriptor.HibernateMapping
	err  error
}

// Run resolves the documents at paths. The returned error is non-nil only
// when the run was aborted: by ctx, or by the first error in fail-fast mode.
// In collect mode errors are reported through Result.Diagnostics. The
// registry only receives the definitions of a run without errors.
func (r *Resolver) Run(ctx context.Context, paths []string) (*Result, error) {
	res := &Result{ID: uuid.New()}
	log := r.logger.With("run_id", res.ID.String())

	docs, err := r.load(ctx, paths)
	if err != nil {
		return res, err
	}

	builder := source.NewHierarchyBuilder()
	staged := registry.NewInMemory()
	binder := query.NewBinder(staged)

	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if d.err != nil {
			if r.options.FailFast {
				return res, d.err
			}

			res.Diagnostics.AddError(CodeLoadFailed, d.err.Error(), d.path, "")

			continue
		}

		doc := source.NewMappingDocument(d.root, diagnostic.Origin{Name: d.path}, r.defaults)
		res.Documents = append(res.Documents, d.path)

		log.Debug("processing mapping document",
			"document", d.path,
			"classes", len(d.root.Classes),
			"queries", len(d.root.Queries)+len(d.root.SQLQueries))

		if err := r.step(&res.Diagnostics, builder.ProcessDocument(doc)); err != nil {
			return res, err
		}

		if err := r.step(&res.Diagnostics, binder.Bind(doc)); err != nil {
			return res, err
		}
	}

	hierarchies, err := r.finish(&res.Diagnostics, builder, binder, staged)
	if err != nil {
		return res, err
	}

	res.Hierarchies = hierarchies
	res.Diagnostics.Merge(builder.Diagnostics())

	log.Info("resolution finished",
		"documents", len(res.Documents),
		"hierarchies", len(res.Hierarchies),
		"entities", res.EntityCount(),
		"errors", len(res.Diagnostics.Errors),
		"warnings", len(res.Diagnostics.Warnings))

	return res, nil
}

// finish assembles the hierarchies, checks the native return paths against
// them and only then publishes the staged definitions to the registry.
// Nothing is returned or published once any error was recorded.
func (r *Resolver) finish(
	diags *diagnostic.Diagnostics,
	builder *source.HierarchyBuilder,
	binder *query.Binder,
	staged *registry.InMemory,
) ([]*source.EntityHierarchy, error) {
	if diags.HasErrors() {
		return nil, nil
	}

	hierarchies, err := builder.Build()
	if err := r.step(diags, err); err != nil {
		return nil, err
	}

	if diags.HasErrors() {
		return nil, nil
	}

	for _, err := range binder.CheckReturnPaths(hierarchies) {
		if err := r.step(diags, err); err != nil {
			return nil, err
		}
	}

	if diags.HasErrors() {
		return nil, nil
	}

	if err := r.step(diags, staged.Replay(r.registry)); err != nil {
		return nil, err
	}

	if diags.HasErrors() {
		return nil, nil
	}

	return hierarchies, nil
}

// step records err, or returns it in fail-fast mode.
func (r *Resolver) step(diags *diagnostic.Diagnostics, err error) error {
	if err == nil {
		return nil
	}

	if r.options.FailFast {
		return err
	}

	diags.AddErr(CodeResolveFailed, err)

	return nil
}

// load decodes every file concurrently, keeping the input order.
func (r *Resolver) load(ctx context.Context, paths []string) ([]loaded, error) {
	docs := make([]loaded, len(paths))

	limit := r.options.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, path := range paths {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}

			root, err := descriptor.LoadFile(path)
			docs[i] = loaded{path: path, root: root, err: err}

			if err != nil && r.options.FailFast {
				return err
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}
