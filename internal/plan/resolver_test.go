package plan

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbm-source/internal/diagnostic"
	"hbm-source/internal/registry"
	"hbm-source/internal/source"
)

func fixtures(t *testing.T, dir string) []string {
	t.Helper()

	paths, err := Discover(filepath.Join("testdata", dir), []string{"**/*.hbm.yaml"})
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	return paths
}

type hierarchySummary struct {
	Root        string
	Inheritance source.InheritanceType
	Entities    []string
}

func summarize(hierarchies []*source.EntityHierarchy) map[string]hierarchySummary {
	out := make(map[string]hierarchySummary, len(hierarchies))

	for _, h := range hierarchies {
		s := hierarchySummary{Root: h.Root().EntityName, Inheritance: h.InheritanceType()}
		for _, e := range h.Entities() {
			s.Entities = append(s.Entities, e.EntityName)
		}

		out[s.Root] = s
	}

	return out
}

func TestDiscover(t *testing.T) {
	paths := fixtures(t, "orders")

	assert.Equal(t, []string{
		filepath.Join("testdata", "orders", "cheque.hbm.yaml"),
		filepath.Join("testdata", "orders", "order.hbm.yaml"),
		filepath.Join("testdata", "orders", "payment.hbm.yaml"),
	}, paths)

	_, err := Discover("testdata", []string{"[unclosed"})
	require.Error(t, err)
}

func TestExpand(t *testing.T) {
	paths, err := Expand([]string{
		filepath.Join("testdata", "orders"),
		filepath.Join("testdata", "orders", "order.hbm.yaml"),
	}, []string{"*.hbm.yaml"})
	require.NoError(t, err)
	assert.Len(t, paths, 3)

	paths, err = Expand([]string{"testdata/orders/p*.hbm.yaml"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"testdata/orders/payment.hbm.yaml"}, paths)

	_, err = Expand([]string{"testdata/orders/none*.yaml"}, nil)
	require.Error(t, err)

	_, err = Expand([]string{filepath.Join("testdata", "absent")}, nil)
	require.Error(t, err)
}

func TestResolver_Run_BothFileOrders(t *testing.T) {
	forward := fixtures(t, "orders")
	backward := slices.Clone(forward)
	slices.Reverse(backward)

	var results []map[string]hierarchySummary

	for _, paths := range [][]string{forward, backward} {
		res, err := NewResolver(nil, nil, nil, Options{}).Run(context.Background(), paths)
		require.NoError(t, err)
		require.True(t, res.Diagnostics.IsValid(), "diagnostics: %v", res.Diagnostics.Errors)

		results = append(results, summarize(res.Hierarchies))
	}

	want := map[string]hierarchySummary{
		"com.acme.shop.Order": {
			Root: "com.acme.shop.Order", Inheritance: source.NoInheritance,
			Entities: []string{"com.acme.shop.Order"},
		},
		"com.acme.shop.OrderLine": {
			Root: "com.acme.shop.OrderLine", Inheritance: source.NoInheritance,
			Entities: []string{"com.acme.shop.OrderLine"},
		},
		"com.acme.shop.Payment": {
			Root: "com.acme.shop.Payment", Inheritance: source.SingleTable,
			Entities: []string{
				"com.acme.shop.Payment",
				"com.acme.shop.CardPayment",
				"com.acme.shop.ChequePayment",
			},
		},
	}

	assert.Equal(t, want, results[0], spew.Sdump(results[0]))
	assert.Equal(t, want, results[1], spew.Sdump(results[1]))
}

func TestResolver_Run_PopulatesRegistry(t *testing.T) {
	reg := registry.NewInMemory()

	res, err := NewResolver(nil, reg, nil, Options{}).Run(context.Background(), fixtures(t, "orders"))
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.Equal(t, []string{"chequesOver", "ordersByCustomer"}, reg.QueryNames())

	imports := reg.Imports()
	assert.Equal(t, "com.acme.shop.Order", imports["Order"])
	assert.Equal(t, "com.acme.shop.ChequePayment", imports["ChequePayment"])

	q, ok := reg.NamedQuery("ordersByCustomer")
	require.True(t, ok)
	assert.Equal(t, "from Order o where o.customer = :customer", q.Query)
	assert.Equal(t, 5, res.EntityCount())
}

func TestResolver_Run_CollectsErrors(t *testing.T) {
	paths := []string{
		filepath.Join("testdata", "broken", "garbled.hbm.yaml"),
		filepath.Join("testdata", "broken", "bad_cascade.hbm.yaml"),
	}

	res, err := NewResolver(nil, nil, nil, Options{}).Run(context.Background(), paths)
	require.NoError(t, err)

	assert.Nil(t, res.Hierarchies)
	require.Len(t, res.Diagnostics.Errors, 2, spew.Sdump(res.Diagnostics))

	load := res.Diagnostics.Errors[0]
	assert.Equal(t, CodeLoadFailed, load.Code)
	assert.Equal(t, paths[0], load.Document)

	token := res.Diagnostics.Errors[1]
	assert.Equal(t, diagnostic.KindUnknownToken.String(), token.Code)
	assert.Equal(t, paths[1], token.Document)
	assert.Contains(t, token.Message, "bogus")

	require.Error(t, res.Err())
}

func TestResolver_Run_FailFast(t *testing.T) {
	paths := []string{
		filepath.Join("testdata", "broken", "bad_cascade.hbm.yaml"),
		filepath.Join("testdata", "orders", "order.hbm.yaml"),
	}

	res, err := NewResolver(nil, nil, nil, Options{FailFast: true}).Run(context.Background(), paths)
	require.Error(t, err)
	assert.ErrorIs(t, err, diagnostic.ErrUnknownToken)
	assert.Nil(t, res.Hierarchies)

	_, err = NewResolver(nil, nil, nil, Options{FailFast: true}).Run(context.Background(),
		[]string{filepath.Join("testdata", "broken", "garbled.hbm.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse mapping document")
}

func TestResolver_Run_FailedRunLeavesRegistryEmpty(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		paths   []string
	}{
		{
			name:  "collect",
			paths: []string{filepath.Join("testdata", "orders", "order.hbm.yaml"), filepath.Join("testdata", "broken", "bad_cascade.hbm.yaml")},
		},
		{
			name:    "fail fast",
			options: Options{FailFast: true},
			paths:   []string{filepath.Join("testdata", "orders", "order.hbm.yaml"), filepath.Join("testdata", "broken", "bad_cascade.hbm.yaml")},
		},
		{
			name:  "unresolvable return property",
			paths: append(fixtures(t, "orders"), filepath.Join("testdata", "broken", "bad_return.hbm.yaml")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.NewInMemory()

			res, _ := NewResolver(nil, reg, nil, tt.options).Run(context.Background(), tt.paths)
			assert.Nil(t, res.Hierarchies)

			for kind, n := range reg.Counts() {
				assert.Zero(t, n, kind)
			}
		})
	}
}

func TestResolver_Run_UnresolvableReturnProperty(t *testing.T) {
	paths := append(fixtures(t, "orders"), filepath.Join("testdata", "broken", "bad_return.hbm.yaml"))

	res, err := NewResolver(nil, nil, nil, Options{}).Run(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, res.Diagnostics.Errors, 1, spew.Sdump(res.Diagnostics))

	d := res.Diagnostics.Errors[0]
	assert.Equal(t, diagnostic.KindUnresolvableReference.String(), d.Code)
	assert.Equal(t, paths[len(paths)-1], d.Document)
	assert.Contains(t, d.Message, "ordersWithAddress")
	assert.Contains(t, d.Message, "shipTo.street")
	assert.Nil(t, res.Hierarchies)

	_, err = NewResolver(nil, nil, nil, Options{FailFast: true}).Run(context.Background(), paths)
	require.ErrorIs(t, err, diagnostic.ErrUnresolvableReference)
}

func TestResolver_Run_SurfacesWarnings(t *testing.T) {
	res, err := NewResolver(nil, nil, nil, Options{}).Run(context.Background(), fixtures(t, "warnings"))
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.Len(t, res.Hierarchies, 2)
	require.Len(t, res.Diagnostics.Warnings, 1)

	w := res.Diagnostics.Warnings[0]
	assert.Equal(t, diagnostic.KindUnknownToken.String(), w.Code)
	assert.Contains(t, w.Message, "[sometimes]")
	assert.Contains(t, w.Element, "set[members]")
}

func TestResolver_Run_UnresolvableExtends(t *testing.T) {
	res, err := NewResolver(nil, nil, nil, Options{}).Run(context.Background(),
		[]string{filepath.Join("testdata", "broken", "dangling.hbm.yaml")})
	require.NoError(t, err)

	require.Len(t, res.Diagnostics.Errors, 1)
	assert.Equal(t, diagnostic.KindUnresolvableReference.String(), res.Diagnostics.Errors[0].Code)
	assert.Contains(t, res.Diagnostics.Errors[0].Message, "GiftCardPayment")
	assert.Nil(t, res.Hierarchies)
}

func TestResolver_Run_AppliesDefaults(t *testing.T) {
	defaults := source.DefaultMappingDefaults()
	defaults.Schema = "shop"

	res, err := NewResolver(defaults, nil, nil, Options{}).Run(context.Background(),
		[]string{filepath.Join("testdata", "orders", "order.hbm.yaml")})
	require.NoError(t, err)
	require.NoError(t, res.Err())

	order := summarize(res.Hierarchies)["com.acme.shop.Order"]
	require.NotEmpty(t, order.Entities)

	for _, h := range res.Hierarchies {
		assert.Equal(t, "shop", h.Root().PrimaryTable.Schema)
	}
}

func TestResolver_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(nil, nil, nil, Options{}).Run(ctx, fixtures(t, "orders"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestResolver_Run_LogsRunID(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	res, err := NewResolver(nil, nil, logger, Options{Concurrency: 1}).Run(context.Background(), fixtures(t, "orders"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "run_id="+res.ID.String())
	assert.Contains(t, out, "processing mapping document")
	assert.Contains(t, out, "resolution finished")
	assert.Contains(t, out, "entities=5")
}
