package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderDoc = `
package: com.acme
classes:
  - class:
      name: Order
      table: orders
      id: { name: id }
      discriminator: { column: kind }
      attributes:
        - property: { name: total }
      subclasses:
        - subclass: { name: RushOrder, discriminator-value: R }
queries:
  - name: allOrders
    query: from Order
`

const brokenDoc = `
classes:
  - class:
      name: Refund
      id: { name: id }
      attributes:
        - many-to-one: { name: payment, class: Payment, cascade: bogus }
`

func writeDocs(t *testing.T, docs map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hbm-source v"+Version)
}

func TestResolveCommand(t *testing.T) {
	dir := writeDocs(t, map[string]string{"order.hbm.yaml": orderDoc})

	out, _, err := execute(t, "resolve", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "com.acme.Order")
	assert.Contains(t, out, "com.acme.RushOrder")
	assert.Contains(t, out, "single_table")
	assert.Contains(t, out, "(1 documents, 1 hierarchies, 2 entities)")
}

func TestResolveCommand_JSON(t *testing.T) {
	dir := writeDocs(t, map[string]string{"order.hbm.yaml": orderDoc})

	out, _, err := execute(t, "resolve", dir, "-o", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"root": "com.acme.Order"`)
	assert.Contains(t, out, `"queries": 1`)
}

func TestResolveCommand_IncludeFlag(t *testing.T) {
	dir := writeDocs(t, map[string]string{"order.mapping.yml": orderDoc})

	_, _, err := execute(t, "resolve", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no mapping documents found")

	out, _, err := execute(t, "resolve", dir, "--include", "*.mapping.yml")
	require.NoError(t, err)
	assert.Contains(t, out, "com.acme.Order")
}

func TestCheckCommand(t *testing.T) {
	dir := writeDocs(t, map[string]string{"order.hbm.yaml": orderDoc})

	out, _, err := execute(t, "check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "(no diagnostics)")

	dir = writeDocs(t, map[string]string{
		"order.hbm.yaml":  orderDoc,
		"refund.hbm.yaml": brokenDoc,
	})

	out, _, err = execute(t, "check", dir, "--fail-fast")
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "unknown_token")
	assert.Contains(t, out, "refund.hbm.yaml")
}

func TestCheckCommand_ReportsWarnings(t *testing.T) {
	dir := writeDocs(t, map[string]string{"library.hbm.yaml": `
classes:
  - class:
      name: Library
      id: { name: id }
      attributes:
        - set:
            name: members
            key: { column: library_id }
            many-to-many: { class: Library, column: member_id, lazy: bogus }
`})

	out, _, err := execute(t, "check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "warning")
	assert.Contains(t, out, "unexpected lazy selection [bogus]")
}

func TestDumpCommand(t *testing.T) {
	dir := writeDocs(t, map[string]string{"order.hbm.yaml": orderDoc})

	out, _, err := execute(t, "dump", dir, "--naming-strategy", "improved")
	require.NoError(t, err)

	assert.Contains(t, out, `EntityName: (string) (len=14) "com.acme.Order"`)
	assert.Contains(t, out, "RushOrder")
}

func TestInvalidFlagValue(t *testing.T) {
	dir := writeDocs(t, map[string]string{"order.hbm.yaml": orderDoc})

	_, _, err := execute(t, "resolve", dir, "--naming-strategy", "fancy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "naming_strategy")
}

func TestWatchLoop_Debounces(t *testing.T) {
	dir := writeDocs(t, map[string]string{"order.hbm.yaml": orderDoc})

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Close() })
	require.NoError(t, watchTree(watcher, dir))

	cmd := newRootCmd()
	c := &cli{}
	require.NoError(t, c.load(cmd))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 10)
	done := make(chan error, 1)

	go func() {
		done <- c.watchLoop(ctx, watcher, func() { runs <- struct{}{} })
	}()

	path := filepath.Join(dir, "order.hbm.yaml")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(orderDoc+strings.Repeat("\n", i)), 0o600))
	}

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("no re-run after descriptor change")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Empty(t, runs)
}
