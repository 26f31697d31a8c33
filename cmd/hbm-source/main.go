// Package main provides the CLI entrypoint for hbm-source.
//
// hbm-source resolves hbm-style mapping descriptors into the mapping
// source model:
//   - Discovers and decodes descriptor documents
//   - Resolves value sources, fetch and cascade settings, naming defaults
//   - Assembles entity hierarchies across documents
//   - Binds named queries, result sets and definitions
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
