package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 200 * time.Millisecond

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Re-run check whenever a descriptor changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.watch(cmd, args)
		},
	}
}

func (c *cli) watch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, arg := range args {
		if err := watchTree(watcher, arg); err != nil {
			return fmt.Errorf("failed to watch %s: %w", arg, err)
		}
	}

	c.runCheck(cmd, args)

	return c.watchLoop(cmd.Context(), watcher, func() { c.runCheck(cmd, args) })
}

// runCheck prints the outcome of one check; errors are logged, not returned.
func (c *cli) runCheck(cmd *cobra.Command, args []string) {
	err := c.check(cmd, args)
	switch {
	case err == nil:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ok")
	case errors.Is(err, errCheckFailed):
	default:
		c.logger.Error("check failed", "error", err)
	}
}

// watchTree adds dir and its subdirectories, skipping hidden ones.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return watcher.Add(filepath.Dir(dir))
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		return watcher.Add(path)
	})
}

func isDescriptor(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// watchLoop calls rerun once per burst of descriptor changes until ctx ends.
func (c *cli) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, rerun func()) error {
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchTree(watcher, event.Name)
					continue
				}
			}

			if !isDescriptor(event.Name) {
				continue
			}

			c.logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			pending = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			c.logger.Warn("watch error", "error", err)
		case <-pending:
			pending = nil

			rerun()
		}
	}
}
