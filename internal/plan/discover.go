package plan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands the glob patterns below root and returns the matching
// regular files, sorted and without duplicates.
func Discover(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)

	var files []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob error: %w", err)
		}

		for _, m := range matches {
			path := filepath.Join(root, filepath.FromSlash(m))
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
		}
	}

	sort.Strings(files)

	return files, nil
}

// Expand turns command line arguments into descriptor files. A directory is
// searched with the include patterns, a glob is matched relative to the
// working directory and anything else is taken as a file path.
func Expand(args []string, include []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	seen := make(map[string]bool)

	var files []string

	add := func(paths ...string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
		}
	}

	for _, arg := range args {
		if containsGlob(arg) {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob error: %w", err)
			}

			if len(matches) == 0 {
				return nil, fmt.Errorf("no mapping documents match pattern: %s", arg)
			}

			sort.Strings(matches)
			add(matches...)

			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := Discover(arg, include)
			if err != nil {
				return nil, err
			}

			add(found...)

			continue
		}

		if info.Mode()&fs.ModeType != 0 {
			return nil, fmt.Errorf("not a regular file: %s", arg)
		}

		add(arg)
	}

	return files, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
