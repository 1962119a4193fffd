// Package batch parses many source documents concurrently, each with its own
// independent parse.
package batch

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/HartBrook/lexchunk/internal/errors"
	"github.com/bmatcuk/doublestar/v4"
)

// ResolveInputs expands glob patterns to concrete, de-duplicated, sorted file
// paths. Supports both single-level wildcards (*) and recursive wildcards (**).
//
// A pattern without glob metacharacters must name an existing file.
func ResolveInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var resolved []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			resolved = append(resolved, clean)
		}
	}

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			info, err := os.Stat(pattern)
			if err != nil {
				if os.IsNotExist(err) {
					return nil, errors.InputNotFound(pattern)
				}
				return nil, errors.InputUnreadable(pattern, err)
			}
			if !info.IsDir() {
				add(pattern)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Wrap(errors.ErrNoInputMatched, "invalid glob pattern "+pattern, "", err)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue // Skip paths that can't be stat'd
			}
			add(match)
		}
	}

	if len(resolved) == 0 {
		return nil, errors.NoInputMatched(patterns)
	}

	sort.Strings(resolved)
	return resolved, nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
