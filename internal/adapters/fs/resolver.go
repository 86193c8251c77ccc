package fs

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/zr/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using doublestar globs,
// so input patterns may use "**" to match arbitrarily deep directories.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs resolves the given input patterns to a list of concrete file paths.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	uniquePaths := make(map[string]bool)

	for _, input := range inputs {
		pattern := filepath.ToSlash(filepath.Join(root, input))

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", pattern)
		}

		if len(matches) == 0 {
			// Zero matches for a direct path or a glob are both treated as
			// "input not found" rather than silently skipped.
			return nil, zerr.With(zerr.New("input not found"), "path", pattern)
		}

		for _, match := range matches {
			uniquePaths[match] = true
		}
	}

	// Convert map to slice and sort
	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	sort.Strings(result)

	return result, nil
}
