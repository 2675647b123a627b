// Package classifier decides which files are test files using doublestar glob patterns.
package classifier

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TestFileClassifier = (*Glob)(nil)

// Glob classifies a file as a test file when its root-relative path matches
// one of the configured patterns. Patterns without a slash are also matched
// against the base name.
type Glob struct {
	root     string
	patterns []string
}

// NewGlob creates a classifier for files below root.
func NewGlob(root string, patterns []string) (*Glob, error) {
	if len(patterns) == 0 {
		patterns = domain.DefaultTestPatterns()
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, zerr.With(zerr.Wrap(doublestar.ErrBadPattern, domain.ErrConfigInvalid.Error()), "pattern", p)
		}
	}

	return &Glob{
		root:     filepath.Clean(root),
		patterns: append([]string(nil), patterns...),
	}, nil
}

// Patterns returns the configured patterns.
func (g *Glob) Patterns() []string {
	return append([]string(nil), g.patterns...)
}

// IsTestFile reports whether absPath matches any pattern.
func (g *Glob) IsTestFile(absPath string) bool {
	name := filepath.ToSlash(absPath)
	if rel, err := filepath.Rel(g.root, absPath); err == nil && !outside(rel) {
		name = filepath.ToSlash(rel)
	}
	base := filepath.Base(absPath)

	for _, p := range g.patterns {
		if match(p, name) {
			return true
		}
		if !strings.Contains(p, "/") && match(p, base) {
			return true
		}
	}
	return false
}

// match ignores the error because patterns are validated in NewGlob.
func match(pattern, name string) bool {
	ok, _ := doublestar.Match(pattern, name)
	return ok
}

func outside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
