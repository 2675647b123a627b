// Package fs implements path resolution and module loading against the local file system.
package fs

import (
	"path/filepath"
	"strings"

	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PathResolver = (*Resolver)(nil)

// Resolver joins request paths against a fixed root directory.
type Resolver struct {
	root string
	self []string
}

// NewResolver creates a Resolver rooted at root. The self paths identify the
// running server; a resolved path equal to or below one of them is reported by IsSelf.
func NewResolver(root string, self ...string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to get absolute path of root"), "root", root)
	}

	r := &Resolver{root: abs}
	for _, s := range self {
		if s == "" {
			continue
		}
		if !filepath.IsAbs(s) {
			s = filepath.Join(abs, s)
		}
		r.self = append(r.self, filepath.Clean(s))
	}
	return r, nil
}

// Root returns the absolute root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve joins rel against the root. The join is lexical: ".." segments are
// cleaned but the result is not required to stay inside the root.
func (r *Resolver) Resolve(rel string) string {
	return filepath.Join(r.root, rel)
}

// IsSelf reports whether abs is one of the server's own paths or lies
// below one of them.
func (r *Resolver) IsSelf(abs string) bool {
	abs = filepath.Clean(abs)
	for _, s := range r.self {
		if abs == s || strings.HasPrefix(abs, s+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Contains reports whether abs lies inside the root directory.
func (r *Resolver) Contains(abs string) bool {
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Rel returns abs relative to the root, or abs unchanged if it is outside.
func (r *Resolver) Rel(abs string) string {
	if !r.Contains(abs) {
		return abs
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return abs
	}
	return rel
}
