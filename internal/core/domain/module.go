package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// ModuleKind identifies how a module's source is validated when it is loaded.
type ModuleKind string

const (
	// ModuleKindGo is a Go source file.
	ModuleKindGo ModuleKind = "go"
	// ModuleKindYAML is a YAML document.
	ModuleKindYAML ModuleKind = "yaml"
	// ModuleKindJSON is a JSON document.
	ModuleKindJSON ModuleKind = "json"
	// ModuleKindOther is accepted as raw bytes.
	ModuleKindOther ModuleKind = "other"
)

// KindOf returns the module kind implied by the file extension of path.
func KindOf(path string) ModuleKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return ModuleKindGo
	case ".yaml", ".yml":
		return ModuleKindYAML
	case ".json":
		return ModuleKindJSON
	default:
		return ModuleKindOther
	}
}

// Module is the in-memory representation of a file loaded from disk.
type Module struct {
	Path     string
	Kind     ModuleKind
	Source   []byte
	Hash     uint64
	Size     int64
	ModTime  time.Time
	LoadedAt time.Time
}

// LoadResult is the outcome of loading a single module.
// Exactly one of Module and Err is set.
type LoadResult struct {
	Path   string
	Module *Module
	Err    error
}

// OK reports whether the load succeeded.
func (r LoadResult) OK() bool {
	return r.Err == nil && r.Module != nil
}
