package ports

import (
	"context"
	"iter"
)

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file or directory was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed away.
	OpRename
)

// String returns the lowercase name of the operation.
func (o WatchOp) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// WatchEvent is a change to a file below the watched root.
type WatchEvent struct {
	// Path is absolute.
	Path      string
	Operation WatchOp
}

// Watcher reports file system changes below a root directory.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching root recursively. Events stop when ctx is done.
	Start(ctx context.Context, root string) error
	// Stop releases the underlying watches.
	Stop() error
	// Events yields events until the watcher stops.
	Events() iter.Seq[WatchEvent]
}
