package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/lucifer/internal/core/ports"
)

// Invalidator receives batches of root-relative paths.
type Invalidator func(ctx context.Context, files []string)

// Feed starts w on root and hands debounced batches of changed files to
// invalidate until ctx is done. Removals are ignored; a removed module is
// simply never reloaded.
func Feed(ctx context.Context, w ports.Watcher, root string, window time.Duration, logger ports.Logger, invalidate Invalidator) error {
	if err := w.Start(ctx, root); err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	d := NewDebouncer(window, func(paths []string) {
		files := make([]string, 0, len(paths))
		for _, p := range paths {
			rel, err := filepath.Rel(root, p)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				continue
			}
			files = append(files, rel)
		}
		if len(files) == 0 {
			return
		}
		logger.Info(fmt.Sprintf("lucifer: %d files changed on disk", len(files)))
		invalidate(ctx, files)
	})

	logger.Info(fmt.Sprintf("lucifer: watching %s", root))

	for event := range w.Events() {
		if event.Operation == ports.OpRemove {
			continue
		}
		d.Add(event.Path)
	}

	d.Flush()
	return nil
}
