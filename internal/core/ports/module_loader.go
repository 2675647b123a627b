package ports

import (
	"context"

	"go.trai.ch/lucifer/internal/core/domain"
)

// ModuleLoader materializes a module from disk.
//
//go:generate mockgen -source=module_loader.go -destination=mocks/mock_module_loader.go -package=mocks
type ModuleLoader interface {
	// Load reads and validates the file at the absolute path.
	// A missing file, unreadable file or syntax error is returned as an error.
	Load(ctx context.Context, path string) (*domain.Module, error)
}
