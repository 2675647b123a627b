// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Executor defines the interface for running external commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs argv in dir with env appended to the allow-listed system
	// environment, streaming combined output to out.
	//
	// It returns an error if the command cannot start or exits unsuccessfully.
	Execute(ctx context.Context, argv []string, dir string, env map[string]string, out io.Writer) error
}
