package ports

import (
	"context"
	"regexp"
	"time"

	"go.trai.ch/lucifer/internal/core/domain"
)

// TestEngine executes registered test files.
//
// The setters configure the next call to Run. Callers serialize access;
// the engine does not have to be safe for concurrent configuration.
//
//go:generate mockgen -source=test_engine.go -destination=mocks/mock_test_engine.go -package=mocks
type TestEngine interface {
	// Reset drops all previously registered files.
	Reset()
	// SetBail sets the stop-on-first-failure policy.
	SetBail(bail bool)
	// SetFilter sets the pattern test names must match.
	SetFilter(filter *regexp.Regexp)
	// SetSlow sets the threshold above which a file is reported as slow.
	SetSlow(slow time.Duration)
	// AddFile registers one file for the next run.
	AddFile(path string)
	// Config returns a snapshot of the current run configuration.
	Config() domain.RunConfig
	// Run executes the registered files and blocks until they finish.
	Run(ctx context.Context) (*domain.RunReport, error)
}
