package ports

import "go.trai.ch/lucifer/internal/core/domain"

// RunHistory keeps records of dispatched test runs.
//
//go:generate mockgen -source=history.go -destination=mocks/mock_history.go -package=mocks
type RunHistory interface {
	// NewID returns a fresh, sortable run identifier.
	NewID() string
	// Put stores or replaces a record.
	Put(record domain.RunRecord)
	// Get returns a copy of the record with the given ID.
	Get(id string) (domain.RunRecord, bool)
	// Update applies fn to the stored record. It reports whether the record exists.
	Update(id string, fn func(*domain.RunRecord)) bool
	// Latest returns the most recently queued record.
	Latest() (domain.RunRecord, bool)
}
