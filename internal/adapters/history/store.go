// Package history keeps a bounded in-memory record of dispatched test runs.
package history

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oklog/ulid/v2"
	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RunHistory = (*Store)(nil)

// Store holds the most recent run records. Reads use Peek, so the oldest
// queued run is evicted first regardless of how often it is read.
type Store struct {
	mu      sync.Mutex
	records *lru.Cache[string, domain.RunRecord]
	latest  string
}

// New creates a Store holding at most size records.
func New(size int) (*Store, error) {
	if size <= 0 {
		size = domain.DefaultHistorySize
	}
	records, err := lru.New[string, domain.RunRecord](size)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create run history"), "size", size)
	}
	return &Store{records: records}, nil
}

// NewID returns a new ULID string. ULIDs sort by creation time.
func (s *Store) NewID() string {
	return ulid.Make().String()
}

// Put stores rec, replacing any record with the same ID.
func (s *Store) Put(rec domain.RunRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records.Add(rec.ID, cloneRecord(rec))
	s.latest = rec.ID
}

// Get returns a copy of the record with the given ID.
func (s *Store) Get(id string) (domain.RunRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records.Peek(id)
	if !ok {
		return domain.RunRecord{}, false
	}
	return cloneRecord(rec), true
}

// Update applies fn to the stored record under the store lock.
func (s *Store) Update(id string, fn func(*domain.RunRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records.Peek(id)
	if !ok {
		return false
	}
	rec = cloneRecord(rec)
	fn(&rec)
	rec.ID = id
	s.records.Add(id, rec)
	return true
}

// Latest returns the most recently stored record.
func (s *Store) Latest() (domain.RunRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == "" {
		return domain.RunRecord{}, false
	}
	rec, ok := s.records.Peek(s.latest)
	if !ok {
		return domain.RunRecord{}, false
	}
	return cloneRecord(rec), true
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return s.records.Len()
}

func cloneRecord(rec domain.RunRecord) domain.RunRecord {
	rec.Files = append([]string(nil), rec.Files...)
	if rec.StartedAt != nil {
		t := *rec.StartedAt
		rec.StartedAt = &t
	}
	if rec.FinishedAt != nil {
		t := *rec.FinishedAt
		rec.FinishedAt = &t
	}
	if rec.Report != nil {
		r := *rec.Report
		r.Passed = append([]string(nil), r.Passed...)
		r.Failed = append([]string(nil), r.Failed...)
		r.Skipped = append([]string(nil), r.Skipped...)
		r.Slow = append([]string(nil), r.Slow...)
		r.Results = append([]domain.FileResult(nil), r.Results...)
		rec.Report = &r
	}
	return rec
}
