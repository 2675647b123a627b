package domain

import (
	"regexp"
	"time"
)

// MatchAll is the filter applied when a run does not specify a grep pattern.
var MatchAll = regexp.MustCompile(".*")

// RunConfig is the configuration governing the next test execution.
type RunConfig struct {
	Files  []string
	Bail   bool
	Filter *regexp.Regexp
	Slow   time.Duration
}

// Clone returns a copy that shares no slices with c.
func (c RunConfig) Clone() RunConfig {
	files := make([]string, len(c.Files))
	copy(files, c.Files)
	c.Files = files
	return c
}

// RunRequest is a validated test-run request.
type RunRequest struct {
	// Files are relative to the server root.
	Files []string
	// Bail stops the run at the first failing file.
	Bail bool
	// Grep restricts which test names are eligible. Empty matches everything.
	Grep string
}

// RunState is the lifecycle state of a dispatched run.
type RunState string

const (
	// RunStateQueued means the run was accepted but has not started yet.
	RunStateQueued RunState = "queued"
	// RunStateRunning means the engine is executing the run.
	RunStateRunning RunState = "running"
	// RunStatePassed means every executed file passed.
	RunStatePassed RunState = "passed"
	// RunStateFailed means at least one file failed or the engine errored.
	RunStateFailed RunState = "failed"
)

// Done reports whether the state is terminal.
func (s RunState) Done() bool {
	return s == RunStatePassed || s == RunStateFailed
}

// RunRecord describes one dispatched test run.
type RunRecord struct {
	ID         string     `json:"id"`
	State      RunState   `json:"state"`
	Files      []string   `json:"files"`
	Bail       bool       `json:"bail"`
	Grep       string     `json:"grep,omitempty"`
	QueuedAt   time.Time  `json:"queued_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Report     *RunReport `json:"report,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// FileResult is the outcome of executing one test file.
type FileResult struct {
	Path     string        `json:"path"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// RunReport summarizes a completed run.
type RunReport struct {
	Passed   []string      `json:"passed"`
	Failed   []string      `json:"failed"`
	Skipped  []string      `json:"skipped,omitempty"`
	Slow     []string      `json:"slow,omitempty"`
	Results  []FileResult  `json:"results"`
	Duration time.Duration `json:"duration"`
	Bailed   bool          `json:"bailed"`
}

// OK reports whether no file failed.
func (r *RunReport) OK() bool {
	return r != nil && len(r.Failed) == 0
}
