package domain

import "fmt"

// DiagnosticKind classifies what happened to one file of a batch.
type DiagnosticKind string

const (
	// DiagReloaded means the file was evicted and loaded again from disk.
	DiagReloaded DiagnosticKind = "reloaded"
	// DiagLoadFailed means the file was evicted but could not be loaded.
	DiagLoadFailed DiagnosticKind = "load_failed"
	// DiagSkippedSelf means the file belongs to the running server.
	DiagSkippedSelf DiagnosticKind = "skipped_self"
	// DiagSkippedTestFile means a test file was left for the test-run path.
	DiagSkippedTestFile DiagnosticKind = "skipped_test_file"
	// DiagSkippedNotTestFile means a test run was asked to run a non-test file.
	DiagSkippedNotTestFile DiagnosticKind = "skipped_not_test_file"
	// DiagRegistered means the file was registered with the test engine.
	DiagRegistered DiagnosticKind = "registered"
)

// Diagnostic records the outcome for one requested file.
type Diagnostic struct {
	// File is the path as the caller sent it.
	File string
	// Path is the resolved absolute path.
	Path string
	Kind DiagnosticKind
	Err  error
}

// Message renders the diagnostic as a single log line.
func (d Diagnostic) Message() string {
	switch d.Kind {
	case DiagReloaded:
		return fmt.Sprintf("lucifer: reloaded %s from disk", d.File)
	case DiagLoadFailed:
		return fmt.Sprintf("lucifer: could not load %s: %v", d.File, d.Err)
	case DiagSkippedSelf:
		return "lucifer: not reloading lucifer server from disk!"
	case DiagSkippedTestFile:
		return fmt.Sprintf("lucifer: not invalidating %s yet, because it's a test file", d.Path)
	case DiagSkippedNotTestFile:
		return fmt.Sprintf("lucifer: not running file %s because it's not a test file", d.File)
	case DiagRegistered:
		return fmt.Sprintf("lucifer: registered %s", d.File)
	default:
		return fmt.Sprintf("lucifer: %s: %s", d.Kind, d.File)
	}
}

// CountKind returns how many diagnostics in diags have the given kind.
func CountKind(diags []Diagnostic, kind DiagnosticKind) int {
	n := 0
	for _, d := range diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
