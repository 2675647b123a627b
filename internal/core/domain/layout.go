package domain

import "time"

const (
	// ServerName is the product name reported in the Server header.
	ServerName = "lucifer"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "lucifer.yaml"

	// EnvFileName is the dotenv file read on startup.
	EnvFileName = ".env"

	// ProblemType is the type URI of every problem document the server returns.
	ProblemType = "https://github.com/kevinburke/lucifer"

	// DefaultPort is the port the server listens on.
	DefaultPort = 11666

	// DefaultServerURL is the address the client commands talk to.
	DefaultServerURL = "http://127.0.0.1:11666"

	// ClientTimeout bounds a single client request.
	ClientTimeout = 5 * time.Second

	// ClientAgentPrefix is prepended to the version in the client User-Agent.
	ClientAgentPrefix = "lucifer-client/"

	// ClientPollInterval is how often an awaited test run is polled.
	ClientPollInterval = 200 * time.Millisecond

	// DefaultSlow is the duration above which a test file is reported as slow.
	DefaultSlow = 75 * time.Millisecond

	// DefaultFileTimeout bounds the execution of a single test file.
	DefaultFileTimeout = 15 * time.Second

	// DefaultHistorySize is the number of run records kept in memory.
	DefaultHistorySize = 64

	// DefaultDebounceWindow is the time window for coalescing watch events.
	DefaultDebounceWindow = 50 * time.Millisecond

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultTestPatterns are the doublestar patterns that identify test files.
func DefaultTestPatterns() []string {
	return []string{
		"**/*_test.go",
		"**/*.test.js",
		"**/*.spec.js",
		"**/test/**/*.js",
	}
}

// DefaultEngineCommand runs a Go test file's package, filtered by the grep pattern.
func DefaultEngineCommand() []string {
	return []string{"go", "test", "-count=1", "-run", "{grep}", "{dir}"}
}
