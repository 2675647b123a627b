package domain

import (
	"os"
	"time"

	"go.trai.ch/zerr"
)

// Config is the resolved server configuration.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int
	// Directory is the root every requested file is resolved against.
	Directory string
	// Self lists extra paths the server must never evict or reload.
	Self []string
	// Slow is the threshold above which a test file is reported as slow.
	Slow time.Duration
	// Watch enables invalidation from file system events.
	Watch bool
	// IdleTimeout stops the server after a period without requests. Zero disables it.
	IdleTimeout time.Duration
	// HistorySize is the number of run records kept in memory.
	HistorySize int
	// TestPatterns are the doublestar patterns that classify test files.
	TestPatterns []string
	// Setup is an optional command run once before the server starts listening.
	Setup []string
	// Engine configures the test engine.
	Engine EngineConfig
}

// EngineConfig configures how test files are executed.
type EngineConfig struct {
	// Command is run once per test file. Placeholders: {file}, {rel}, {dir}, {grep}.
	Command []string
	// Timeout bounds the execution of a single file.
	Timeout time.Duration
	// Environment is merged into the command environment.
	Environment map[string]string
}

// DefaultConfig returns the configuration used when no file or override is present.
func DefaultConfig() *Config {
	return &Config{
		Port:         DefaultPort,
		Directory:    ".",
		Slow:         DefaultSlow,
		HistorySize:  DefaultHistorySize,
		TestPatterns: DefaultTestPatterns(),
		Engine: EngineConfig{
			Command: DefaultEngineCommand(),
			Timeout: DefaultFileTimeout,
		},
	}
}

// Validate checks the invariants the server relies on.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return zerr.With(ErrConfigInvalid, "port", c.Port)
	}

	info, err := os.Stat(c.Directory)
	if err != nil {
		return zerr.With(zerr.Wrap(err, ErrConfigInvalid.Error()), "directory", c.Directory)
	}
	if !info.IsDir() {
		return zerr.With(zerr.Wrap(zerr.New("not a directory"), ErrConfigInvalid.Error()), "directory", c.Directory)
	}

	if len(c.Engine.Command) == 0 {
		return zerr.Wrap(ErrEngineCommandMissing, ErrConfigInvalid.Error())
	}
	if c.Slow < 0 {
		return zerr.With(ErrConfigInvalid, "slow", c.Slow.String())
	}
	if c.Engine.Timeout < 0 {
		return zerr.With(ErrConfigInvalid, "engine.timeout", c.Engine.Timeout.String())
	}
	if c.IdleTimeout < 0 {
		return zerr.With(ErrConfigInvalid, "idle_timeout", c.IdleTimeout.String())
	}
	if c.HistorySize < 1 {
		return zerr.With(ErrConfigInvalid, "history_size", c.HistorySize)
	}
	return nil
}
