// Package config loads the server configuration from lucifer.yaml, a .env
// file and LUCIFER_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the configuration file.
const (
	EnvPort      = "LUCIFER_PORT"
	EnvDirectory = "LUCIFER_DIRECTORY"
	EnvSlow      = "LUCIFER_SLOW"
	EnvWatch     = "LUCIFER_WATCH"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader merges defaults, the configuration file and the environment.
// The result is not validated; callers apply their own overrides first.
type Loader struct {
	logger  ports.Logger
	envFile string
	lookup  func(string) (string, bool)
}

// NewLoader creates a Loader that reads .env from the working directory.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		logger:  logger,
		envFile: domain.EnvFileName,
		lookup:  os.LookupEnv,
	}
}

// WithEnvFile sets the dotenv file read before the environment overrides.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load returns the merged configuration. An empty path reads lucifer.yaml
// from the working directory if it exists; an explicit path must exist.
func (l *Loader) Load(path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = domain.ConfigFileName
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path is provided by the user
	switch {
	case err == nil:
		if err := applyFile(cfg, data, filepath.Dir(path)); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, l.lookup); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	if _, err := os.Stat(l.envFile); err != nil {
		return nil //nolint:nilerr // A missing .env file is not an error
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(l.envFile); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", l.envFile)
	}
	if l.logger != nil {
		l.logger.Info(fmt.Sprintf("lucifer: loaded environment from %s", l.envFile))
	}
	return nil
}

func applyFile(cfg *domain.Config, data []byte, baseDir string) error {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	if file.Port != nil {
		cfg.Port = *file.Port
	}
	if file.Directory != "" {
		cfg.Directory = file.Directory
		if !filepath.IsAbs(cfg.Directory) {
			cfg.Directory = filepath.Join(baseDir, cfg.Directory)
		}
	} else {
		cfg.Directory = baseDir
	}
	if len(file.Self) > 0 {
		cfg.Self = file.Self
	}
	if file.Watch != nil {
		cfg.Watch = *file.Watch
	}
	if file.HistorySize != nil {
		cfg.HistorySize = *file.HistorySize
	}
	if len(file.TestPatterns) > 0 {
		cfg.TestPatterns = file.TestPatterns
	}
	if len(file.Setup) > 0 {
		cfg.Setup = file.Setup
	}

	var err error
	if cfg.Slow, err = parseDuration("slow", file.Slow, cfg.Slow); err != nil {
		return err
	}
	if cfg.IdleTimeout, err = parseDuration("idle_timeout", file.IdleTimeout, cfg.IdleTimeout); err != nil {
		return err
	}

	if file.Engine != nil {
		if len(file.Engine.Command) > 0 {
			cfg.Engine.Command = file.Engine.Command
		}
		if cfg.Engine.Timeout, err = parseDuration("engine.timeout", file.Engine.Timeout, cfg.Engine.Timeout); err != nil {
			return err
		}
		if len(file.Engine.Environment) > 0 {
			cfg.Engine.Environment = maps.Clone(file.Engine.Environment)
		}
	}

	return nil
}

func applyEnv(cfg *domain.Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "env", EnvPort)
		}
		cfg.Port = port
	}
	if v, ok := lookup(EnvDirectory); ok && v != "" {
		cfg.Directory = v
	}
	if v, ok := lookup(EnvSlow); ok && v != "" {
		slow, err := parseDuration(EnvSlow, v, cfg.Slow)
		if err != nil {
			return err
		}
		cfg.Slow = slow
	}
	if v, ok := lookup(EnvWatch); ok && v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "env", EnvWatch)
		}
		cfg.Watch = watch
	}
	return nil
}

// parseDuration accepts Go duration strings and bare integers as milliseconds.
func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "key", key)
	}
	return d, nil
}
