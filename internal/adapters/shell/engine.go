package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TestEngine = (*Engine)(nil)

// Engine executes each registered test file with a configured command.
//
// The command may contain the placeholders {file} (absolute path), {rel}
// (path relative to the root), {dir} (package directory relative to the
// root, prefixed with ./) and {grep} (the filter pattern).
type Engine struct {
	executor ports.Executor
	tracer   ports.Tracer
	logger   ports.Logger
	root     string
	command  []string
	timeout  time.Duration
	env      map[string]string
	now      func() time.Time

	mu  sync.Mutex
	cfg domain.RunConfig
}

// NewEngine creates an Engine that runs commands in root.
func NewEngine(
	executor ports.Executor,
	tracer ports.Tracer,
	logger ports.Logger,
	root string,
	cfg domain.EngineConfig,
) *Engine {
	return &Engine{
		executor: executor,
		tracer:   tracer,
		logger:   logger,
		root:     root,
		command:  append([]string(nil), cfg.Command...),
		timeout:  cfg.Timeout,
		env:      cfg.Environment,
		now:      time.Now,
		cfg: domain.RunConfig{
			Filter: domain.MatchAll,
			Slow:   domain.DefaultSlow,
		},
	}
}

// Reset drops every registered file.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg.Files = nil
}

// SetBail sets the stop-on-first-failure policy.
func (e *Engine) SetBail(bail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg.Bail = bail
}

// SetFilter sets the test name filter. A nil filter matches everything.
func (e *Engine) SetFilter(filter *regexp.Regexp) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if filter == nil {
		filter = domain.MatchAll
	}
	e.cfg.Filter = filter
}

// SetSlow sets the slow threshold.
func (e *Engine) SetSlow(slow time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg.Slow = slow
}

// AddFile registers a file for the next run.
func (e *Engine) AddFile(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg.Files = append(e.cfg.Files, path)
}

// Config returns a snapshot of the run configuration.
func (e *Engine) Config() domain.RunConfig {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.cfg.Clone()
}

// Run executes the registered files in order and blocks until they finish.
func (e *Engine) Run(ctx context.Context) (*domain.RunReport, error) {
	if len(e.command) == 0 {
		return nil, domain.ErrEngineCommandMissing
	}

	cfg := e.Config()
	start := e.now()

	ctx, span := e.tracer.Start(ctx, "test run",
		ports.WithAttribute("files", len(cfg.Files)),
		ports.WithAttribute("bail", cfg.Bail),
		ports.WithAttribute("grep", cfg.Filter.String()),
	)
	defer span.End()

	e.tracer.EmitPlan(ctx, cfg.Files)

	report := &domain.RunReport{
		Passed: []string{},
		Failed: []string{},
	}

	var runErr error
	for i, file := range cfg.Files {
		if err := ctx.Err(); err != nil {
			report.Skipped = append(report.Skipped, cfg.Files[i:]...)
			runErr = err
			break
		}

		res := e.runFile(ctx, file, cfg)
		report.Results = append(report.Results, res)

		if res.Err != nil {
			report.Failed = append(report.Failed, file)
			e.logger.Error(res.Err)
		} else {
			report.Passed = append(report.Passed, file)
		}

		if cfg.Slow > 0 && res.Duration > cfg.Slow {
			report.Slow = append(report.Slow, file)
			e.logger.Warn(fmt.Sprintf("lucifer: %s is slow (%s)", e.rel(file), res.Duration.Round(time.Millisecond)))
		}

		if res.Err != nil && cfg.Bail {
			report.Bailed = true
			report.Skipped = append(report.Skipped, cfg.Files[i+1:]...)
			break
		}
	}

	report.Duration = e.now().Sub(start)

	switch {
	case runErr != nil:
		span.RecordError(runErr)
	case !report.OK():
		span.RecordError(zerr.With(domain.ErrTestFileFailed, "failed", len(report.Failed)))
	}

	return report, runErr
}

func (e *Engine) runFile(ctx context.Context, file string, cfg domain.RunConfig) domain.FileResult {
	rel := e.rel(file)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	ctx, span := e.tracer.Start(ctx, rel, ports.WithAttribute("file", file))
	defer span.End()

	lw := NewLogWriter(e.logger, "  ")
	out := io.MultiWriter(span, lw)

	start := e.now()
	err := e.executor.Execute(ctx, e.expand(file, rel, cfg.Filter), e.root, e.env, out)
	_ = lw.Close()
	res := domain.FileResult{Path: file, Duration: e.now().Sub(start)}

	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrTestFileFailed.Error()), "file", rel)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = zerr.With(err, "timeout", e.timeout.String())
		}
		span.RecordError(err)
		res.Err = err
		res.Error = err.Error()
	}

	return res
}

func (e *Engine) expand(file, rel string, filter *regexp.Regexp) []string {
	dir := filepath.Dir(file)
	if !filepath.IsAbs(rel) {
		dir = "."
		if d := filepath.Dir(rel); d != "." {
			dir = "./" + filepath.ToSlash(d)
		}
	}

	r := strings.NewReplacer(
		"{file}", file,
		"{rel}", rel,
		"{dir}", dir,
		"{grep}", filter.String(),
	)

	argv := make([]string, len(e.command))
	for i, arg := range e.command {
		argv[i] = r.Replace(arg)
	}
	return argv
}

func (e *Engine) rel(file string) string {
	rel, err := filepath.Rel(e.root, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return file
	}
	return rel
}
