// Package runner invalidates cached modules and dispatches test runs.
package runner

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/zerr"
)

// ModuleCache is the part of the module cache the Runner needs.
type ModuleCache interface {
	Load(ctx context.Context, path string) domain.LoadResult
}

// Runner owns the single run configuration of the process.
//
// Configuration and dispatch are serialized by one mutex. Only one run
// executes at a time; a run requested while another is executing fails
// with domain.ErrRunInProgress.
type Runner struct {
	resolver   ports.PathResolver
	classifier ports.TestFileClassifier
	cache      ModuleCache
	engine     ports.TestEngine
	history    ports.RunHistory
	logger     ports.Logger

	slow    time.Duration
	baseCtx context.Context //nolint:containedctx // Runs outlive the request that started them
	now     func() time.Time

	mu      sync.Mutex
	running bool
	state   atomic.Int32
	wg      sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithSlow sets the slow threshold applied to every run.
func WithSlow(d time.Duration) Option {
	return func(r *Runner) {
		r.slow = d
	}
}

// WithContext sets the context runs execute under.
// Runs stop when it is canceled. It defaults to context.Background.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) {
		r.baseCtx = ctx
	}
}

// WithClock overrides the time source used for run records.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New creates a new Runner.
func New(
	resolver ports.PathResolver,
	classifier ports.TestFileClassifier,
	cache ModuleCache,
	engine ports.TestEngine,
	history ports.RunHistory,
	logger ports.Logger,
	opts ...Option,
) *Runner {
	r := &Runner{
		resolver:   resolver,
		classifier: classifier,
		cache:      cache,
		engine:     engine,
		history:    history,
		logger:     logger,
		slow:       domain.DefaultSlow,
		baseCtx:    context.Background(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Invalidate reloads every listed file that is neither the server itself
// nor a test file. Failures are reported as diagnostics and never stop the batch.
func (r *Runner) Invalidate(ctx context.Context, files []string) []domain.Diagnostic {
	diags := make([]domain.Diagnostic, 0, len(files))

	for _, file := range files {
		abs := r.resolve(file)
		d := domain.Diagnostic{File: file, Path: abs}

		switch {
		case r.resolver.IsSelf(abs):
			d.Kind = domain.DiagSkippedSelf
		case r.classifier.IsTestFile(abs):
			d.Kind = domain.DiagSkippedTestFile
		default:
			res := r.cache.Load(ctx, abs)
			if res.OK() {
				d.Kind = domain.DiagReloaded
			} else {
				d.Kind = domain.DiagLoadFailed
				d.Err = res.Err
			}
		}

		r.report(d)
		diags = append(diags, d)
	}

	return diags
}

// StartRun configures the engine for req and starts the run in the background.
// It returns once the run has started, not when it finishes.
func (r *Runner) StartRun(ctx context.Context, req domain.RunRequest) (rec domain.RunRecord, diags []domain.Diagnostic, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return domain.RunRecord{}, nil, domain.ErrRunInProgress
	}

	filter := domain.MatchAll
	if req.Grep != "" {
		filter, err = regexp.Compile(req.Grep)
		if err != nil {
			r.logger.Warn(fmt.Sprintf("lucifer: invalid grep %q: %v", req.Grep, err))
			return domain.RunRecord{}, nil, domain.ErrInvalidGrep
		}
	}

	defer zerr.Defer(func(perr error) {
		r.state.Store(int32(StateIdle))
		r.logger.Error(zerr.Wrap(perr, "test run configuration failed"))
		rec, diags, err = domain.RunRecord{}, nil, domain.ErrInternal
	})

	r.state.Store(int32(StateConfiguring))
	files, diags := r.configure(ctx, req, filter)

	r.state.Store(int32(StateDispatched))
	rec = domain.RunRecord{
		ID:       r.history.NewID(),
		State:    domain.RunStateQueued,
		Files:    files,
		Bail:     req.Bail,
		Grep:     req.Grep,
		QueuedAt: r.now(),
	}
	r.history.Put(rec)

	r.running = true
	started := make(chan struct{})
	r.wg.Add(1)
	go r.execute(rec.ID, started)
	<-started

	r.state.Store(int32(StateIdle))
	return rec, diags, nil
}

// configure resets the engine and registers the test files of req.
// It returns the request paths that were registered.
func (r *Runner) configure(ctx context.Context, req domain.RunRequest, filter *regexp.Regexp) ([]string, []domain.Diagnostic) {
	r.engine.Reset()
	r.engine.SetBail(req.Bail)
	r.engine.SetFilter(filter)

	files := make([]string, 0, len(req.Files))
	diags := make([]domain.Diagnostic, 0, len(req.Files))

	for _, file := range req.Files {
		abs := r.resolve(file)

		if !r.classifier.IsTestFile(abs) {
			d := domain.Diagnostic{File: file, Path: abs, Kind: domain.DiagSkippedNotTestFile}
			r.report(d)
			diags = append(diags, d)
			continue
		}

		// A file that fails to load is still registered; the engine reports it when it runs.
		if res := r.cache.Load(ctx, abs); !res.OK() {
			d := domain.Diagnostic{File: file, Path: abs, Kind: domain.DiagLoadFailed, Err: res.Err}
			r.report(d)
			diags = append(diags, d)
		}

		r.engine.AddFile(abs)
		files = append(files, file)
		diags = append(diags, domain.Diagnostic{File: file, Path: abs, Kind: domain.DiagRegistered})
	}

	r.engine.SetSlow(r.slow)
	return files, diags
}

func (r *Runner) execute(id string, started chan<- struct{}) {
	defer r.wg.Done()

	r.history.Update(id, func(rec *domain.RunRecord) {
		rec.State = domain.RunStateRunning
		now := r.now()
		rec.StartedAt = &now
	})
	close(started)

	report, err := r.runEngine(r.baseCtx)
	if err == nil && report == nil {
		report = &domain.RunReport{}
	}

	r.history.Update(id, func(rec *domain.RunRecord) {
		now := r.now()
		rec.FinishedAt = &now
		rec.Report = report
		rec.State = domain.RunStatePassed
		if err != nil || !report.OK() {
			rec.State = domain.RunStateFailed
		}
		if err != nil {
			rec.Error = err.Error()
		}
	})

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	switch {
	case err != nil:
		r.logger.Error(zerr.With(zerr.Wrap(err, "test run failed"), "run_id", id))
	case report.OK():
		r.logger.Info(fmt.Sprintf("lucifer: run %s passed (%d files)", id, len(report.Passed)))
	default:
		r.logger.Warn(fmt.Sprintf("lucifer: run %s failed (%d passed, %d failed)", id, len(report.Passed), len(report.Failed)))
	}
}

func (r *Runner) runEngine(ctx context.Context) (report *domain.RunReport, err error) {
	defer zerr.Defer(func(perr error) {
		report, err = nil, perr
	})
	return r.engine.Run(ctx)
}

func (r *Runner) resolve(file string) string {
	abs := r.resolver.Resolve(file)
	if !r.resolver.Contains(abs) {
		r.logger.Warn(fmt.Sprintf("lucifer: %s resolves outside %s", file, r.resolver.Root()))
	}
	return abs
}

func (r *Runner) report(d domain.Diagnostic) {
	switch d.Kind {
	case domain.DiagLoadFailed, domain.DiagSkippedNotTestFile:
		r.logger.Warn(d.Message())
	default:
		r.logger.Info(d.Message())
	}
}

// Wait blocks until the run in flight, if any, has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Running reports whether a run is executing.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.running
}

// State returns the current configuration state.
func (r *Runner) State() State {
	return State(r.state.Load())
}
