package runner_test

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports/mocks"
	"go.trai.ch/lucifer/internal/engine/modcache"
	"go.trai.ch/lucifer/internal/engine/runner"
	"go.uber.org/mock/gomock"
)

const testRoot = "/srv/app"

// fakeEngine keeps its configuration like a real engine and blocks in Run
// until released when a release channel is set.
type fakeEngine struct {
	mu      sync.Mutex
	cfg     domain.RunConfig
	resets  int
	runs    []domain.RunConfig
	release chan struct{}
	started chan struct{}
	report  *domain.RunReport
	err     error
	panics  bool
}

func (e *fakeEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resets++
	e.cfg.Files = nil
}

func (e *fakeEngine) SetBail(bail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Bail = bail
}

func (e *fakeEngine) SetFilter(filter *regexp.Regexp) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Filter = filter
}

func (e *fakeEngine) SetSlow(slow time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Slow = slow
}

func (e *fakeEngine) AddFile(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Files = append(e.cfg.Files, path)
}

func (e *fakeEngine) Config() domain.RunConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Clone()
}

func (e *fakeEngine) Run(ctx context.Context) (*domain.RunReport, error) {
	e.mu.Lock()
	cfg := e.cfg.Clone()
	e.runs = append(e.runs, cfg)
	release, started := e.release, e.started
	e.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if e.panics {
		panic("engine exploded")
	}
	if e.err != nil {
		return nil, e.err
	}
	if e.report != nil {
		return e.report, nil
	}
	return &domain.RunReport{Passed: cfg.Files}, nil
}

func (e *fakeEngine) Runs() []domain.RunConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.RunConfig(nil), e.runs...)
}

// memHistory is an unbounded in-memory RunHistory.
type memHistory struct {
	mu      sync.Mutex
	next    int
	records map[string]domain.RunRecord
	latest  string
}

func newMemHistory() *memHistory {
	return &memHistory{records: make(map[string]domain.RunRecord)}
}

func (h *memHistory) NewID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	return fmt.Sprintf("run-%d", h.next)
}

func (h *memHistory) Put(rec domain.RunRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records[rec.ID] = rec
	h.latest = rec.ID
}

func (h *memHistory) Get(id string) (domain.RunRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rec, ok := h.records[id]
	return rec, ok
}

func (h *memHistory) Update(id string, fn func(*domain.RunRecord)) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	rec, ok := h.records[id]
	if !ok {
		return false
	}
	fn(&rec)
	h.records[id] = rec
	return true
}

func (h *memHistory) Latest() (domain.RunRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rec, ok := h.records[h.latest]
	return rec, ok
}

type fixture struct {
	loader  *mocks.MockModuleLoader
	engine  *fakeEngine
	history *memHistory
	cache   *modcache.Cache
	runner  *runner.Runner
	isTest  func(string) bool
}

// newFixture wires a Runner rooted at testRoot. Files ending in .test.js are
// test files and anything below server/ belongs to the server itself.
func newFixture(t *testing.T, opts ...runner.Option) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader:  mocks.NewMockModuleLoader(ctrl),
		engine:  &fakeEngine{},
		history: newMemHistory(),
		isTest: func(abs string) bool {
			return strings.HasSuffix(abs, ".test.js")
		},
	}

	resolver := mocks.NewMockPathResolver(ctrl)
	resolver.EXPECT().Root().Return(testRoot).AnyTimes()
	resolver.EXPECT().Resolve(gomock.Any()).DoAndReturn(func(rel string) string {
		return filepath.Join(testRoot, rel)
	}).AnyTimes()
	resolver.EXPECT().Contains(gomock.Any()).DoAndReturn(func(abs string) bool {
		return strings.HasPrefix(abs, testRoot+"/")
	}).AnyTimes()
	resolver.EXPECT().IsSelf(gomock.Any()).DoAndReturn(func(abs string) bool {
		return strings.Contains(abs, filepath.Join(testRoot, "server"))
	}).AnyTimes()

	classifier := mocks.NewMockTestFileClassifier(ctrl)
	classifier.EXPECT().IsTestFile(gomock.Any()).DoAndReturn(func(abs string) bool {
		return f.isTest(abs)
	}).AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	f.cache = modcache.New(f.loader)
	f.runner = runner.New(resolver, classifier, f.cache, f.engine, f.history, logger, opts...)
	t.Cleanup(f.runner.Wait)
	return f
}

func (f *fixture) loadsOK() {
	f.loader.EXPECT().Load(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, path string) (*domain.Module, error) {
			return &domain.Module{Path: path}, nil
		},
	).AnyTimes()
}

func abs(rel string) string {
	return filepath.Join(testRoot, rel)
}
