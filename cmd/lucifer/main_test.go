package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lucifer/internal/app"
	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type appMocks struct {
	loader  *mocks.MockConfigLoader
	logger  *mocks.MockLogger
	watcher *mocks.MockWatcher
	app     *app.App
}

func newApp(t *testing.T) *appMocks {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &appMocks{
		loader:  mocks.NewMockConfigLoader(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		watcher: mocks.NewMockWatcher(ctrl),
	}
	m.app = app.New(
		m.loader,
		mocks.NewMockExecutor(ctrl),
		m.logger,
		mocks.NewMockModuleLoader(ctrl),
		m.watcher,
	)
	return m
}

func (m *appMocks) provider(_ context.Context) (*app.Components, func(), error) {
	return &app.Components{App: m.app, Logger: m.logger}, func() {}, nil
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	m := newApp(t)

	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), m.provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when serve fails.
func TestRun_ExecutionError(t *testing.T) {
	m := newApp(t)
	m.loader.EXPECT().Load("").Return(nil, domain.ErrConfigParseFailed)
	m.logger.EXPECT().Error(gomock.Any())

	exitCode := run(context.Background(), []string{"serve"}, new(bytes.Buffer), m.provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_Signal verifies that canceling the context stops the server cleanly.
func TestRun_Signal(t *testing.T) {
	m := newApp(t)
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	cfg := domain.DefaultConfig()
	cfg.Directory = t.TempDir()
	m.loader.EXPECT().Load("").Return(cfg, nil)
	m.watcher.EXPECT().Stop().Return(nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ready := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int, 1)

	go func() {
		errCh <- run(ctx, []string{"serve"}, new(bytes.Buffer), m.provider, func(a *app.App) {
			a.WithListener(ln).WithReady(func(net.Addr) { close(ready) })
		})
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	cancel()

	select {
	case ret := <-errCh:
		assert.Equal(t, 0, ret)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}
