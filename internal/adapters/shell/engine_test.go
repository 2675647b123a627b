package shell_test

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lucifer/internal/adapters/shell"
	"go.trai.ch/lucifer/internal/adapters/telemetry"
	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newEngine(t *testing.T, command []string, timeout time.Duration) (*shell.Engine, *mocks.MockExecutor) {
	t.Helper()
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	engine := shell.NewEngine(executor, telemetry.NewNoOpTracer(), logger, "/srv", domain.EngineConfig{
		Command:     command,
		Timeout:     timeout,
		Environment: map[string]string{"NODE_ENV": "test"},
	})
	return engine, executor
}

func TestEngine_Configuration(t *testing.T) {
	engine, _ := newEngine(t, domain.DefaultEngineCommand(), time.Second)

	cfg := engine.Config()
	assert.Same(t, domain.MatchAll, cfg.Filter)
	assert.Equal(t, domain.DefaultSlow, cfg.Slow)
	assert.Empty(t, cfg.Files)

	filter := regexp.MustCompile("users")
	engine.SetBail(true)
	engine.SetFilter(filter)
	engine.SetSlow(time.Second)
	engine.AddFile("/srv/a_test.go")
	engine.AddFile("/srv/b_test.go")

	cfg = engine.Config()
	assert.True(t, cfg.Bail)
	assert.Same(t, filter, cfg.Filter)
	assert.Equal(t, time.Second, cfg.Slow)
	assert.Equal(t, []string{"/srv/a_test.go", "/srv/b_test.go"}, cfg.Files)

	cfg.Files[0] = "mutated"
	assert.Equal(t, "/srv/a_test.go", engine.Config().Files[0])

	engine.Reset()
	assert.Empty(t, engine.Config().Files)

	engine.SetFilter(nil)
	assert.Same(t, domain.MatchAll, engine.Config().Filter)
}

func TestEngine_Run_ExpandsPlaceholders(t *testing.T) {
	engine, executor := newEngine(t, []string{"runner", "-run", "{grep}", "{dir}", "{file}", "{rel}"}, time.Second)
	engine.SetFilter(regexp.MustCompile("Users"))
	engine.AddFile("/srv/lib/users_test.go")
	engine.AddFile("/srv/main_test.go")

	env := map[string]string{"NODE_ENV": "test"}
	gomock.InOrder(
		executor.EXPECT().Execute(gomock.Any(),
			[]string{"runner", "-run", "Users", "./lib", "/srv/lib/users_test.go", "lib/users_test.go"},
			"/srv", env, gomock.Any()).Return(nil),
		executor.EXPECT().Execute(gomock.Any(),
			[]string{"runner", "-run", "Users", ".", "/srv/main_test.go", "main_test.go"},
			"/srv", env, gomock.Any()).Return(nil),
	)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, []string{"/srv/lib/users_test.go", "/srv/main_test.go"}, report.Passed)
	assert.Len(t, report.Results, 2)
	assert.False(t, report.Bailed)
}

func TestEngine_Run_OutputReachesWriter(t *testing.T) {
	engine, executor := newEngine(t, []string{"runner", "{file}"}, time.Second)
	engine.AddFile("/srv/a_test.go")

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ []string, _ string, _ map[string]string, out io.Writer) error {
			_, err := io.WriteString(out, "PASS\n")
			return err
		},
	)

	_, err := engine.Run(context.Background())
	require.NoError(t, err)
}

func TestEngine_Run_FailureWithoutBail(t *testing.T) {
	engine, executor := newEngine(t, []string{"runner", "{file}"}, time.Second)
	engine.AddFile("/srv/a_test.go")
	engine.AddFile("/srv/b_test.go")

	gomock.InOrder(
		executor.EXPECT().Execute(gomock.Any(), []string{"runner", "/srv/a_test.go"}, gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("exit status 1")),
		executor.EXPECT().Execute(gomock.Any(), []string{"runner", "/srv/b_test.go"}, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"/srv/a_test.go"}, report.Failed)
	assert.Equal(t, []string{"/srv/b_test.go"}, report.Passed)
	assert.Empty(t, report.Skipped)
	require.Error(t, report.Results[0].Err)
	assert.Contains(t, report.Results[0].Error, "test file failed")
}

func TestEngine_Run_Bail(t *testing.T) {
	engine, executor := newEngine(t, []string{"runner", "{file}"}, time.Second)
	engine.SetBail(true)
	engine.AddFile("/srv/a_test.go")
	engine.AddFile("/srv/b_test.go")
	engine.AddFile("/srv/c_test.go")

	executor.EXPECT().Execute(gomock.Any(), []string{"runner", "/srv/a_test.go"}, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().Execute(gomock.Any(), []string{"runner", "/srv/b_test.go"}, gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("exit status 1"))

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Bailed)
	assert.Equal(t, []string{"/srv/a_test.go"}, report.Passed)
	assert.Equal(t, []string{"/srv/b_test.go"}, report.Failed)
	assert.Equal(t, []string{"/srv/c_test.go"}, report.Skipped)
}

func TestEngine_Run_Slow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine, executor := newEngine(t, []string{"runner", "{file}"}, time.Second)
		engine.SetSlow(75 * time.Millisecond)
		engine.AddFile("/srv/fast_test.go")
		engine.AddFile("/srv/slow_test.go")

		executor.EXPECT().Execute(gomock.Any(), []string{"runner", "/srv/fast_test.go"}, gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, []string, string, map[string]string, io.Writer) error {
				time.Sleep(10 * time.Millisecond)
				return nil
			},
		)
		executor.EXPECT().Execute(gomock.Any(), []string{"runner", "/srv/slow_test.go"}, gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, []string, string, map[string]string, io.Writer) error {
				time.Sleep(100 * time.Millisecond)
				return nil
			},
		)

		report, err := engine.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"/srv/slow_test.go"}, report.Slow)
		assert.Equal(t, 110*time.Millisecond, report.Duration)
	})
}

func TestEngine_Run_Timeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine, executor := newEngine(t, []string{"runner", "{file}"}, 50*time.Millisecond)
		engine.AddFile("/srv/hang_test.go")

		executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ []string, _ string, _ map[string]string, _ io.Writer) error {
				<-ctx.Done()
				return ctx.Err()
			},
		)

		report, err := engine.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"/srv/hang_test.go"}, report.Failed)
		assert.Equal(t, 50*time.Millisecond, report.Results[0].Duration)
	})
}

func TestEngine_Run_CanceledContext(t *testing.T) {
	engine, executor := newEngine(t, []string{"runner", "{file}"}, time.Second)
	engine.AddFile("/srv/a_test.go")
	engine.AddFile("/srv/b_test.go")

	ctx, cancel := context.WithCancel(context.Background())
	executor.EXPECT().Execute(gomock.Any(), []string{"runner", "/srv/a_test.go"}, gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, []string, string, map[string]string, io.Writer) error {
			cancel()
			return nil
		},
	)

	report, err := engine.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"/srv/a_test.go"}, report.Passed)
	assert.Equal(t, []string{"/srv/b_test.go"}, report.Skipped)
}

func TestEngine_Run_EmptyCommand(t *testing.T) {
	engine, _ := newEngine(t, nil, time.Second)
	engine.AddFile("/srv/a_test.go")

	_, err := engine.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrEngineCommandMissing)
}

func TestEngine_Run_NoFiles(t *testing.T) {
	engine, _ := newEngine(t, []string{"runner"}, time.Second)

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Empty(t, report.Results)
}
