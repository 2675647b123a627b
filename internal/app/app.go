// Package app implements the application layer for lucifer.
package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"go.trai.ch/lucifer/internal/adapters/classifier" //nolint:depguard // Wired in app layer
	"go.trai.ch/lucifer/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"go.trai.ch/lucifer/internal/adapters/history"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lucifer/internal/adapters/httpapi"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lucifer/internal/adapters/shell"      //nolint:depguard // Wired in app layer
	"go.trai.ch/lucifer/internal/adapters/telemetry"  //nolint:depguard // Wired in app layer
	"go.trai.ch/lucifer/internal/adapters/watcher"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lucifer/internal/build"
	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/lucifer/internal/engine/modcache"
	"go.trai.ch/lucifer/internal/engine/runner"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	moduleLoader ports.ModuleLoader
	watcher      ports.Watcher

	listener net.Listener
	ready    func(addr net.Addr)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	moduleLoader ports.ModuleLoader,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		moduleLoader: moduleLoader,
		watcher:      w,
	}
}

// WithListener makes Serve accept connections on ln instead of the
// configured port. This is primarily used for testing.
func (a *App) WithListener(ln net.Listener) *App {
	a.listener = ln
	return a
}

// WithReady registers a callback invoked once the server accepts connections.
func (a *App) WithReady(fn func(addr net.Addr)) *App {
	a.ready = fn
	return a
}

// ServeOptions are command line overrides applied on top of the loaded
// configuration. Zero values leave the configuration unchanged.
type ServeOptions struct {
	ConfigPath string
	Directory  string
	Port       int
	Watch      bool
	JSONLogs   bool
}

// server holds the components built for one Serve call.
type server struct {
	resolver  *fs.Resolver
	cache     *modcache.Cache
	history   *history.Store
	runner    *runner.Runner
	lifecycle *httpapi.Lifecycle
}

// Serve loads the configuration, runs the setup command and serves the HTTP
// API until ctx is canceled or the idle timeout fires.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	if opts.JSONLogs {
		if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
			l.SetJSON(true)
		}
	}

	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Spans of runs and files are reported through the logger.
	shutdownTracing := telemetry.Setup(telemetry.NewBridge(a.logger))
	defer func() {
		_ = shutdownTracing(context.WithoutCancel(ctx))
	}()

	srv, err := a.build(ctx, cfg)
	if err != nil {
		return err
	}
	defer srv.runner.Wait()

	if err := a.setup(ctx, cfg); err != nil {
		return err
	}

	ln := a.listener
	if ln == nil {
		ln, err = net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "port", cfg.Port)
		}
	}

	handler := httpapi.NewHandler(srv.runner, srv.history, a.logger,
		httpapi.WithVersion(build.Version),
		httpapi.WithLifecycle(srv.lifecycle),
		httpapi.WithStatus(srv.status),
	)
	httpServer := httpapi.NewServer(handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Serve(ln)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer done()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if srv.lifecycle.Wait(gctx) {
			a.logger.Info(fmt.Sprintf("lucifer: idle for %s, shutting down", cfg.IdleTimeout))
			cancel()
		}
		return nil
	})

	if cfg.Watch {
		g.Go(func() error {
			return watcher.Feed(gctx, a.watcher, srv.resolver.Root(), domain.DefaultDebounceWindow, a.logger,
				func(ctx context.Context, files []string) {
					srv.runner.Invalidate(ctx, files)
				})
		})
	} else if a.watcher != nil {
		_ = a.watcher.Stop()
	}

	a.logger.Info(fmt.Sprintf("lucifer: listening on %s, serving %s", ln.Addr(), srv.resolver.Root()))
	if a.ready != nil {
		a.ready(ln.Addr())
	}

	return g.Wait()
}

// loadConfig merges the configuration file, the environment and opts, then
// validates the result.
func (a *App) loadConfig(opts ServeOptions) (*domain.Config, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Directory != "" {
		cfg.Directory = opts.Directory
	}
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}
	if opts.Watch {
		cfg.Watch = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *App) build(ctx context.Context, cfg *domain.Config) (*server, error) {
	self := append([]string(nil), cfg.Self...)
	if exe, err := os.Executable(); err == nil {
		self = append(self, exe)
	}

	resolver, err := fs.NewResolver(cfg.Directory, self...)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigInvalid.Error())
	}

	glob, err := classifier.NewGlob(resolver.Root(), cfg.TestPatterns)
	if err != nil {
		return nil, err
	}

	store, err := history.New(cfg.HistorySize)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigInvalid.Error())
	}

	cache := modcache.New(a.moduleLoader)
	tracer := telemetry.NewOTelTracer(domain.ServerName)
	engine := shell.NewEngine(a.executor, tracer, a.logger, resolver.Root(), cfg.Engine)

	run := runner.New(resolver, glob, cache, engine, store, a.logger,
		runner.WithContext(ctx),
		runner.WithSlow(cfg.Slow),
	)

	return &server{
		resolver:  resolver,
		cache:     cache,
		history:   store,
		runner:    run,
		lifecycle: httpapi.NewLifecycle(cfg.IdleTimeout),
	}, nil
}

// setup runs the configured setup command once in the server root.
func (a *App) setup(ctx context.Context, cfg *domain.Config) error {
	if len(cfg.Setup) == 0 {
		return nil
	}

	a.logger.Info("lucifer: initializing test environment")
	out := shell.NewLogWriter(a.logger, "  ")
	err := a.executor.Execute(ctx, cfg.Setup, cfg.Directory, cfg.Engine.Environment, out)
	_ = out.Close()
	if err != nil {
		return zerr.Wrap(err, domain.ErrSetupFailed.Error())
	}
	return nil
}

func (s *server) status() httpapi.Status {
	st := httpapi.Status{
		Version:       build.Version,
		Uptime:        s.lifecycle.Uptime().Round(time.Second).String(),
		CachedModules: s.cache.Len(),
		Runner:        s.runner.State().String(),
		Running:       s.runner.Running(),
	}
	if remaining, ok := s.lifecycle.Remaining(); ok {
		st.IdleRemaining = remaining.Round(time.Second).String()
	}
	if rec, ok := s.history.Latest(); ok {
		st.LatestRun = rec.ID
	}
	return st
}
