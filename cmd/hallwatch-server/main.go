package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/yndnr/hallwatch-go/internal/backend"
	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/core/service"
	"github.com/yndnr/hallwatch-go/internal/infra/buildinfo"
	"github.com/yndnr/hallwatch-go/internal/infra/confloader"
	"github.com/yndnr/hallwatch-go/internal/infra/shutdown"
	"github.com/yndnr/hallwatch-go/internal/server/config"
	"github.com/yndnr/hallwatch-go/internal/server/httpserver"
	"github.com/yndnr/hallwatch-go/internal/server/httpserver/handler"
	"github.com/yndnr/hallwatch-go/internal/storage/memory"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
	"github.com/yndnr/hallwatch-go/internal/telemetry/metric"
	"github.com/yndnr/hallwatch-go/internal/transport"
	"github.com/yndnr/hallwatch-go/internal/transport/push"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "HTTP listen address (overrides server.http.addr)")
		backendURL  = flag.String("backend", "", "Analytics backend base URL (overrides backend.base_url)")
		noPush      = flag.Bool("no-push", false, "Disable the Socket.IO push feed and rely on polling")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("hallwatch-server %s\n", buildinfo.String())
		return nil
	}

	overrides := map[string]any{}
	if *addr != "" {
		overrides["server.http.addr"] = *addr
	}
	if *backendURL != "" {
		overrides["backend.base_url"] = *backendURL
	}
	if *noPush {
		overrides["backend.push.enabled"] = false
	}

	cfg, err := config.Load(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting hallwatch-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile,
		"settings", config.Sanitize(cfg))

	app, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	return app.serve(*configFile, overrides)
}

// app holds the wired components of a running dashboard.
type app struct {
	cfg *config.DashboardConfig
	log logger.Logger

	metrics    *metric.Registry
	frames     *memory.FrameCache
	reconciler *service.Reconciler
	stream     *transport.Stream
	poller     *transport.Poller
	push       *push.Client
	http       *httpserver.Server
}

func newApp(cfg *config.DashboardConfig, log logger.Logger) (*app, error) {
	metrics := metric.Global()

	policy, err := service.ParsePolicy(cfg.Translator.Policy)
	if err != nil {
		return nil, err
	}
	translator := service.NewTranslator(
		service.WithPolicy(policy),
		service.WithMaxBurst(cfg.Translator.MaxBurst),
		service.WithTranslatorLogger(log.With("component", "translator")),
		service.WithResetHook(func(domain.CameraKey, string) { metrics.IncCounterReset() }),
	)

	events := memory.NewEventLog()
	alerts := memory.NewAlertLog(cfg.Alerts.History)
	frames := memory.NewFrameCache()

	reconciler := service.NewReconciler(memory.New(), events,
		service.WithTranslator(translator),
		service.WithAlerts(alerts, capacities(cfg)),
		service.WithRecorder(metrics),
		service.WithLogger(log),
	)
	if err := metrics.Register(metric.NewCollector(reconciler)); err != nil {
		return nil, fmt.Errorf("register collector: %w", err)
	}

	client := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithMultiHall(cfg.Backend.MultiHall),
		backend.WithDefaultHall(cfg.Dashboard.DefaultHall),
	)
	registry := service.NewCameraRegistry(client, reconciler,
		service.WithDefaultHall(cfg.Dashboard.DefaultHall),
		service.WithFrameDropper(frames),
		service.WithRegistryRecorder(metrics),
		service.WithRegistryLogger(log.With("component", "registry")),
	)

	stream := transport.NewStream(cfg.Dashboard.UpdateBuffer)
	poller := transport.NewPoller(client, stream,
		transport.WithInterval(cfg.Backend.Pull.Interval),
		transport.WithPollerLogger(log.With("component", "poller")),
	)

	a := &app{
		cfg:        cfg,
		log:        log,
		metrics:    metrics,
		frames:     frames,
		reconciler: reconciler,
		stream:     stream,
		poller:     poller,
	}

	if cfg.Backend.Push.Enabled {
		a.push, err = push.NewClient(cfg.Backend.BaseURL, stream,
			push.WithNamespace(cfg.Backend.Push.Namespace),
			push.WithRedialInterval(cfg.Backend.Push.RedialInterval),
			push.WithDefaultHall(cfg.Dashboard.DefaultHall),
			push.WithFrameSink(frames),
			push.WithLogger(log.With("component", "push")),
			push.WithStateHook(metrics.SetPushConnected),
		)
		if err != nil {
			return nil, fmt.Errorf("init push client: %w", err)
		}
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Handler: handler.New(handler.Deps{
			Views:    reconciler,
			Events:   events,
			Alerts:   alerts,
			Registry: registry,
			Frames:   frames,
			Logger:   log,
		}),
		Metrics:            metrics.Handler(),
		Recorder:           metrics,
		Logger:             log.With("component", "http"),
		CORSAllowedOrigins: cfg.Server.HTTP.CORSAllowedOrigins,
		RateLimit:          cfg.Server.HTTP.RateLimit,
		EnableAudit:        true,
	})
	a.http = httpserver.New(cfg.Server.HTTP.Addr, router)

	return a, nil
}

// serve starts every component and blocks until shutdown completes.
func (a *app) serve(configFile string, overrides map[string]any) error {
	ln, err := net.Listen("tcp", a.cfg.Server.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.HTTP.Addr, err)
	}

	stop := shutdown.NewHandler(a.cfg.Server.HTTP.ShutdownTimeout, shutdown.WithLogger(a.log))

	// The reconciler outlives the producers so their last updates are applied.
	reconcilerCtx, stopReconciler := context.WithCancel(context.Background())
	go a.reconciler.Run(reconcilerCtx, a.stream.Updates())

	producerCtx, stopProducers := context.WithCancel(context.Background())
	var producers sync.WaitGroup
	startProducer := func(name string, fn func(context.Context) error) {
		producers.Add(1)
		go func() {
			defer producers.Done()
			if err := fn(producerCtx); err != nil {
				a.log.Error("producer stopped", "producer", name, "error", err)
				stop.Trigger()
			}
		}()
	}
	startProducer("poller", a.poller.Run)
	if a.push != nil {
		a.log.Info("push feed enabled", "endpoint", logger.RedactURL(a.push.Endpoint()))
		startProducer("push", a.push.Run)
	}

	// Hooks run in reverse order: http, config watcher, transport, reconciler.
	stop.OnShutdown("reconciler", func(ctx context.Context) error {
		stopReconciler()
		select {
		case <-a.reconciler.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	stop.OnShutdown("transport", func(ctx context.Context) error {
		stopProducers()
		done := make(chan struct{})
		go func() {
			producers.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		a.stream.Close()
		return nil
	})

	if configFile != "" {
		watcher, err := a.watchConfig(configFile, overrides)
		if err != nil {
			a.log.Warn("config hot reload disabled", "error", err)
		} else {
			stop.OnShutdown("config watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	stop.OnShutdown("http", func(ctx context.Context) error {
		return a.http.Shutdown(ctx)
	})

	go func() {
		a.log.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := a.http.Serve(ln); err != nil {
			a.log.Error("HTTP server error", "error", err)
			stop.Trigger()
		}
	}()

	a.log.Info("dashboard started, press Ctrl+C to stop",
		"backend", logger.RedactURL(a.cfg.Backend.BaseURL),
		"poll_interval", a.poller.Interval().String())

	if err := stop.Wait(context.Background()); err != nil {
		a.log.Error("shutdown error", "error", err)
		return err
	}

	a.log.Info("dashboard stopped gracefully", "updates_applied", a.reconciler.Applied())
	return nil
}

// watchConfig reloads the log level and alert capacities when the config
// file changes. Other settings need a restart.
func (a *app) watchConfig(path string, overrides map[string]any) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(a.log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(path); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(string) {
		cfg, err := config.Load(path, overrides)
		if err != nil {
			a.log.Warn("config reload failed, keeping current settings", "error", err)
			return
		}

		logger.SetLevel(cfg.Log.Level)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
		defer cancel()
		if err := a.reconciler.SetCapacities(ctx, capacities(cfg)); err != nil {
			if errors.Is(err, domain.ErrDashboardClosed) {
				return
			}
			a.log.Warn("apply alert capacities failed", "error", err)
			return
		}

		a.log.Info("config reloaded",
			"log_level", cfg.Log.Level,
			"default_capacity", cfg.Alerts.DefaultCapacity,
			"hall_capacities", len(cfg.Alerts.Capacity))
	})
	watcher.StartAsync()

	return watcher, nil
}

func capacities(cfg *config.DashboardConfig) service.Capacities {
	return service.Capacities{
		Default: cfg.Alerts.DefaultCapacity,
		PerHall: cfg.Alerts.Capacity,
	}
}
