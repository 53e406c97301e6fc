package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	grpcAdapter "github.com/fame0528/DarkFrame-sub009/internal/adapters/grpc"
	"github.com/fame0528/DarkFrame-sub009/internal/adapters/httpapi"
	"github.com/fame0528/DarkFrame-sub009/internal/adapters/metrics"
	notificationAdapter "github.com/fame0528/DarkFrame-sub009/internal/adapters/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/application/common"
	"github.com/fame0528/DarkFrame-sub009/internal/bootstrap"
	"github.com/fame0528/DarkFrame-sub009/internal/domain/notification"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/logging"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/pidfile"
)

const (
	healthRefreshInterval  = 5 * time.Second
	metricsPollInterval    = 15 * time.Second
	forceTerminateDeadline = 10 * time.Second
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to config.yaml (default: search ., ./configs, /etc/wmd)")
	forceFlag := flag.Bool("force", false, "Stop any running daemon and start a new one")
	flag.Parse()

	fmt.Println("WMD Scheduler Daemon v0.1.0")
	fmt.Println("===========================")

	cfg := config.MustLoadConfig(*configPath)

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialise logging: %v", err)
	}
	defer logger.Close()

	// Acquire PID file lock to prevent multiple instances
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		if !*forceFlag {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to stop the existing daemon", err)
		}
		fmt.Println("Force mode enabled - stopping existing daemon...")
		if err := pf.Terminate(forceTerminateDeadline); err != nil {
			log.Fatalf("Failed to stop existing daemon: %v", err)
		}
		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock after stopping existing daemon: %v", err)
		}
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()

	if err := run(cfg, logger); err != nil {
		logger.Error("Daemon stopped with error", map[string]interface{}{"error": err.Error()})
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	opts := bootstrap.Options{
		Logger: logger,
	}

	// 1. Metrics. The app does not exist yet when the notification collector
	// is built, so its pending gauge reads through a late-bound pointer.
	var app *bootstrap.App
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		commandMetrics := metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		opts.Middleware = append(opts.Middleware, metrics.PrometheusMiddleware(commandMetrics))

		notificationMetrics := metrics.NewNotificationMetricsCollector(func() int {
			if app == nil {
				return 0
			}
			return app.Dispatcher.Pending()
		})
		if err := notificationMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register notification metrics: %w", err)
		}
		opts.DispatchObserver = notificationMetrics
	}

	// 2. Live notification socket, fed by the dispatcher like any other sink
	hub := notificationAdapter.NewHub(logger.Component("notifications"))
	opts.ExtraSinks = []notification.Sink{hub}

	// 3. Core: catalogs, database, repositories, handlers
	var err error
	app, err = bootstrap.Build(cfg, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = app.Context(ctx)

	// The dispatcher outlives the signal so queued events are flushed on Close
	app.Start(context.WithoutCancel(ctx))

	// 4. Scheduler
	sched, err := app.NewScheduler()
	if err != nil {
		_ = app.Close(context.Background())
		return fmt.Errorf("failed to register jobs: %w", err)
	}
	if cfg.Metrics.Enabled {
		schedulerMetrics := metrics.NewSchedulerMetricsCollector(sched)
		if err := schedulerMetrics.Register(); err != nil {
			_ = app.Close(context.Background())
			return fmt.Errorf("failed to register scheduler metrics: %w", err)
		}
		sched.SetObserver(schedulerMetrics)
		schedulerMetrics.Start(ctx, metricsPollInterval)
		defer schedulerMetrics.Stop()
	}
	sched.StartAll(ctx)

	logger.Info("Daemon started", map[string]interface{}{
		"database":  cfg.Database.Type,
		"http_addr": cfg.Daemon.HTTPAddr,
		"grpc_addr": cfg.Daemon.GRPCAddr,
		"jobs":      len(sched.Health()),
	})

	// 5. Operational surfaces
	router := httpapi.NewRouter(httpapi.Config{
		Jobs:        sched,
		Mediator:    app.Mediator,
		Hub:         hub,
		Registry:    metrics.GetRegistry(),
		MetricsPath: cfg.Metrics.Path,
		Logger:      logger.Component("http"),
	})
	healthServer := grpcAdapter.NewHealthServer(sched, healthRefreshInterval, logger.Component("grpc"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.Serve(gctx, cfg.Daemon.HTTPAddr, router, cfg.Daemon.ShutdownTimeout)
	})
	g.Go(func() error {
		return healthServer.Serve(gctx, cfg.Daemon.GRPCAddr)
	})
	serveErr := g.Wait()

	// 6. Shutdown: stop ticking, wait for in-flight runs, flush notifications
	logger.Info("Shutting down", nil)
	if err := sched.StopAll(); err != nil {
		logger.Warn("Scheduler did not stop cleanly", map[string]interface{}{"error": err.Error()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	if err := app.Close(common.WithLogger(shutdownCtx, logger)); err != nil {
		logger.Error("Failed to close cleanly", map[string]interface{}{"error": err.Error()})
	}

	return serveErr
}
