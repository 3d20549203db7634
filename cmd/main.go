package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postboard/internal/auth"
	"postboard/internal/config"
	"postboard/internal/dispatch"
	"postboard/internal/handlers"
	"postboard/internal/logger"
	"postboard/internal/metrics"
	"postboard/internal/repository"
	"postboard/internal/repository/db"
	"postboard/internal/resolver"
	"postboard/internal/server"
	"postboard/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

// @title        postboard API
// @version      1.0
// @description  Authenticated posts service: operations endpoint, activity log and live feed.
// @BasePath     /
func main() {
	configPath := flag.String("config", "", "path to config file (default configs/config.yml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sqlDB, err := db.InitDB(ctx, cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer closeDB(sqlDB, log)

	// wire dependencies
	issuer := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	services := service.NewService(repository.NewRepository(sqlDB), service.Deps{
		Verifier: issuer,
		Issuer:   issuer,
		Hasher:   auth.NewHasher(cfg.Auth.BcryptCost),
		Policy:   cfg.Auth.Ownership,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	dispatcher := dispatch.New(dispatch.WithLogger(log), dispatch.WithObserver(collector))
	resolver.New(services).Register(dispatcher)

	apiHandler := handlers.NewHandler(services, dispatcher, log,
		handlers.WithMetrics(metrics.Handler(reg), collector),
		handlers.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		handlers.WithFeedInterval(cfg.Feed.Interval),
	)

	log.Infow("starting",
		"port", cfg.Port,
		"db", cfg.DB.Path,
		"ownership", cfg.Auth.Ownership,
		"token_ttl", cfg.Auth.TokenTTL,
		"operations", dispatcher.Names(),
	)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains in-flight requests.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}

func closeDB(sqlDB *sql.DB, log *logger.Logger) {
	if err := sqlDB.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}
