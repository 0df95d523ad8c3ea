package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/contact-crm/internal/api/router"
	"github.com/wolfman30/contact-crm/internal/app/bootstrap"
	"github.com/wolfman30/contact-crm/internal/archive"
	"github.com/wolfman30/contact-crm/internal/auth"
	appconfig "github.com/wolfman30/contact-crm/internal/config"
	"github.com/wolfman30/contact-crm/internal/contacts"
	httpmiddleware "github.com/wolfman30/contact-crm/internal/http/middleware"
	"github.com/wolfman30/contact-crm/internal/observability/metrics"
	"github.com/wolfman30/contact-crm/pkg/logging"
)

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info("starting contact-crm API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	mongoClient, err := bootstrap.BuildMongoClient(ctx, cfg, logger, true)
	if err != nil {
		logger.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	contactsColl, credentialsColl := bootstrap.Collections(mongoClient, cfg)

	exportArchive, err := bootstrap.BuildExportArchiver(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	r := buildHandler(cfg, logger, deps{
		contacts:    contacts.NewMongoRepository(contactsColl),
		credentials: auth.NewMongoCredentialsStore(credentialsColl),
		archiver:    exportArchiver(exportArchive),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Warn("mongodb disconnect failed", "error", err)
	}

	logger.Info("server exited")
}

type deps struct {
	contacts    contacts.Repository
	credentials auth.CredentialsStore
	archiver    contacts.ExportArchiver
}

// exportArchiver keeps a disabled store out of the interface so no typed nil
// reaches the service.
func exportArchiver(store *archive.Store) contacts.ExportArchiver {
	if store == nil {
		return nil
	}
	return store
}

// buildHandler wires services, handlers and the router.
func buildHandler(cfg *appconfig.Config, logger *logging.Logger, d deps) http.Handler {
	metricsHandler, contactMetrics := setupMetrics(cfg.MetricsEnabled)
	tokens := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)

	opts := []contacts.Option{contacts.WithMetrics(contactMetrics)}
	if d.archiver != nil {
		opts = append(opts, contacts.WithArchiver(d.archiver))
	}
	contactSvc := contacts.NewService(d.contacts, logger.Component("contacts"), opts...)
	authSvc := auth.NewService(d.credentials, tokens, contactMetrics, logger.Component("auth"))

	routerCfg := &router.Config{
		Logger:             logger,
		AuthHandler:        auth.NewHandler(authSvc, logger.Component("auth")),
		ContactsHandler:    contacts.NewHandler(contactSvc, logger.Component("contacts"), int64(cfg.FormMaxMemoryMB)<<20),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		FrontendDir:        cfg.FrontendDir,
	}
	if cfg.RequireAuth && tokens != nil {
		routerCfg.SessionGuard = httpmiddleware.RequireSession(tokens)
	}
	return router.New(routerCfg)
}

// setupMetrics builds a private registry so tests can call it repeatedly.
func setupMetrics(enabled bool) (http.Handler, *metrics.ContactMetrics) {
	if !enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewContactMetrics(reg)
}
