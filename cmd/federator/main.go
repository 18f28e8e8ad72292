// Command federator runs the log federation proxy: it loads configuration,
// wires the federation Facade over the configured datasources, and serves
// the HTTP façade described in SPEC_FULL.md §15.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lokifederation/internal/federation"
	"lokifederation/internal/httpapi"
	"lokifederation/internal/registry"
	"lokifederation/pkg/config"
	"lokifederation/pkg/logger"
	"lokifederation/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("error")
		logger.Fatal("Failed to load config", "error", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	logger.Log.Info("Starting log federation proxy",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"datasources", len(cfg.Datasources),
	)

	if cfg.Metrics.Enabled {
		m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
		m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)
	}

	datasources := make([]registry.Datasource, len(cfg.Datasources))
	for i, ds := range cfg.Datasources {
		datasources[i] = registry.Datasource{Name: ds.Name, URLs: ds.URLs}
		logger.WithBackend(ds.Name).Info("configured datasource", "urls", len(ds.URLs))
	}

	facade := federation.New(logger.Log, datasources, registryOptionsFrom(cfg.Datasources))

	server := httpapi.NewServer(facade, logger.Log)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      server.Mux(cfg.Metrics.Enabled),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Log.Info("Federator listening", "address", cfg.Server.Address())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown error", "error", err)
	}

	logger.Log.Info("Server stopped")
}

// registryOptionsFrom derives the registry's shared per-call timeout and
// retry budget from the first configured datasource group. Every group in
// this build shares one registry.Options value (§4.B); deployments that need
// per-group budgets configure multiple federator instances instead.
func registryOptionsFrom(datasources []config.DatasourceConfig) registry.Options {
	if len(datasources) == 0 {
		return registry.DefaultOptions()
	}
	first := datasources[0]
	opts := registry.DefaultOptions()
	if first.Timeout > 0 {
		opts.Timeout = first.Timeout
	}
	if first.MaxRetries > 0 {
		opts.MaxRetries = first.MaxRetries
	}
	return opts
}
