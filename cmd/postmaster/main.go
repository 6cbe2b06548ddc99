// Command postmaster runs the webhook-to-Kafka bridge: an HTTP ingestion
// surface whose routing configuration is sourced from WebhookHandler
// custom resources and kept current by a background reconciler.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/Postmaster-Live/postmaster/internal/api"
	"github.com/Postmaster-Live/postmaster/internal/config"
	"github.com/Postmaster-Live/postmaster/internal/crd"
	"github.com/Postmaster-Live/postmaster/internal/publish"
	"github.com/Postmaster-Live/postmaster/internal/reconciler"
	"github.com/Postmaster-Live/postmaster/internal/routingtable"
	"github.com/Postmaster-Live/postmaster/internal/state"
)

// defaultRateRPS and defaultRateBurst bound the per-IP webhook ingestion
// rate ahead of the publish gateway.
const (
	defaultRateRPS   = 20
	defaultRateBurst = 40
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("startup: config load failed", "error", err)
		return 1
	}

	gateway, err := publish.New(publish.Config{
		BootstrapServers: cfg.KafkaBootstrapServers,
		SASLUsername:     cfg.KafkaSASLUsername,
		SASLPassword:     cfg.KafkaSASLPassword,
		SASLMechanism:    cfg.KafkaSASLMechanism,
	})
	if err != nil {
		logger.Error("startup: kafka gateway init failed", "error", err)
		return 1
	}
	defer gateway.Close()

	kubeConfig, err := loadKubeConfig()
	if err != nil {
		logger.Error("startup: kubernetes config load failed", "error", err)
		return 1
	}

	crdClient, err := crd.NewClient(kubeConfig, cfg.Namespace)
	if err != nil {
		logger.Error("startup: crd client init failed", "error", err)
		return 1
	}

	table := routingtable.New()
	st := state.New(table, gateway, crdClient, cfg.APISigningKey, cfg.ExternalURL, cfg.Namespace)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := reconciler.New(crdClient, table, logger)
	go rec.Run(ctx)

	limiter := api.NewRateLimiter(defaultRateRPS, defaultRateBurst)

	mux := http.NewServeMux()
	mux.Handle("POST /handler/{id}", limiter.Middleware(api.WebhookHandler(st, logger)))
	mux.HandleFunc("POST /config", api.ConfigHandler(st, logger))
	mux.HandleFunc("GET /health", api.HealthHandler())
	mux.HandleFunc("GET /ready", api.ReadyHandler(st))

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("startup: listening", "addr", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server: listen failed", "error", err)
			return 1
		}
	case sig := <-sigCh:
		logger.Info("shutdown: signal received", "signal", sig.String())
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown: server shutdown failed", "error", err)
		return 1
	}

	logger.Info("shutdown: complete")
	return 0
}

// loadKubeConfig prefers in-cluster credentials and falls back to
// KUBECONFIG (or the default kubeconfig path) for local development.
func loadKubeConfig() (*rest.Config, error) {
	if cfg, err := rest.InClusterConfig(); err == nil {
		return cfg, nil
	}

	kubeconfigPath := os.Getenv("KUBECONFIG")
	if kubeconfigPath == "" {
		kubeconfigPath = clientcmd.RecommendedHomeFile
	}
	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig: %w", err)
	}
	return cfg, nil
}
