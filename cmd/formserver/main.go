// Package main provides a reference AG-UI HTTP server that shares a form
// with frontends over Server-Sent Events (SSE).
//
// Frontends subscribe to GET /api/form/events and receive a STATE_SNAPSHOT
// followed by STATE_DELTA patches as the form changes. Submissions appear as
// runs and validation as steps. Field edits are posted as JSON. Prometheus
// metrics are served on GET /metrics.
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	FORM_PORT              - Server port (default: 8080)
//	FORM_DEFINITION        - YAML or HCL form definition (default: built-in signup form)
//	FORM_SUBMIT_TIMEOUT    - Submit timeout (default: 30s)
//	FORM_VALIDATOR_COMMAND - MCP server used for remote validation (optional)
//	LOG_LEVEL              - debug, info, warn, error (default: info)
//	LOG_FORMAT             - text or json (default: text)
//
// Usage:
//
//	go run ./cmd/formserver
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnsonav1992/formularity/event"
	"github.com/johnsonav1992/formularity/form"
	"github.com/johnsonav1992/formularity/internal/config"
	"github.com/johnsonav1992/formularity/metrics"
)

//go:embed signup.yaml
var signupDefinition []byte

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	log := cfg.Logger(os.Stderr)

	events := event.NewChannel()
	f, err := cfg.LoadForm(context.Background(), signupDefinition, form.WithLogger(log), form.WithEvents(events))
	if err != nil {
		log.Error("failed to build form", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	collector, err := metrics.New(reg)
	if err != nil {
		log.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	handler := NewFormHandler(f, events, collector, cfg, log)
	defer handler.Close()

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("form server starting",
		"port", cfg.Port,
		"form", f.Controller.ID(),
		"events", "GET http://localhost:"+cfg.Port+"/api/form/events",
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
