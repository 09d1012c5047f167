// Package syncservice wires and runs the webhook sync service.
package syncservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/meetsync/meetsync/internal/airtable"
	"github.com/meetsync/meetsync/internal/api"
	"github.com/meetsync/meetsync/internal/config"
	"github.com/meetsync/meetsync/internal/fathom"
	"github.com/meetsync/meetsync/internal/logger"
	"github.com/meetsync/meetsync/internal/payloadstore"
	"github.com/meetsync/meetsync/internal/sync"
	"github.com/rs/zerolog"
)

// Run starts the sync service HTTP server and blocks until shutdown or error.
func Run() error {
	cfg, err := config.New()
	if err != nil {
		log := logger.New("meetsync", false)
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	log := logger.New("meetsync", cfg.Debug)

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("meetings_table", cfg.MeetingsTable).
		Str("action_items_table", cfg.ActionItemsTable).
		Str("participants_table", cfg.ParticipantsTable).
		Bool("payload_db", cfg.PayloadDBPath != "").
		Msg("Sync service starting")

	// Missing credentials are reported per-request, not fatal at startup, so
	// a misconfigured deploy still answers health checks and explains itself.
	if err := cfg.ValidateRemote(); err != nil {
		log.Warn().Err(err).Msg("remote credentials incomplete; webhook requests will fail until configured")
	}

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newPayloadStore(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Payload store unavailable")
		return err
	}
	defer func() { _ = store.Close() }()

	router := buildRouter(cfg, store, log)

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// newPayloadStore picks the debug payload store implementation: SQLite when
// a path is configured, in-memory otherwise.
func newPayloadStore(cfg *config.Config, log zerolog.Logger) (payloadstore.Store, error) {
	if cfg.PayloadDBPath == "" {
		return payloadstore.NewMemoryStore(), nil
	}
	store, err := payloadstore.Open(cfg.PayloadDBPath)
	if err != nil {
		return nil, fmt.Errorf("open payload store %s: %w", cfg.PayloadDBPath, err)
	}
	log.Info().Str("path", cfg.PayloadDBPath).Msg("payload store opened")
	return store, nil
}

// buildRouter wires the remote clients, the sync core, and the HTTP routes.
func buildRouter(cfg *config.Config, store payloadstore.Store, log zerolog.Logger) http.Handler {
	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	fathomClient := fathom.NewClient(cfg.FathomBaseURL, cfg.FathomAPIKey, timeout)
	airtableClient := airtable.NewClient(cfg.AirtableBaseURL, cfg.AirtableAPIKey, cfg.AirtableBaseID, timeout)

	svc := sync.NewService(cfg, fathomClient, airtableClient, log)
	handler := api.NewWebhookHandler(svc, store, cfg.WebhookToken, log)
	return api.NewRouter(handler)
}
