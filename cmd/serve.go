package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/presyohub/presyo/internal/auth"
	"github.com/presyohub/presyo/internal/config"
	"github.com/presyohub/presyo/internal/handlers"
	"github.com/presyohub/presyo/internal/store"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Google sign-in gateway",
		Long: `Starts the authentication gateway on the specified port.

The gateway verifies Google ID tokens against the configured OAuth client id,
upserts the signed-in user into the backend store, and returns a signed
session token.`,
		Example: `  # Start the gateway on default port 8000
  presyo serve

  # Start the gateway on a custom port
  presyo serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadGateway()
			if err != nil {
				return err
			}

			users := store.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
			handler := handlers.New(auth.NewService(cfg, users))

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/health", handler.HandleHealth)
			mux.HandleFunc("/api/auth/google/", handler.HandleGoogleAuth)

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: handlers.CORS(cfg.AllowedOrigins, mux),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Auth gateway available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8000", "Port to listen on")

	return cmd
}
