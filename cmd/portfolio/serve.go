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

	"github.com/spf13/cobra"

	"github.com/tendant/simple-portfolio/pkg/portfolio/api"
	"github.com/tendant/simple-portfolio/pkg/portfolio/config"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host        string
		port        string
		noStatic    bool
		corsOrigins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := []config.Option{}
			if host != "" {
				overrides = append(overrides, config.WithHost(host))
			}
			if port != "" {
				overrides = append(overrides, config.WithPort(port))
			}
			if noStatic {
				overrides = append(overrides, config.WithServeStatic(false))
			}
			if len(corsOrigins) > 0 {
				overrides = append(overrides, config.WithCORSOrigins(corsOrigins...))
			}
			for _, opt := range overrides {
				if err := opt(a.cfg); err != nil {
					return err
				}
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}

			opts := []api.ServerOption{api.WithCORS(a.cfg.CORSOrigins...)}
			if a.cfg.ServeStatic {
				opts = append(opts, api.WithStaticRoot(a.cfg.Root))
			}

			httpServer := &http.Server{
				Addr:              a.cfg.Addr(),
				Handler:           api.NewServer(svc, opts...).Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, httpServer)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen address (default 127.0.0.1)")
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default 8787)")
	cmd.Flags().BoolVar(&noStatic, "no-static", false, "do not serve site files")
	cmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", nil, "origin allowed to call the API from a browser (repeatable, * for any)")
	return cmd
}

// serve runs httpServer until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, httpServer *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Editor running", "url", fmt.Sprintf("http://%s/", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("Server exiting")
	return nil
}
