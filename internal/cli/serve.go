package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/pacerkit/pacer/internal/adapters/http"
	"github.com/pacerkit/pacer/internal/config"
	"github.com/pacerkit/pacer/internal/logging"
)

// ServeOptions carries the serve command's flags.
type ServeOptions struct {
	Port       string
	ConfigPath string
	StoreKind  string
}

// Serve starts the read-only introspection server and blocks until
// interrupted.
func Serve(opts ServeOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger := logging.New(logging.ParseLevel(cfg.Log.Level))

	store, err := buildStore(cfg, opts.StoreKind)
	if err != nil {
		return err
	}

	handler := httpadapter.NewHandler(store, prometheus.DefaultGatherer, logger)
	srv := &http.Server{
		Addr:    ":" + opts.Port,
		Handler: handler,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("introspection server listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to stop server: %w", err)
			}
		}
	}
	return nil
}
