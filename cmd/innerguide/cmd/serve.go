package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	httpadapter "github.com/PabloGalante/innerguide/internal/adapters/http"
	"github.com/PabloGalante/innerguide/internal/config"
	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	observability.Init(os.Stdout, cfg.LogLevel)
	log := observability.Logger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := httpadapter.NewServer(httpadapter.Deps{
		Companions:    a.companions,
		Journal:       a.journal,
		Helplines:     a.helplines,
		Notifications: a.feed,
		Categories:    a.catalog.Categories,
		Identity:      a.identity,
		DevUserID:     domain.UserID(cfg.DevUserID),
		MessageRate:   rate.Limit(cfg.MessageRate),
		MessageBurst:  cfg.MessageBurst,
		Metrics:       promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("innerguide API listening", "addr", srv.Addr, "mode", cfg.Mode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
