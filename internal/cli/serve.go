package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schedule-reconciler/internal/api"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = LeafCommand{
	Use:   "serve",
	Short: "Run the HTTP API and the periodic report sync",
	StrFlags: []StringFlag{
		{Name: "addr", Usage: "listen address (default HTTP_ADDR)"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		addrFlag, _ := cmd.Flags().GetString("addr")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if addrFlag != "" {
			a.cfg.HTTPAddr = addrFlag
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx, a)
	},
}.Build()

func runServe(ctx context.Context, a *app) error {
	a.loadHolidays()

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           api.NewRouter(a.apiHandler(), a.cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.cfg.SyncIntervalMin > 0 {
		interval := time.Duration(a.cfg.SyncIntervalMin) * time.Minute
		go func() {
			err := a.reports.RunPeriodicSync(ctx, interval, a.sink, time.Now)
			if err != nil && !errors.Is(err, context.Canceled) {
				a.logger.WithError(err).Error("Periodic sync stopped")
			}
		}()
	} else {
		a.logger.Info("Periodic sync disabled")
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.WithFields(logrus.Fields{
			"addr":          a.cfg.HTTPAddr,
			"report":        a.cfg.ReportPath,
			"sync_interval": a.cfg.SyncIntervalMin,
		}).Info("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
