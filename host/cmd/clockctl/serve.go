package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"bootclock/host/board"
	"bootclock/host/metrics"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		interval   time.Duration
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Expose a board clock as Prometheus metrics",
		Example: "clockctl serve --listen :9110",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}

			cfg, err := loadBoard(configPath)
			if err != nil {
				return err
			}

			b, err := board.Build(cfg)
			if err != nil {
				return err
			}
			defer b.Close()
			logRegistrations(b)

			reg := prometheus.NewRegistry()
			exporter, err := metrics.NewExporter(b.Clock, reg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

			// from here on the sampling goroutine owns the clock
			go exporter.Run(ctx, interval)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logger.Info().Str("listen", listen).Dur("interval", interval).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Board config file (default: host monotonic clock)")
	cmd.Flags().StringVar(&listen, "listen", ":9110", "HTTP listen address")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Clock sampling interval")

	return cmd
}
