package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourorg/eztech-media/internal/config"
	"github.com/yourorg/eztech-media/internal/images"
	"github.com/yourorg/eztech-media/internal/metrics"
	"github.com/yourorg/eztech-media/internal/storage"
)

type app struct {
	cfg config.Config
	log *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	var serveMetrics bool

	cmd := &cobra.Command{
		Use:           "mediactl",
		Short:         "Maintain the promotion image container, send transactional mail and manage promotions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !serveMetrics {
				return
			}
			metrics.Init()
			go func() {
				if err := metrics.Serve(a.cfg.MetricsAddr); err != nil {
					a.log.Warn("metrics server stopped", zap.Error(err))
				}
			}()
		},
	}
	cmd.PersistentFlags().BoolVar(&serveMetrics, "metrics", false, "expose Prometheus metrics on METRICS_ADDR while running")

	cmd.AddCommand(
		newImageCmd(a),
		newMailCmd(a),
		newPromoCmd(a),
	)
	return cmd
}

// withGateway opens the configured object store for the duration of fn.
func (a *app) withGateway(ctx context.Context, fn func(g *images.Gateway) error) error {
	if err := a.cfg.Storage.Validate(); err != nil {
		return err
	}
	store, err := storage.Open(ctx, a.cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.log.Warn("closing object store", zap.Error(err))
		}
	}()
	return fn(images.New(store, a.cfg.Storage, images.Options{Logger: a.log, Production: a.cfg.IsProduction()}))
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
