package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bookshelf/internal/config"
	"bookshelf/internal/headless"
	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
	"bookshelf/internal/scene"
)

func newLayoutCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		booksPath     string
		width, height float32
		yaw           float32
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print where books would be placed, without opening a window",
		Long: `Reconciles a book list onto the shelf headlessly and prints the slot table and
title label positions as YAML.`,
		Example: `  bookshelf layout -f books.yaml --width 1280 --height 720 --yaw 0.3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log, err := logger.New(logger.Options{Writer: cmd.ErrOrStderr(), Level: cfg.Log.Level})
			if err != nil {
				return err
			}
			m := metrics.New(prometheus.NewRegistry())
			colours, err := newColours(cfg, log, m)
			if err != nil {
				return err
			}
			defer colours.Close()
			def, err := loadFrame(cfg)
			if err != nil {
				return err
			}
			store, err := loadStore(booksPath)
			if err != nil {
				return err
			}

			rep, err := headless.Layout(cmd.Context(), store, headless.Options{
				Viewport: scene.Viewport{Width: width, Height: height},
				Yaw:      yaw,
				Frame:    &def,
				Colours:  colours,
				Wait:     cfg.Cover.Timeout + time.Second,
				Logger:   log,
				Metrics:  m,
			})
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(rep)
		},
	}
	cmd.Flags().StringVarP(&booksPath, "file", "f", "", "YAML book list")
	cmd.Flags().Float32Var(&width, "width", 800, "viewport width in pixels")
	cmd.Flags().Float32Var(&height, "height", 800, "viewport height in pixels")
	cmd.Flags().Float32Var(&yaw, "yaw", 0, "shelf rotation in radians for label positions")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
