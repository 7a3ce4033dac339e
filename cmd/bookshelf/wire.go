package main

import (
	"fmt"

	"bookshelf/internal/collection"
	"bookshelf/internal/config"
	"bookshelf/internal/covercolor"
	"bookshelf/internal/download"
	"bookshelf/internal/frame"
	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
)

// newColours builds the cover colour cache for the configured strategy.
func newColours(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*covercolor.Cache, error) {
	var r covercolor.Resolver
	switch cfg.Cover.Strategy {
	case config.StrategySample:
		r = covercolor.NewSampler(download.New(cfg.Cover.Timeout), m)
	default:
		p, err := covercolor.NewPalette(cfg.Cover.Palette)
		if err != nil {
			return nil, fmt.Errorf("cover palette: %w", err)
		}
		r = p
	}
	return covercolor.NewCache(r,
		covercolor.WithLogger(log),
		covercolor.WithMetrics(m),
		covercolor.WithWorkers(cfg.Cover.Workers),
	), nil
}

func loadFrame(cfg *config.Config) (frame.Definition, error) {
	if cfg.Frame == "" {
		return frame.Default(), nil
	}
	return frame.Load(cfg.Frame)
}

// loadStore returns a store seeded from a YAML book list; an empty path gives an empty store.
func loadStore(path string) (*collection.Store, error) {
	store := collection.New()
	if path == "" {
		return store, nil
	}
	books, err := collection.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := store.Seed(books); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}
