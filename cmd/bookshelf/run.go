package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"bookshelf/internal/commands"
	"bookshelf/internal/config"
	"bookshelf/internal/controller"
	"bookshelf/internal/debug"
	"bookshelf/internal/fonts"
	"bookshelf/internal/graphics"
	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
	"bookshelf/internal/scene"
	"bookshelf/internal/terminal"
	"bookshelf/internal/ui"
)

func newRunCmd(load func() (*config.Config, error), save func(*config.Config) error) *cobra.Command {
	var booksPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the bookshelf window",
		Long: `Opens the 3D bookshelf. Drag to turn the shelf, click a book for its details.
Press ESC for the console (try "help").`,
		Example: `  # Start with an empty shelf
  bookshelf run

  # Start with books from a file
  bookshelf run -f books.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log, err := logger.New(logger.Options{Path: cfg.Log.Path, Level: cfg.Log.Level})
			if err != nil {
				return err
			}
			defer log.Close()
			return run(cmd.Context(), cfg, save, log, booksPath)
		},
	}
	cmd.Flags().StringVarP(&booksPath, "file", "f", "", "YAML book list to start with")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, save func(*config.Config) error, log *logger.Logger, booksPath string) error {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Enabled {
		stop := serveMetrics(cfg.Metrics.Addr, reg, log)
		defer stop()
	}

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
	ctrl, err := controller.New(store, controller.Options{
		Viewport: scene.Viewport{Width: float32(cfg.Window.Width), Height: float32(cfg.Window.Height)},
		Frame:    &def,
		Colours:  colours,
		Logger:   log,
		Metrics:  m,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	hud := debug.New()
	hud.SetShowFPS(cfg.Debug.ShowFPS)
	hud.SetShowBooks(cfg.Debug.ShowBooks)

	cmds := commands.NewRegistry()
	commands.RegisterBooks(cmds, store, log.Log)
	// HUD toggles are remembered in the config file across runs.
	persist := func(set func(bool), field *bool) func(bool) {
		return func(on bool) {
			set(on)
			*field = on
			if err := save(cfg); err != nil {
				log.Warn("config not saved", "err", err)
			}
		}
	}
	commands.RegisterToggle(cmds, "fps", "the FPS counter", persist(hud.SetShowFPS, &cfg.Debug.ShowFPS))
	commands.RegisterToggle(cmds, "books", "the shelf occupancy counter", persist(hud.SetShowBooks, &cfg.Debug.ShowBooks))
	commands.RegisterToggle(cmds, "mem", "the heap counter", hud.SetShowMemAlloc)

	engine, err := newUI(cfg, log)
	if err != nil {
		return err
	}
	fontPath := ""
	if cfg.UI.Font != "" {
		if fontPath, err = fonts.Find(cfg.UI.Font, nil); err != nil {
			log.Warn("font not found, using default", "font", cfg.UI.Font)
		}
	}

	app := graphics.NewApp(graphics.AppOptions{
		Controller: ctrl,
		Terminal:   terminal.New(log, cmds),
		Debug:      hud,
		UI:         engine,
		FontPath:   fontPath,
		Logger:     log,
	})
	log.Info("starting", "books", store.Len(), "cover_strategy", cfg.Cover.Strategy)
	return graphics.Run(ctx, graphics.WindowOptions{
		Width:      int32(cfg.Window.Width),
		Height:     int32(cfg.Window.Height),
		Title:      cfg.Window.Title,
		Fullscreen: cfg.Window.Fullscreen,
		TargetFPS:  int32(cfg.Window.TargetFPS),
	}, app)
}

// newUI loads the stylesheet from config, falling back to the built-in one. The configured label
// size overrides the stylesheet.
func newUI(cfg *config.Config, log *logger.Logger) (*ui.Engine, error) {
	engine := ui.New()
	engine.SetStylesheet(ui.DefaultStylesheet())
	if cfg.UI.Stylesheet != "" {
		if err := engine.LoadCSS(cfg.UI.Stylesheet); err != nil {
			return nil, err
		}
	}
	sheet := engine.Stylesheet()
	sheet.Rules = append(sheet.Rules, ui.Rule{
		Selector: ".book-label",
		Props:    map[string]string{"font-size": fmt.Sprintf("%dpx", cfg.UI.LabelSize)},
	})
	engine.SetStylesheet(sheet)
	log.Debug("stylesheet loaded", "path", cfg.UI.Stylesheet, "rules", len(sheet.Rules))
	return engine, nil
}

// serveMetrics exposes /metrics on addr until the returned stop function is called.
func serveMetrics(addr string, g prometheus.Gatherer, log *logger.Logger) (stop func()) {
	server := &http.Server{Addr: addr, Handler: metrics.Handler(g), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("metrics available", "addr", addr, "url", "http://"+addr+"/metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
