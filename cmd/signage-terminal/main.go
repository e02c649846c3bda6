package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/signage-terminal/internal/adminapi"
	"github.com/ngmaloney/signage-terminal/internal/carousel"
	"github.com/ngmaloney/signage-terminal/internal/deck"
	"github.com/ngmaloney/signage-terminal/internal/enrich"
	"github.com/ngmaloney/signage-terminal/internal/geocoding"
	"github.com/ngmaloney/signage-terminal/internal/logging"
	"github.com/ngmaloney/signage-terminal/internal/metrics"
	"github.com/ngmaloney/signage-terminal/internal/settings"
	"github.com/ngmaloney/signage-terminal/internal/ui"
	"github.com/ngmaloney/signage-terminal/internal/weather"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Build variables - set by ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/signage-terminal/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Signage Terminal %s (%s)\n", version, commit)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg appConfig) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector("signage")

	store, fileStore, err := openStore(cfg)
	if err != nil {
		return err
	}

	loadCtx, cancelLoad := context.WithTimeout(ctx, 5*time.Second)
	initial := settings.LoadOrDefault(loadCtx, store, logger.Named("settings"))
	cancelLoad()

	manager := settings.NewManager(store, initial, logger.Named("settings"), settings.WithSaveRecorder(collector))

	weatherService := weather.NewService(
		geocoding.NewGeocoder(),
		weather.NewOpenMeteoClient(),
		logger.Named("weather"),
		weather.WithRecorder(collector),
	)
	provider := deck.NewProvider(weatherService, collector, logger.Named("deck"))

	engine := carousel.New(
		carousel.WithRecorder(collector),
		carousel.WithLogger(logger.Named("carousel")),
		carousel.WithTiming(
			time.Duration(initial.RotationIntervalMs)*time.Millisecond,
			time.Duration(initial.TransitionMs)*time.Millisecond,
		),
	)
	engine.Start()
	defer engine.Stop()

	if cfg.APIEnabled {
		api := adminapi.NewServer(cfg.APIAddr, manager, engine,
			adminapi.WithEnricher(enrich.NewClient(logger.Named("enrich"))),
			adminapi.WithMetrics(collector.Handler()),
			adminapi.WithLogger(logger.Named("api")),
		)
		if err := api.Start(); err != nil {
			logger.Warn("admin API disabled", zap.String("addr", cfg.APIAddr), zap.Error(err))
		} else {
			defer api.Stop()
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if fileStore != nil {
		watcher := settings.NewWatcher(fileStore, manager, logger.Named("watcher"))
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	model := ui.NewModel(ui.Config{
		Engine:          engine,
		Deck:            provider,
		Settings:        initial,
		SettingsUpdates: manager.Subscribe(),
		Radius:          cfg.VisibleRadius,
		RefreshInterval: cfg.RefreshInterval,
		FetchTimeout:    cfg.WeatherTimeout,
		Logger:          logger.Named("ui"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(gctx))
	g.Go(func() error {
		// quitting the UI ends the watcher too
		defer stop()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
			return nil
		}
		return err
	})

	err = g.Wait()
	logger.Info("signage terminal stopped", zap.Error(err))
	return err
}

// openStore picks the YAML file store when a settings file is configured,
// otherwise the sqlite repository
func openStore(cfg appConfig) (settings.Store, *settings.FileStore, error) {
	if cfg.SettingsFile == "" {
		return settings.NewRepository(cfg.DBPath), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SettingsFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating settings directory: %w", err)
	}
	fs := settings.NewFileStore(cfg.SettingsFile)
	return fs, fs, nil
}
