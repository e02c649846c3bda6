package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/signage-terminal/internal/adminapi"
	"github.com/ngmaloney/signage-terminal/internal/carousel"
	"github.com/ngmaloney/signage-terminal/internal/deck"
	"github.com/ngmaloney/signage-terminal/internal/models"
	"github.com/ngmaloney/signage-terminal/internal/settings"
	"github.com/ngmaloney/signage-terminal/internal/ui"
	"github.com/ngmaloney/signage-terminal/internal/weather"
)

// This demo runs the carousel offline with the built-in settings and a
// fixed weather record
func main() {
	apiAddr := flag.String("api", "", "serve the admin API on this address (e.g. 127.0.0.1:8080)")
	interval := flag.Duration("interval", 6*time.Second, "rotation interval")
	flag.Parse()

	s := models.DefaultSettings()
	s.RotationIntervalMs = int(interval.Milliseconds())
	s.TimeOverlays = nil // keep the carousel visible whatever the hour

	manager := settings.NewManager(settings.NewMemoryStore(), s, nil)

	engine := carousel.New(carousel.WithTiming(*interval, time.Duration(s.TransitionMs)*time.Millisecond))
	engine.Start()
	defer engine.Stop()

	if *apiAddr != "" {
		api := adminapi.NewServer(*apiAddr, manager, engine)
		if err := api.Start(); err != nil {
			fmt.Printf("Error starting admin API: %v\n", err)
			os.Exit(1)
		}
		defer api.Stop()
	}

	provider := deck.NewProvider(weather.StaticProvider{Data: models.WeatherData{
		Temp:      22,
		Condition: "Partly Cloudy",
		High:      25,
		Low:       17,
		ImageURL:  weather.CloudyImage,
		FetchedAt: time.Now().Add(-3 * time.Minute),
	}}, nil, nil)

	m := ui.NewModel(ui.Config{
		Engine:          engine,
		Deck:            provider,
		Settings:        s,
		SettingsUpdates: manager.Subscribe(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
