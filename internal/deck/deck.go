// Package deck assembles the ordered card sequence shown by the carousel.
package deck

import (
	"context"
	"time"

	"github.com/ngmaloney/signage-terminal/internal/models"
	"github.com/ngmaloney/signage-terminal/internal/weather"
	"go.uber.org/zap"
)

// MaxDisplayed caps the number of cards in one sequence
const MaxDisplayed = 9

// WeatherCardID is the id of the single live weather card
const WeatherCardID = "weather"

// DurationRecorder observes how long a build took
type DurationRecorder interface {
	ObserveRefresh(d time.Duration)
}

// Provider builds card sequences from settings
type Provider struct {
	weather  weather.Provider
	recorder DurationRecorder
	logger   *zap.Logger
}

// NewProvider creates a provider. recorder may be nil.
func NewProvider(w weather.Provider, recorder DurationRecorder, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{weather: w, recorder: recorder, logger: logger}
}

// Build returns welcome cards (when enabled), news, internal panels and the
// weather card, in that order, truncated to MaxDisplayed
func (p *Provider) Build(ctx context.Context, s models.Settings) []models.Card {
	start := time.Now()

	cards := Static(s)
	cards = append(cards, models.Card{
		ID:      WeatherCardID,
		Payload: p.weather.Lookup(ctx, s.Location),
	})
	if len(cards) > MaxDisplayed {
		p.logger.Debug("truncating card sequence", zap.Int("cards", len(cards)), zap.Int("max", MaxDisplayed))
		cards = cards[:MaxDisplayed]
	}

	if p.recorder != nil {
		p.recorder.ObserveRefresh(time.Since(start))
	}
	return cards
}

// Static returns the configured cards without the weather card
func Static(s models.Settings) []models.Card {
	cards := make([]models.Card, 0, s.PoolSize()+1)

	if s.ShowWelcomePanel {
		for _, wc := range s.WelcomeCards {
			cards = append(cards, models.Card{ID: "welcome-" + wc.ID, Payload: wc})
		}
	}
	for _, n := range s.CustomNews {
		cards = append(cards, models.Card{ID: "news-" + n.ID, Payload: n})
	}
	for _, ip := range s.InternalPanels {
		cards = append(cards, models.Card{ID: "internal-" + ip.ID, Payload: ip})
	}
	return cards
}
