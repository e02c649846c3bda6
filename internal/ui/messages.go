package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/signage-terminal/internal/carousel"
	"github.com/ngmaloney/signage-terminal/internal/models"
)

// Message types for async operations

// deckBuiltMsg is sent when a card sequence has been built
type deckBuiltMsg struct {
	cards []models.Card
	took  time.Duration
}

// snapshotMsg is sent when the carousel focus changes
type snapshotMsg carousel.Snapshot

// settingsChangedMsg is sent when the settings manager publishes a change
type settingsChangedMsg models.Settings

// clockTickMsg drives the overlay evaluator once per second
type clockTickMsg time.Time

// refreshTickMsg triggers a periodic deck rebuild
type refreshTickMsg struct{}

// slotSelectedMsg is sent when a visible card is clicked
type slotSelectedMsg struct {
	offset int
}

// pageSelectedMsg is sent when a pagination dot is clicked
type pageSelectedMsg struct {
	index int
}

// DeckBuilder builds the card sequence for a set of settings
type DeckBuilder interface {
	Build(ctx context.Context, s models.Settings) []models.Card
}

// buildDeck runs the provider in the background
func buildDeck(builder DeckBuilder, s models.Settings, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		cards := builder.Build(ctx, s)
		return deckBuiltMsg{cards: cards, took: time.Since(start)}
	}
}

// waitForSnapshot blocks until the engine publishes a new snapshot
func waitForSnapshot(ch <-chan carousel.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// waitForSettings blocks until the settings change
func waitForSettings(ch <-chan models.Settings) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return settingsChangedMsg(s)
	}
}

// clockTick fires on the next wall-clock second
func clockTick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// refreshTick fires after interval
func refreshTick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}
