package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/ngmaloney/signage-terminal/internal/carousel"
	"github.com/ngmaloney/signage-terminal/internal/models"
)

type staticDeck struct {
	cards []models.Card
}

func (d staticDeck) Build(context.Context, models.Settings) []models.Card {
	return d.cards
}

func newsCards(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{
			ID:      fmt.Sprintf("news-%d", i),
			Payload: models.NewsItem{ID: fmt.Sprint(i), Title: fmt.Sprintf("Story %d", i), Source: "Wire"},
		}
	}
	return cards
}

func fixedClock(hour, minute int) func() time.Time {
	return func() time.Time { return time.Date(2026, 10, 16, hour, minute, 0, 0, time.Local) }
}

func newTestModel(t *testing.T, cards []models.Card) (Model, *carousel.Engine) {
	t.Helper()
	engine := carousel.New(carousel.WithScheduler(carousel.NewManualScheduler()))
	t.Cleanup(engine.Stop)

	m := NewModel(Config{
		Engine:   engine,
		Deck:     staticDeck{cards: cards},
		Settings: models.DefaultSettings(),
		Clock:    fixedClock(10, 0),
	})
	return m, engine
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(t, nil)

	if m.state != StateLoading {
		t.Errorf("NewModel() state = %v, want StateLoading", m.state)
	}
	if m.radius != carousel.DefaultRadius {
		t.Errorf("NewModel() radius = %d, want %d", m.radius, carousel.DefaultRadius)
	}
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() before sizing = %q, want Loading...", got)
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.width != 120 {
		t.Errorf("After WindowSizeMsg, width = %d, want 120", m.width)
	}
	if m.height != 40 {
		t.Errorf("After WindowSizeMsg, height = %d, want 40", m.height)
	}
}

func TestModel_CtrlC_Quits(t *testing.T) {
	m, _ := newTestModel(t, nil)

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("Expected %q to return a command", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Expected %q to quit", key.String())
		}
	}
}

func TestModel_DeckBuiltInstallsSequence(t *testing.T) {
	m, engine := newTestModel(t, nil)
	engine.SetSequence(newsCards(5))
	engine.SelectIndex(3)

	m, _ = update(t, m, deckBuiltMsg{cards: newsCards(4)})

	if m.state != StateDisplay {
		t.Errorf("state = %v, want StateDisplay", m.state)
	}
	if engine.Len() != 4 {
		t.Errorf("engine.Len() = %d, want 4", engine.Len())
	}
	if engine.Focus() != 0 {
		t.Errorf("focus = %d, want 0 after a new sequence", engine.Focus())
	}
}

func TestModel_EmptyDeckShowsSyncing(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, deckBuiltMsg{cards: nil})

	if m.state != StateLoading {
		t.Errorf("state = %v, want StateLoading", m.state)
	}
	if !strings.Contains(m.View(), "Syncing...") {
		t.Error("Expected loading view to show Syncing...")
	}
}

func TestModel_RefreshKeepsCurrentSequence(t *testing.T) {
	m, engine := newTestModel(t, newsCards(2))
	m, _ = update(t, m, deckBuiltMsg{cards: newsCards(3)})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil {
		t.Fatal("Expected r to start a refresh")
	}
	if m.pending != 1 {
		t.Errorf("pending = %d, want 1", m.pending)
	}
	if engine.Len() != 3 {
		t.Errorf("sequence replaced before the refresh completed, len = %d", engine.Len())
	}

	msg := cmd()
	built, ok := msg.(deckBuiltMsg)
	if !ok {
		t.Fatalf("refresh produced %T, want deckBuiltMsg", msg)
	}
	m, _ = update(t, m, built)
	if engine.Len() != 2 || m.pending != 0 {
		t.Errorf("after refresh len = %d pending = %d, want 2 and 0", engine.Len(), m.pending)
	}
}

func TestModel_SelectionMessages(t *testing.T) {
	m, engine := newTestModel(t, nil)
	m, _ = update(t, m, deckBuiltMsg{cards: newsCards(5)})

	m, _ = update(t, m, slotSelectedMsg{offset: -2})
	if engine.Focus() != 3 {
		t.Errorf("focus after offset -2 = %d, want 3", engine.Focus())
	}

	m, _ = update(t, m, pageSelectedMsg{index: 1})
	if engine.Focus() != 1 {
		t.Errorf("focus after page 1 = %d, want 1", engine.Focus())
	}

	m, _ = update(t, m, pageSelectedMsg{index: 9})
	if engine.Focus() != 1 {
		t.Errorf("out-of-range page changed focus to %d", engine.Focus())
	}

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRight},
		{Type: tea.KeyLeft},
		{Type: tea.KeyRunes, Runes: []rune{'l'}},
	} {
		m, _ = update(t, m, key)
	}
	if engine.Focus() != 1 {
		t.Errorf("keys moved focus to %d; only pointer selection changes it", engine.Focus())
	}
}

func TestModel_SettingsChangeRetimesAndRefreshes(t *testing.T) {
	m, engine := newTestModel(t, newsCards(1))

	s := models.DefaultSettings()
	s.RotationIntervalMs = 20000
	s.TransitionMs = 1500
	s.TimeOverlays = nil

	m, cmd := update(t, m, settingsChangedMsg(s))
	if cmd == nil {
		t.Fatal("Expected a settings change to trigger a refresh")
	}
	if engine.Interval() != 20*time.Second {
		t.Errorf("interval = %v, want 20s", engine.Interval())
	}
	if engine.Transition() != 1500*time.Millisecond {
		t.Errorf("transition = %v, want 1.5s", engine.Transition())
	}
	if m.pending != 1 {
		t.Errorf("pending = %d, want 1", m.pending)
	}
	if m.settings.RotationIntervalMs != 20000 {
		t.Error("model did not keep the new settings")
	}
}

func TestModel_OverlayTakesOverScreen(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, deckBuiltMsg{cards: newsCards(3)})

	if strings.Contains(m.View(), "Lunch Time") {
		t.Fatal("overlay shown outside its window")
	}

	lunch := time.Date(2026, 10, 16, 12, 5, 0, 0, time.Local)
	m, cmd := update(t, m, clockTickMsg(lunch))
	if cmd == nil {
		t.Error("Expected the clock to keep ticking")
	}

	view := m.View()
	if !strings.Contains(view, "Lunch Time") {
		t.Errorf("Expected overlay label in view:\n%s", view)
	}
	if !strings.Contains(view, "12:05") {
		t.Errorf("Expected overlay clock in view:\n%s", view)
	}
	if strings.Contains(view, "Story 0") {
		t.Error("carousel should be hidden behind the overlay")
	}

	m, _ = update(t, m, clockTickMsg(lunch.Add(time.Hour)))
	if !strings.Contains(m.View(), "Story 0") {
		t.Error("carousel should return after the window ends")
	}
}

func TestModel_RenderedRadius(t *testing.T) {
	tests := []struct {
		name  string
		cards int
		width int
		want  int
	}{
		{"single card", 1, 200, 0},
		{"three cards", 3, 400, 1},
		{"short deck", 4, 400, 1},
		{"full deck wide terminal", 9, 400, 4},
		{"narrow terminal", 9, 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, nil)
			m, _ = update(t, m, tea.WindowSizeMsg{Width: tt.width, Height: 40})
			m, _ = update(t, m, deckBuiltMsg{cards: newsCards(tt.cards)})

			got := m.renderedRadius()
			if got != tt.want {
				t.Errorf("renderedRadius() = %d, want %d", got, tt.want)
			}
			if got > 0 && rowWidth(got, m.baseCardWidth()) > tt.width {
				t.Errorf("row of radius %d does not fit width %d", got, tt.width)
			}
		})
	}
}

func TestModel_DisplayShowsCardsAndDots(t *testing.T) {
	m, engine := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	m, _ = update(t, m, deckBuiltMsg{cards: newsCards(3)})
	engine.SelectIndex(1)

	view := m.View()
	for _, want := range []string{"Story 0", "Story 1", "Story 2", "●", "○"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Count(view, "●") != 1 {
		t.Error("expected exactly one active dot")
	}
}

func TestModel_MouseOutsideZonesIgnored(t *testing.T) {
	m, engine := newTestModel(t, nil)
	m, _ = update(t, m, deckBuiltMsg{cards: newsCards(3)})

	_, _ = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if engine.Focus() != 0 {
		t.Errorf("click outside any zone moved focus to %d", engine.Focus())
	}
}

// zoneFor renders m and waits for the zone manager to record id
func zoneFor(t *testing.T, m Model, id string) *zone.ZoneInfo {
	t.Helper()
	m.View()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if z := m.zones.Get(id); z != nil && !z.IsZero() {
			return z
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("zone %q was never recorded", id)
	return nil
}

func click(z *zone.ZoneInfo) tea.MouseMsg {
	return tea.MouseMsg{
		X:      (z.StartX + z.EndX) / 2,
		Y:      (z.StartY + z.EndY) / 2,
		Action: tea.MouseActionRelease,
		Button: tea.MouseButtonLeft,
	}
}

func TestModel_ClickSelectsSlotAndPage(t *testing.T) {
	m, engine := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	m, _ = update(t, m, deckBuiltMsg{cards: newsCards(3)})

	if r := m.renderedRadius(); r != 1 {
		t.Fatalf("renderedRadius() = %d, want 1", r)
	}

	right := zoneFor(t, m, m.slotZoneID(1))
	press := click(right)
	press.Action = tea.MouseActionPress
	m, _ = update(t, m, press)
	if engine.Focus() != 0 {
		t.Fatalf("press without release moved focus to %d", engine.Focus())
	}

	m, _ = update(t, m, click(right))
	if engine.Focus() != 1 {
		t.Fatalf("focus after clicking slot +1 = %d, want 1", engine.Focus())
	}

	dot := zoneFor(t, m, m.pageZoneID(2))
	m, _ = update(t, m, click(dot))
	if engine.Focus() != 2 {
		t.Errorf("focus after clicking dot 2 = %d, want 2", engine.Focus())
	}

	active := zoneFor(t, m, m.slotZoneID(0))
	_, _ = update(t, m, click(active))
	if engine.Focus() != 2 {
		t.Errorf("clicking the focused card moved focus to %d", engine.Focus())
	}
}
