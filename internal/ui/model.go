package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/ngmaloney/signage-terminal/internal/carousel"
	"github.com/ngmaloney/signage-terminal/internal/models"
	"github.com/ngmaloney/signage-terminal/internal/overlay"
	"go.uber.org/zap"
)

// AppState represents the current state of the application
type AppState int

const (
	StateLoading AppState = iota // Waiting for the first card sequence
	StateDisplay                 // Showing the carousel
)

// DefaultFetchTimeout bounds one deck build, including the weather lookup
const DefaultFetchTimeout = 15 * time.Second

// Config wires the display shell to the rest of the application
type Config struct {
	Engine          *carousel.Engine
	Deck            DeckBuilder
	Settings        models.Settings
	SettingsUpdates <-chan models.Settings // optional
	Radius          int                    // visible slots on each side of the focus
	RefreshInterval time.Duration          // periodic deck rebuild; 0 disables
	FetchTimeout    time.Duration
	Logger          *zap.Logger
	Clock           func() time.Time
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int

	engine     *carousel.Engine
	deck       DeckBuilder
	settings   models.Settings
	settingsCh <-chan models.Settings
	evaluator  *overlay.Evaluator

	radius          int
	refreshInterval time.Duration
	fetchTimeout    time.Duration
	pending         int // deck builds in flight

	spinner    spinner.Model
	zones      *zone.Manager
	zonePrefix string

	now    time.Time
	clock  func() time.Time
	logger *zap.Logger
}

// NewModel creates a new application model
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Radius <= 0 {
		cfg.Radius = carousel.DefaultRadius
	}

	zones := zone.New()
	now := cfg.Clock()
	evaluator := overlay.NewEvaluator(cfg.Settings.TimeOverlays, cfg.Logger)
	evaluator.Tick(now)

	return Model{
		state:           StateLoading,
		engine:          cfg.Engine,
		deck:            cfg.Deck,
		settings:        cfg.Settings.Clone(),
		settingsCh:      cfg.SettingsUpdates,
		evaluator:       evaluator,
		radius:          cfg.Radius,
		refreshInterval: cfg.RefreshInterval,
		fetchTimeout:    cfg.FetchTimeout,
		spinner:         s,
		zones:           zones,
		zonePrefix:      zones.NewPrefix(),
		now:             now,
		clock:           cfg.Clock,
		logger:          cfg.Logger,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		buildDeck(m.deck, m.settings, m.fetchTimeout),
		waitForSnapshot(m.engine.Updates()),
		waitForSettings(m.settingsCh),
		clockTick(),
		refreshTick(m.refreshInterval),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m.refresh()
		}
		return m, nil

	case tea.MouseMsg:
		if hit := m.hitTest(msg); hit != nil {
			return m.Update(hit)
		}
		return m, nil

	case slotSelectedMsg:
		m.engine.SelectOffset(msg.offset)
		return m, nil

	case pageSelectedMsg:
		m.engine.SelectIndex(msg.index)
		return m, nil

	case deckBuiltMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.engine.SetSequence(msg.cards)
		if len(msg.cards) > 0 {
			m.state = StateDisplay
		} else {
			m.state = StateLoading
		}
		m.logger.Debug("card sequence installed",
			zap.Int("cards", len(msg.cards)),
			zap.Duration("took", msg.took),
		)
		return m, nil

	case snapshotMsg:
		// focus moved; rendering reads the engine directly
		return m, waitForSnapshot(m.engine.Updates())

	case settingsChangedMsg:
		m.settings = models.Settings(msg)
		m.engine.SetTiming(
			time.Duration(m.settings.RotationIntervalMs)*time.Millisecond,
			time.Duration(m.settings.TransitionMs)*time.Millisecond,
		)
		m.evaluator.SetWindows(m.settings.TimeOverlays, m.logger)
		m.evaluator.Tick(m.now)

		next, cmd := m.refresh()
		return next, tea.Batch(cmd, waitForSettings(next.settingsCh))

	case clockTickMsg:
		m.now = time.Time(msg)
		if m.evaluator.Tick(m.now) {
			label, active := m.evaluator.Label()
			m.logger.Info("time overlay changed", zap.String("label", label), zap.Bool("active", active))
		}
		return m, clockTick()

	case refreshTickMsg:
		next, cmd := m.refresh()
		return next, tea.Batch(cmd, refreshTick(m.refreshInterval))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// refresh rebuilds the deck in the background. The current sequence stays
// on screen until the new one arrives.
func (m Model) refresh() (Model, tea.Cmd) {
	m.pending++
	return m, buildDeck(m.deck, m.settings, m.fetchTimeout)
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if label, ok := m.evaluator.Label(); ok {
		return m.viewOverlay(label)
	}

	if m.state == StateLoading || m.engine.Len() == 0 {
		return m.viewLoading()
	}

	return m.zones.Scan(m.viewDisplay())
}

// viewLoading renders the sync screen
func (m Model) viewLoading() string {
	body := lipgloss.JoinHorizontal(lipgloss.Center, m.spinner.View(), " ", mutedStyle.Render("Syncing..."))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// viewOverlay renders the full-screen time message
func (m Model) viewOverlay(label string) string {
	body := lipgloss.JoinVertical(
		lipgloss.Center,
		overlayLabelStyle.Render(label),
		overlayClockStyle.Render(m.now.Format("15:04")),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body,
		lipgloss.WithWhitespaceBackground(colorOverlayBg))
}

// viewDisplay renders the carousel, pagination and help
func (m Model) viewDisplay() string {
	help := helpStyle.Render("Click: Select • R: Refresh • Q: Quit")

	body := lipgloss.JoinVertical(
		lipgloss.Center,
		m.viewCarousel(),
		"",
		m.viewPagination(),
		help,
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body,
		lipgloss.WithWhitespaceBackground(colorBackdrop))
}
