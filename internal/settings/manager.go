package settings

import (
	"context"
	"reflect"
	"sync"

	"github.com/ngmaloney/signage-terminal/internal/models"
	"go.uber.org/zap"
)

// SaveRecorder observes settings writes
type SaveRecorder interface {
	ObserveSettingsSave(result string)
}

// Manager owns the current settings
type Manager struct {
	mu       sync.RWMutex
	writeMu  sync.Mutex // serializes read-modify-write in Update
	current  models.Settings
	store    Store
	validate *Validator
	logger   *zap.Logger
	recorder SaveRecorder
	subs     []chan models.Settings
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithSaveRecorder reports every Update result to r
func WithSaveRecorder(r SaveRecorder) ManagerOption {
	return func(m *Manager) { m.recorder = r }
}

// NewManager creates a manager seeded with initial
func NewManager(store Store, initial models.Settings, logger *zap.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		current:  initial.Clone(),
		store:    store,
		validate: NewValidator(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns a copy of the current settings
func (m *Manager) Current() models.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// Update applies fn to a copy of the current settings, then validates,
// saves and publishes the result. Nothing changes if fn or any step fails.
func (m *Manager) Update(ctx context.Context, fn func(*models.Settings) error) (models.Settings, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	next := m.Current()
	if err := fn(&next); err != nil {
		return models.Settings{}, err
	}
	next.Version = models.SettingsVersion

	if err := m.validate.Validate(next); err != nil {
		m.observe("invalid")
		return models.Settings{}, err
	}
	if err := m.store.Save(ctx, next); err != nil {
		m.observe("error")
		m.logger.Error("failed to save settings", zap.Error(err))
		return models.Settings{}, err
	}
	m.observe("ok")

	m.set(next)
	return next.Clone(), nil
}

// Replace saves s as the new settings
func (m *Manager) Replace(ctx context.Context, s models.Settings) (models.Settings, error) {
	return m.Update(ctx, func(cur *models.Settings) error {
		*cur = s.Clone()
		return nil
	})
}

// Apply validates s and publishes it without saving. Used when the store
// was changed externally. Settings equal to the current ones are ignored.
func (m *Manager) Apply(s models.Settings) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.validate.Validate(s); err != nil {
		return err
	}

	m.mu.RLock()
	same := reflect.DeepEqual(m.current, s)
	m.mu.RUnlock()
	if same {
		m.logger.Debug("settings unchanged after reload")
		return nil
	}

	m.set(s.Clone())
	return nil
}

// Subscribe returns a channel receiving the latest settings after each
// change. Only the newest value is kept for a slow reader.
func (m *Manager) Subscribe() <-chan models.Settings {
	ch := make(chan models.Settings, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

func (m *Manager) set(s models.Settings) {
	m.mu.Lock()
	m.current = s
	subs := append([]chan models.Settings(nil), m.subs...)
	m.mu.Unlock()

	m.logger.Info("settings changed",
		zap.Int("cards", s.PoolSize()),
		zap.Int("overlays", len(s.TimeOverlays)),
		zap.Int("interval_ms", s.RotationIntervalMs),
	)

	for _, ch := range subs {
		sendLatest(ch, s.Clone())
	}
}

// sendLatest replaces any unread value in ch with v
func sendLatest(ch chan models.Settings, v models.Settings) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (m *Manager) observe(result string) {
	if m.recorder != nil {
		m.recorder.ObserveSettingsSave(result)
	}
}
