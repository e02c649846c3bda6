// Package settings persists and distributes the user-editable display
// configuration. A Manager holds the current settings in memory, validates
// every change, writes it through a Store and notifies subscribers.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ngmaloney/signage-terminal/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means nothing has been saved yet
	ErrNotFound = errors.New("settings not found")
	// ErrCorrupt means saved settings exist but cannot be decoded
	ErrCorrupt = errors.New("settings corrupt")
	// ErrPoolFull means the card pool already holds models.MaxPoolSize cards
	ErrPoolFull = errors.New("card pool is full")
	// ErrInvalid wraps validation failures
	ErrInvalid = errors.New("invalid settings")
)

// Store loads and saves the settings record
type Store interface {
	Load(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, s models.Settings) error
}

// LoadOrDefault loads settings from store, substituting the built-in
// defaults on any failure. Saved settings that decode but fail validation
// count as corrupt.
func LoadOrDefault(ctx context.Context, store Store, logger *zap.Logger) models.Settings {
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := store.Load(ctx)
	if err == nil {
		if verr := NewValidator().Validate(s); verr != nil {
			err = fmt.Errorf("%w: %w", ErrCorrupt, verr)
		} else {
			return s
		}
	}

	if errors.Is(err, ErrNotFound) {
		logger.Info("no saved settings, using defaults")
	} else {
		logger.Warn("failed to load settings, using defaults", zap.Error(err))
	}
	return models.DefaultSettings()
}

// MemoryStore keeps settings in process memory
type MemoryStore struct {
	mu    sync.Mutex
	saved *models.Settings
	saves int
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return models.Settings{}, ErrNotFound
	}
	return m.saved.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, s models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := s.Clone()
	m.saved = &c
	m.saves++
	return nil
}

// Saves returns how many times Save was called
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
