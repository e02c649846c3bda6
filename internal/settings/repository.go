package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ngmaloney/signage-terminal/internal/database"
	"github.com/ngmaloney/signage-terminal/internal/models"
	_ "modernc.org/sqlite"
)

// Repository stores settings as a single versioned JSON row in sqlite
type Repository struct {
	dbPath string
}

// NewRepository creates a repository backed by the database at dbPath
func NewRepository(dbPath string) *Repository {
	return &Repository{dbPath: dbPath}
}

// Load reads the saved settings
func (r *Repository) Load(ctx context.Context) (models.Settings, error) {
	if err := database.EnsureSchema(r.dbPath); err != nil {
		return models.Settings{}, err
	}

	db, err := database.Open(r.dbPath)
	if err != nil {
		return models.Settings{}, err
	}
	defer db.Close()

	var version int
	var payload string
	err = db.QueryRowContext(ctx, "SELECT version, payload FROM signage_settings WHERE id = 1").Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, ErrNotFound
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("querying settings: %w", err)
	}

	if version != models.SettingsVersion {
		return models.Settings{}, fmt.Errorf("%w: version %d, want %d", ErrCorrupt, version, models.SettingsVersion)
	}

	var s models.Settings
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	s.Version = version

	return s, nil
}

// Save replaces the saved settings
func (r *Repository) Save(ctx context.Context, s models.Settings) error {
	if err := database.EnsureSchema(r.dbPath); err != nil {
		return err
	}

	s.Version = models.SettingsVersion
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	db, err := database.Open(r.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	query := `
		INSERT INTO signage_settings (id, version, payload, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, s.Version, string(payload)); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}
