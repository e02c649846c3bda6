package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ngmaloney/signage-terminal/internal/adminapi"
	"github.com/ngmaloney/signage-terminal/internal/carousel"
	"github.com/ngmaloney/signage-terminal/internal/database"
	"github.com/ngmaloney/signage-terminal/internal/ui"
	"github.com/spf13/viper"
)

const (
	defaultLogFile         = "data/signage.log"
	defaultLogLevel        = "info"
	defaultRefreshInterval = 15 * time.Minute
)

// appConfig is runtime configuration for the terminal. User-editable
// content (cards, overlays, timing) lives in the settings store instead.
type appConfig struct {
	DBPath          string        `mapstructure:"db-path"`
	SettingsFile    string        `mapstructure:"settings-file"`
	LogFile         string        `mapstructure:"log-file"`
	LogLevel        string        `mapstructure:"log-level"`
	APIEnabled      bool          `mapstructure:"api-enabled"`
	APIAddr         string        `mapstructure:"api-addr"`
	VisibleRadius   int           `mapstructure:"visible-radius"`
	RefreshInterval time.Duration `mapstructure:"refresh-interval"`
	WeatherTimeout  time.Duration `mapstructure:"weather-timeout"`
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SIGNAGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("db-path", database.DBPath())
	v.SetDefault("settings-file", "")
	v.SetDefault("log-file", defaultLogFile)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-addr", adminapi.DefaultAddr)
	v.SetDefault("visible-radius", carousel.DefaultRadius)
	v.SetDefault("refresh-interval", defaultRefreshInterval)
	v.SetDefault("weather-timeout", ui.DefaultFetchTimeout)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "signage-terminal", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if cfg.VisibleRadius < 0 {
		return cfg, fmt.Errorf("invalid visible-radius: %d", cfg.VisibleRadius)
	}
	if cfg.WeatherTimeout <= 0 {
		return cfg, fmt.Errorf("invalid weather-timeout: %s", cfg.WeatherTimeout)
	}

	// Expand ~ in paths
	for _, p := range []*string{&cfg.DBPath, &cfg.SettingsFile, &cfg.LogFile} {
		if strings.HasPrefix(*p, "~/") {
			*p = filepath.Join(home, (*p)[2:])
		}
	}

	return cfg, nil
}
