package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	ioutils "github.com/handiism/yggdrasil/internal/io"
)

// DefaultPath is the settings file read when no --config flag is given.
const DefaultPath = "yggdrasil.settings.json"

// Playlist formats accepted by PlaylistFormat.
const (
	PlaylistFormatM3U = "m3u"
	PlaylistFormatPLS = "pls"
	PlaylistFormatWPL = "wpl"
)

// Settings holds all configuration options.
type Settings struct {
	// Catalog
	CatalogPath string `json:"catalog_path"`

	// Provider settings
	SearchLimit           int     `json:"search_limit"`
	RequestTimeout        float64 `json:"request_timeout"` // seconds
	ProviderMaxRetries    int     `json:"provider_max_retries"`
	ProviderRetryCooldown float64 `json:"provider_retry_cooldown"` // seconds
	ProviderRetryExponent float64 `json:"provider_retry_exponent"`
	MaxConcurrentLookups  int     `json:"max_concurrent_lookups"`

	// Playlist settings
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl
	M3UExtended    bool   `json:"m3u_extended"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"` // console, json

	// Credentials come from the environment only.
	SpotifyClientID     string `json:"-"`
	SpotifyClientSecret string `json:"-"`
}

// Environment lists the variables that override Settings.
type Environment struct {
	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	CatalogPath         string `env:"YGGDRASIL_CATALOG"`
	LogLevel            string `env:"YGGDRASIL_LOG_LEVEL"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		CatalogPath: "yggdrasil.json",

		SearchLimit:           7,
		RequestTimeout:        30,
		ProviderMaxRetries:    2,
		ProviderRetryCooldown: 0.5,
		ProviderRetryExponent: 2,
		MaxConcurrentLookups:  4,

		PlaylistFormat: PlaylistFormatM3U,
		M3UExtended:    true,

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads settings from a JSON file. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file. Credentials are never written.
func (s *Settings) Save(ctx context.Context, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return ioutils.WriteFileAtomic(ctx, path, append(data, '\n'), 0o644)
}

// LoadEnvFiles loads variables from the given dotenv files, skipping files
// that do not exist. Variables already set in the process win.
func LoadEnvFiles(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings with values from the process environment.
// Unset variables leave the current value in place.
func (s *Settings) ApplyEnv() error {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	s.SpotifyClientID = strings.TrimSpace(e.SpotifyClientID)
	s.SpotifyClientSecret = strings.TrimSpace(e.SpotifyClientSecret)
	if e.CatalogPath != "" {
		s.CatalogPath = e.CatalogPath
	}
	if e.LogLevel != "" {
		s.LogLevel = e.LogLevel
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (s *Settings) Validate() error {
	switch {
	case strings.TrimSpace(s.CatalogPath) == "":
		return errors.New("catalog_path must not be empty")
	case s.SearchLimit <= 0:
		return fmt.Errorf("search_limit must be positive, got %d", s.SearchLimit)
	case s.RequestTimeout <= 0:
		return fmt.Errorf("request_timeout must be positive, got %g", s.RequestTimeout)
	case s.ProviderMaxRetries < 0:
		return fmt.Errorf("provider_max_retries must not be negative, got %d", s.ProviderMaxRetries)
	case s.ProviderRetryCooldown < 0:
		return fmt.Errorf("provider_retry_cooldown must not be negative, got %g", s.ProviderRetryCooldown)
	case s.ProviderRetryExponent < 1:
		return fmt.Errorf("provider_retry_exponent must be at least 1, got %g", s.ProviderRetryExponent)
	case s.MaxConcurrentLookups <= 0:
		return fmt.Errorf("max_concurrent_lookups must be positive, got %d", s.MaxConcurrentLookups)
	}

	switch strings.ToLower(s.PlaylistFormat) {
	case PlaylistFormatM3U, PlaylistFormatPLS, PlaylistFormatWPL:
	default:
		return fmt.Errorf("unknown playlist_format %q", s.PlaylistFormat)
	}

	switch strings.ToLower(s.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q", s.LogFormat)
	}
	return nil
}

// HasCredentials reports whether both Spotify credentials are set.
func (s *Settings) HasCredentials() bool {
	return s.SpotifyClientID != "" && s.SpotifyClientSecret != ""
}

// Timeout returns RequestTimeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return seconds(s.RequestTimeout)
}

// RetryCooldown returns ProviderRetryCooldown as a duration.
func (s *Settings) RetryCooldown() time.Duration {
	return seconds(s.ProviderRetryCooldown)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
