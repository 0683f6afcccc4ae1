// Package file provides a TOML-backed settings store.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore persists application settings as TOML. Secrets (API keys)
// are taken from the environment, never written to the file; a .env file
// in the working directory is loaded once if present.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a TOML-based config store.
// If configDir is empty, defaults to ~/.goimon/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".goimon")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	// .env is optional; its absence is not an error.
	_ = godotenv.Load()

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Path returns the location of the backing file.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// LoadSettings reads the persisted settings. A missing file yields the
// defaults; environment variables overlay the result.
func (s *ConfigStore) LoadSettings() (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultAppSettings()

	data, err := os.ReadFile(s.filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: defaults only.
	case err != nil:
		return settings, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return settings, fmt.Errorf("parsing config %s: %w", s.filePath, err)
		}
	}

	applyEnvOverrides(&settings)
	return settings, nil
}

// SaveSettings writes the settings to the TOML file. API keys are blanked
// so secrets stay out of the config file.
func (s *ConfigStore) SaveSettings(settings domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings.Embedding.APIKey = ""
	settings.LLM.APIKey = ""

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets the environment override file values. Only keys
// that are set take effect.
func applyEnvOverrides(settings *domain.AppSettings) {
	if v := os.Getenv("GOIMON_MENU_PATH"); v != "" {
		settings.MenuPath = v
	}
	if v := os.Getenv("GOIMON_DATA_DIR"); v != "" {
		settings.DataDir = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if settings.Embedding.Provider == domain.AIProviderOpenAI {
			settings.Embedding.APIKey = v
		}
		if settings.LLM.Provider == domain.AIProviderOpenAI {
			settings.LLM.APIKey = v
		}
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		if settings.Embedding.Provider == domain.AIProviderOllama && settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = v
		}
		if settings.LLM.Provider == domain.AIProviderOllama && settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = v
		}
	}
	if v := os.Getenv("GOIMON_SESSION_TTL"); v != "" {
		if ttl, err := strconv.ParseInt(v, 10, 64); err == nil {
			settings.Sessions.TTL = ttl
		}
	}
}
