package driven

import "github.com/goimon-labs/goimon-cli/internal/core/domain"

// ConfigStore persists application settings between runs.
type ConfigStore interface {
	// LoadSettings reads the persisted settings, applying defaults for
	// anything unset.
	LoadSettings() (domain.AppSettings, error)

	// SaveSettings writes the settings back to durable storage.
	SaveSettings(settings domain.AppSettings) error

	// Path returns the location of the backing file, for diagnostics.
	Path() string
}
