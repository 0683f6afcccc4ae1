package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `toml:"base_url"`

	// APIKey is the API key (for OpenAI). Usually supplied via environment.
	APIKey string `toml:"api_key"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the model name.
	Model string `toml:"model"`

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string `toml:"base_url"`

	// APIKey is the API key (for OpenAI). Usually supplied via environment.
	APIKey string `toml:"api_key"`
}

// IsConfigured returns true if the generation provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// SessionSettings holds session lifecycle configuration.
type SessionSettings struct {
	// TTL is the idle lifetime of a session in seconds. Zero disables
	// expiry and sessions live for the process lifetime.
	TTL int64 `toml:"ttl"`
}

// AppSettings holds all application settings.
type AppSettings struct {
	// MenuPath is the menu catalog JSON file.
	MenuPath string `toml:"menu_path"`

	// DataDir holds the order database. Empty means the default location.
	DataDir string `toml:"data_dir"`

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings `toml:"embedding"`

	// LLM holds generation provider settings.
	LLM LLMSettings `toml:"llm"`

	// Sessions holds session lifecycle settings.
	Sessions SessionSettings `toml:"sessions"`
}

// DefaultAppSettings returns settings with sensible defaults.
// The generation provider is left unconfigured by default: without it the
// bot still works, degrading general queries to retrieval-only answers.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		MenuPath: "data/menu.json",
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
		},
		LLM: LLMSettings{},
	}
}

// AllAIProviders returns the providers supported for both embeddings and
// generation.
func AllAIProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each generation provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// EmbeddingDimensions returns the known vector sizes per embedding model.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
