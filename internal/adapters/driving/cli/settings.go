package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goimon-labs/goimon-cli/internal/adapters/driven/ai"
	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the menu location, AI providers, and session options.

Use subcommands to configure specific settings or run the interactive wizard.
API keys are read from the environment (OPENAI_API_KEY) and are never written
to the config file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for menu similarity search.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for free-form replies.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings, err := configStore.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[General]")
	cmd.Printf("  Config file: %s\n", configStore.Path())
	cmd.Printf("  Menu file: %s\n", settings.MenuPath)
	if settings.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", settings.DataDir)
	} else {
		cmd.Printf("  Data dir: (default)\n")
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	printProviderSettings(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())

	cmd.Println("[LLM]")
	printProviderSettings(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())

	cmd.Println("[Sessions]")
	if settings.Sessions.TTL > 0 {
		cmd.Printf("  TTL: %ds\n", settings.Sessions.TTL)
	} else {
		cmd.Printf("  TTL: disabled (sessions live for the process lifetime)\n")
	}
	cmd.Println()

	if !settings.Embedding.IsConfigured() {
		cmd.Println("Similarity search is disabled without an embedding provider.")
		cmd.Println("Run 'goimon settings wizard' to finish setup.")
	}
	return nil
}

func printProviderSettings(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	if !provider.IsValid() {
		cmd.Printf("  Provider: (not set)\n")
		cmd.Printf("  Status: not configured\n")
		cmd.Println()
		return
	}

	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if provider == domain.AIProviderOllama {
		if baseURL != "" {
			cmd.Printf("  Base URL: %s\n", baseURL)
		} else {
			cmd.Printf("  Base URL: (default)\n")
		}
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s (from environment)\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set; export OPENAI_API_KEY)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings, err := configStore.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	cmd.Println("goimon Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Menu")
	cmd.Println("------------")
	cmd.Printf("Menu file [%s]: ", settings.MenuPath)
	if path := readLine(reader); path != "" {
		settings.MenuPath = path
	}
	cmd.Println()

	cmd.Println("Step 2: Sessions")
	cmd.Println("----------------")
	cmd.Printf("Session TTL in seconds, 0 keeps sessions forever [%d]: ", settings.Sessions.TTL)
	if input := readLine(reader); input != "" {
		ttl, err := strconv.ParseInt(input, 10, 64)
		if err != nil || ttl < 0 {
			return fmt.Errorf("%w: session TTL %q", domain.ErrInvalidInput, input)
		}
		settings.Sessions.TTL = ttl
	}
	cmd.Println()

	cmd.Println("Step 3: Embedding Provider")
	cmd.Println("--------------------------")
	cmd.Println("Menu similarity search needs an embedding provider.")
	cmd.Println()
	configureEmbeddingProvider(cmd, reader, &settings)

	cmd.Println("Step 4: LLM Provider")
	cmd.Println("--------------------")
	cmd.Print("Configure an LLM provider for free-form replies? [y/N]: ")
	if answer := strings.ToLower(readLine(reader)); answer == "y" || answer == "yes" {
		cmd.Println()
		configureLLMProvider(cmd, reader, &settings)
	} else {
		cmd.Println("Skipped. General questions will be answered from search results only.")
		cmd.Println()
	}

	if err := saveSettings(cmd, settings); err != nil {
		return err
	}

	cmd.Println()
	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	validateProviders(cmd, settings)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings, err := configStore.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	configureEmbeddingProvider(cmd, reader, &settings)

	if err := saveSettings(cmd, settings); err != nil {
		return err
	}
	validateEmbedding(cmd, settings.Embedding)
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings, err := configStore.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	configureLLMProvider(cmd, reader, &settings)

	if err := saveSettings(cmd, settings); err != nil {
		return err
	}
	validateLLM(cmd, settings.LLM)
	return nil
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader, settings *domain.AppSettings) {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaults := domain.DefaultEmbeddingModels()
	cmd.Printf("Enter model name [%s]: ", defaults[provider])
	model := readLine(reader)
	if model == "" {
		model = defaults[provider]
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	settings.Embedding.APIKey = ""

	if provider == domain.AIProviderOllama {
		cmd.Print("Enter base URL (blank for default): ")
		settings.Embedding.BaseURL = readLine(reader)
	}
	if provider.RequiresAPIKey() {
		// Keys never enter the config file; the provider reads them from
		// the environment at startup.
		settings.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		if settings.Embedding.APIKey == "" {
			cmd.Println("Note: export OPENAI_API_KEY before running goimon.")
		}
	}

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", provider.Description(), model)
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader, settings *domain.AppSettings) {
	cmd.Println("Select LLM Provider")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaults := domain.DefaultLLMModels()
	cmd.Printf("Enter model name [%s]: ", defaults[provider])
	model := readLine(reader)
	if model == "" {
		model = defaults[provider]
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	settings.LLM.APIKey = ""

	if provider == domain.AIProviderOllama {
		cmd.Print("Enter base URL (blank for default): ")
		settings.LLM.BaseURL = readLine(reader)
	}
	if provider.RequiresAPIKey() {
		settings.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if settings.LLM.APIKey == "" {
			cmd.Println("Note: export OPENAI_API_KEY before running goimon.")
		}
	}

	cmd.Printf("LLM provider configured: %s (%s)\n\n", provider.Description(), model)
}

// saveSettings persists the settings; the store blanks API keys on write.
func saveSettings(cmd *cobra.Command, settings domain.AppSettings) error {
	if err := configStore.SaveSettings(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	cmd.Printf("Settings saved to %s.\n", configStore.Path())
	return nil
}

// validateProviders pings every configured provider. Failures are reported
// as warnings: the settings are already saved and the assistant degrades
// gracefully when a provider is unreachable.
func validateProviders(cmd *cobra.Command, settings domain.AppSettings) {
	validateEmbedding(cmd, settings.Embedding)
	validateLLM(cmd, settings.LLM)
}

func validateEmbedding(cmd *cobra.Command, settings domain.EmbeddingSettings) {
	if !settings.IsConfigured() {
		return
	}
	cmd.Print("Validating embedding provider... ")
	svc, err := ai.CreateAndValidateEmbeddingService(&settings)
	if err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return
	}
	if svc != nil {
		svc.Close()
	}
	cmd.Println("OK")
}

func validateLLM(cmd *cobra.Command, settings domain.LLMSettings) {
	if !settings.IsConfigured() {
		return
	}
	cmd.Print("Validating LLM provider... ")
	svc, err := ai.CreateAndValidateLLMService(&settings)
	if err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return
	}
	if svc != nil {
		svc.Close()
	}
	cmd.Println("OK")
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
