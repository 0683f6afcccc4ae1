// Package cli implements the goimon command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goimon-labs/goimon-cli/internal/core/ports/driven"
	"github.com/goimon-labs/goimon-cli/internal/core/ports/driving"
	"github.com/goimon-labs/goimon-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Injected services, set by main before Execute runs.
var (
	chatService    driving.ChatService
	catalogService driving.CatalogService
	orderService   driving.OrderService
	configStore    driven.ConfigStore
)

// Services aggregates the driving ports the CLI depends on.
// This provides a single injection point for dependency injection.
type Services struct {
	Chat    driving.ChatService
	Catalog driving.CatalogService
	Orders  driving.OrderService
	Config  driven.ConfigStore
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	chatService = s.Chat
	catalogService = s.Catalog
	orderService = s.Orders
	configStore = s.Config
}

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "goimon",
	Short: "Conversational ordering assistant for a Vietnamese restaurant",
	Long: `goimon is a terminal assistant for ordering Vietnamese food.

It understands short natural-language requests (in Vietnamese or English),
keeps a per-session cart, confirms and cancels orders, and answers menu
questions using embedding search with an optional LLM for free-form replies.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
