package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find menu dishes matching a description",
	Long: `Searches the menu by meaning rather than exact words.
Dish descriptions are embedded and ranked by vector distance to the query.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	items, err := catalogService.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(items) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, item := range items {
		cmd.Printf("  [%d] %s (%s) - %sđ\n", i+1, item.Name, item.Category, domain.FormatPrice(item.Price))
		if item.Description != "" {
			cmd.Printf("      %s\n", item.Description)
		}
		cmd.Println()
	}
	return nil
}
