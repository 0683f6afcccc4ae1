package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

var menuJSON bool

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the restaurant menu",
	RunE:  runMenu,
}

var menuReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Rebuild the menu index from the menu file",
	RunE:  runMenuReload,
}

func init() {
	menuCmd.Flags().BoolVar(&menuJSON, "json", false, "output the menu as JSON")
	menuCmd.AddCommand(menuReloadCmd)
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	items := catalogService.Items()
	if len(items) == 0 {
		cmd.Println("Menu trống.")
		return nil
	}

	if menuJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal menu: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	// Group by category, preserving first-appearance order.
	var categories []string
	byCategory := make(map[string][]domain.MenuItem)
	for _, item := range items {
		if _, ok := byCategory[item.Category]; !ok {
			categories = append(categories, item.Category)
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	for _, category := range categories {
		cmd.Printf("▸ %s\n", category)
		for _, item := range byCategory[category] {
			marker := ""
			if !item.Available {
				marker = "  (hết hàng)"
			}
			cmd.Printf("  %-25s %10sđ%s\n", item.Name, domain.FormatPrice(item.Price), marker)
		}
		cmd.Println()
	}
	return nil
}

func runMenuReload(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	if err := catalogService.Reload(cmd.Context()); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	cmd.Printf("Menu reloaded: %d items.\n", len(catalogService.Items()))
	return nil
}
