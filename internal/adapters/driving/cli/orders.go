package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect and manage placed orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list [session-id]",
	Short: "List a session's orders, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersList,
}

var ordersShowCmd = &cobra.Command{
	Use:   "show [order-id]",
	Short: "Show a single order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersShow,
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel [order-id]",
	Short: "Cancel a pending order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersCancel,
}

func init() {
	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersShowCmd)
	ordersCmd.AddCommand(ordersCancelCmd)
	rootCmd.AddCommand(ordersCmd)
}

func parseOrderID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid order ID %q", arg)
	}
	return id, nil
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	if orderService == nil {
		return errors.New("order service not configured")
	}

	orders, err := orderService.History(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("listing orders: %w", err)
	}

	if len(orders) == 0 {
		cmd.Println("No orders for this session.")
		return nil
	}

	for _, order := range orders {
		cmd.Printf("  #%d  %-10s %10sđ  %s\n",
			order.ID, order.Status, domain.FormatPrice(order.Total),
			order.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runOrdersShow(cmd *cobra.Command, args []string) error {
	if orderService == nil {
		return errors.New("order service not configured")
	}

	id, err := parseOrderID(args[0])
	if err != nil {
		return err
	}

	order, err := orderService.Get(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("order %d not found", id)
		}
		return fmt.Errorf("getting order: %w", err)
	}

	cmd.Printf("Order #%d (%s)\n", order.ID, order.Status)
	cmd.Printf("Session: %s\n", order.SessionID)
	cmd.Printf("Placed:  %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Println()
	for _, item := range order.Items {
		cmd.Printf("  %-25s %10sđ\n", item.Name, domain.FormatPrice(item.Price))
	}
	cmd.Printf("\n  Tổng cộng: %sđ\n", domain.FormatPrice(order.Total))
	return nil
}

func runOrdersCancel(cmd *cobra.Command, args []string) error {
	if orderService == nil {
		return errors.New("order service not configured")
	}

	id, err := parseOrderID(args[0])
	if err != nil {
		return err
	}

	changed, err := orderService.Cancel(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("cancelling order: %w", err)
	}
	if !changed {
		cmd.Printf("Order #%d was not cancelled (unknown or already cancelled).\n", id)
		return nil
	}

	cmd.Printf("Order #%d cancelled.\n", id)
	return nil
}
