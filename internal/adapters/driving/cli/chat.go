package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the ordering assistant",
	Long: `Start an interactive ordering conversation, or send a single message.

With no arguments an interactive session starts; type 'exit' to leave.
With a message argument a single turn runs and the reply is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if len(args) == 1 {
		reply, _, err := chatService.Handle(cmd.Context(), args[0], "")
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}
		cmd.Println(reply)
		return nil
	}

	return runChatLoop(cmd)
}

// runChatLoop reads messages line by line until EOF or an exit command.
func runChatLoop(cmd *cobra.Command) error {
	cmd.Println(chatService.Welcome())
	cmd.Println()

	sessionID := ""
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		cmd.Print("Bạn: ")
		if !scanner.Scan() {
			break
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		switch strings.ToLower(message) {
		case "exit", "quit", "thoát":
			cmd.Println("Cảm ơn quý khách, hẹn gặp lại!")
			return nil
		}

		reply, newSessionID, err := chatService.Handle(cmd.Context(), message, sessionID)
		if err != nil {
			cmd.PrintErrf("lỗi: %v\n", err)
			continue
		}
		sessionID = newSessionID

		cmd.Println(reply)
		cmd.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
