package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/elhem/internal/assistant"
	"github.com/fentz26/elhem/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

var (
	chatRole string
	chatID   string
)

func init() {
	chatCmd.Flags().StringVar(&chatRole, "role", assistant.RoleEmployee, "Session role (employee or manager)")
	chatCmd.Flags().StringVar(&chatID, "id", "", "Your employee or manager id (required)")
	chatCmd.MarkFlagRequired("id")
}

func runChat(cmd *cobra.Command, args []string) error {
	switch chatRole {
	case assistant.RoleEmployee, assistant.RoleManager:
	default:
		return errors.New(assistant.InvalidRole)
	}

	chat := tui.New(cmd.Context(), app.assistant, chatRole, chatID, cfg.Assistant.SystemName)
	if err := chat.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
