package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <employee|manager> <id> <message...>",
	Short: "Send one request as an employee or manager",
	Example: `  elhem ask employee E001 check my tasks
  elhem ask employee E001 update task T001 to in_progress
  elhem ask manager M001 show performance reports`,
	Args: cobra.MinimumNArgs(3),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	resp, err := app.assistant.Respond(cmd.Context(), args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp)
	return nil
}
