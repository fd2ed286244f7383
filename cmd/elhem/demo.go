package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run sample employee and manager requests against the store",
	Long: `Runs four canned requests: an employee listing and updating their tasks,
then a manager listing team tasks and performance reports.

The update changes stored data.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

var demoSteps = []struct {
	role, id, input string
}{
	{"employee", "E001", "check my tasks"},
	{"employee", "E001", "update task T001 to in_progress"},
	{"manager", "M001", "show all team tasks"},
	{"manager", "M001", "show performance reports"},
}

func runDemo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, step := range demoSteps {
		resp, err := app.assistant.Respond(cmd.Context(), step.role, step.id, step.input)
		if err != nil {
			return fmt.Errorf("%s %s %q: %w", step.role, step.id, step.input, err)
		}
		fmt.Fprintf(out, "=== %s %s: %s\n%s\n\n", step.role, step.id, step.input, resp)
	}
	return nil
}
