package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recorded task decisions",
	Args:  cobra.NoArgs,
	RunE:  runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	entries, err := app.audit.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No decisions recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tACTOR\tTASK\tOUTCOME")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.String("timestamp"), e.String("action"), e.String("actor"), e.String("taskId"), e.String("outcome"))
	}
	return w.Flush()
}
