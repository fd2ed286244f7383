package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Inspect team membership",
}

var teamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members",
	Args:  cobra.NoArgs,
	RunE:  runTeamList,
}

var teamMembersCmd = &cobra.Command{
	Use:   "members [manager-id]",
	Short: "List the ids whose tasks a manager sees",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeamMembers,
}

func init() {
	teamCmd.AddCommand(teamListCmd, teamMembersCmd)
}

func runTeamList(cmd *cobra.Command, args []string) error {
	members, err := app.team.All(cmd.Context())
	if err != nil {
		return err
	}
	if len(members) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No team members found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMPLOYEE\tMANAGER\tNAME\tROLE")
	for _, m := range members {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.String("employeeId"), m.String("managerId"), m.String("name"), m.String("role"))
	}
	return w.Flush()
}

func runTeamMembers(cmd *cobra.Command, args []string) error {
	ids, err := app.team.MembersOf(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

