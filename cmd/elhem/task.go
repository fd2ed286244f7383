package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/elhem/internal/models"
	"github.com/fentz26/elhem/internal/tasks"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	Args:  cobra.NoArgs,
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Updates a task. With --as the caller must be the assignee and only the
status changes. Without it the fields are merged unconditionally.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskUpdate,
}

var (
	taskTitle    string
	taskDesc     string
	taskAssignee string
	taskPriority string
	createdBy    string

	listAssignee string
	listManager  string

	updateStatus string
	updateFields map[string]string
	updateAs     string
	updateBy     string
)

func init() {
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskUpdateCmd)

	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "Task title (required)")
	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "Task description")
	taskAddCmd.Flags().StringVar(&taskAssignee, "assignee", "", "Employee id the task is assigned to (required)")
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", "medium", "Priority (low, medium, high)")
	taskAddCmd.Flags().StringVar(&createdBy, "by", "", "Id recorded as the creator")
	taskAddCmd.MarkFlagRequired("title")
	taskAddCmd.MarkFlagRequired("assignee")

	taskListCmd.Flags().StringVar(&listAssignee, "assignee", "", "Only tasks assigned to this employee")
	taskListCmd.Flags().StringVar(&listManager, "manager", "", "Only tasks of this manager and their direct reports")
	taskListCmd.MarkFlagsMutuallyExclusive("assignee", "manager")

	taskUpdateCmd.Flags().StringVar(&updateStatus, "status", "", "New status")
	taskUpdateCmd.Flags().StringToStringVar(&updateFields, "set", nil, "Fields to merge (key=value)")
	taskUpdateCmd.Flags().StringVar(&updateAs, "as", "", "Update as this employee (status only)")
	taskUpdateCmd.Flags().StringVar(&updateBy, "by", "", "Id recorded as the updater")
	taskUpdateCmd.MarkFlagsMutuallyExclusive("as", "set")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	task, err := app.tasks.Create(cmd.Context(), tasks.NewTask{
		Title:        taskTitle,
		Description:  taskDesc,
		AssignedToID: taskAssignee,
		Priority:     taskPriority,
		CreatedBy:    createdBy,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created task: %s (due %s)\n", task.TaskID, task.DueDate)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	var (
		records []models.Record
		err     error
	)
	switch {
	case listAssignee != "":
		records, err = app.tasks.TasksFor(ctx, listAssignee)
	case listManager != "":
		records, err = app.tasks.TasksForManager(ctx, listManager)
	default:
		records, err = app.tasks.All(ctx)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tASSIGNEE\tSTATUS\tPRIORITY\tDUE")
	for _, t := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.String(models.FieldTaskID),
			truncate(t.String(models.FieldTitle), 40),
			t.String(models.FieldAssignedToID),
			t.String(models.FieldStatus),
			t.String(models.FieldPriority),
			t.String(models.FieldDueDate))
	}
	return w.Flush()
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	rec, ok, err := app.tasks.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("task %s not found", args[0])
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	taskID := args[0]

	var (
		res tasks.Result
		err error
	)
	if updateAs != "" {
		if updateStatus == "" {
			return fmt.Errorf("--status is required with --as")
		}
		res, err = app.tasks.UpdateStatus(ctx, taskID, updateStatus, updateAs)
	} else {
		fields := make(map[string]any, len(updateFields)+1)
		for k, v := range updateFields {
			fields[k] = v
		}
		if updateStatus != "" {
			fields[models.FieldStatus] = updateStatus
		}
		if len(fields) == 0 {
			return fmt.Errorf("nothing to update: use --status or --set")
		}
		res, err = app.tasks.UpdateAny(ctx, updateBy, taskID, fields)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	if !res.OK() {
		return fmt.Errorf("task %s not updated", taskID)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
