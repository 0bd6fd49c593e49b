package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/tui"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Long:    "List tasks, optionally only those in one status or due today",
		Args:    cobra.NoArgs,
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		statusFlag, _ := cmd.Flags().GetString("status")
		today, _ := cmd.Flags().GetBool("today")

		var status models.Status
		if statusFlag != "" {
			parsed, err := models.ParseStatus(statusFlag)
			if err != nil {
				return err
			}
			status = parsed
		}

		var (
			tasks []models.Task
			err   error
		)
		switch {
		case today:
			tasks, err = a.store.TasksDueToday()
		case status.Valid():
			tasks, err = a.store.TasksByStatus(status)
		default:
			tasks, err = a.store.AllTasks()
		}
		if err != nil {
			return err
		}
		if today && status.Valid() {
			tasks = filterStatus(tasks, status)
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found. Use 'studio add \"task title\"' to create your first task.")
			return nil
		}
		fmt.Fprint(out, tui.TaskTable(tasks, a.now()))
		return nil
	})

	cmd.Flags().StringP("status", "s", "", "Filter by status: todo, in_progress, paused, done, archived")
	cmd.Flags().Bool("today", false, "Show only tasks due today")
	return cmd
}

func filterStatus(tasks []models.Task, status models.Status) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show every field of a task",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		id, err := parseID(models.EntityTask, args[0])
		if err != nil {
			return err
		}
		task, err := a.store.TaskByID(id)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.TaskDetail(*task, a.now()))
		return nil
	})
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		id, err := parseID(models.EntityTask, args[0])
		if err != nil {
			return err
		}
		deleted, err := a.store.DeleteTask(id)
		if err != nil {
			return err
		}
		if !deleted {
			return models.NotFound(models.EntityTask, id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
		return nil
	})
	return cmd
}
