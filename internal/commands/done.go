package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studio/internal/db"
	"github.com/balkashynov/studio/internal/models"
)

// setStatus moves a task to status and returns the updated task.
func setStatus(a *app, arg string, status models.Status) (*models.Task, error) {
	id, err := parseID(models.EntityTask, arg)
	if err != nil {
		return nil, err
	}
	if err := a.store.UpdateTask(id, db.TaskUpdate{Status: &status}); err != nil {
		return nil, err
	}
	return a.store.TaskByID(id)
}

func newDoneCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		task, err := setStatus(a, args[0], models.StatusDone)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Marked task #%d as done: %s\n", task.ID, task.Title)
		fmt.Fprintf(cmd.OutOrStdout(), "Completed at: %s\n", task.UpdatedAt.Format("2006-01-02 15:04"))
		return nil
	})
	return cmd
}

func newUndoneCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undone <task-id>",
		Short: "Mark a completed task back to todo status",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		task, err := setStatus(a, args[0], models.StatusTodo)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "↩️  Marked task #%d back to todo: %s\n", task.ID, task.Title)
		return nil
	})
	return cmd
}
