package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studio/internal/models"
)

func newArchiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "archive <task-id>",
		Aliases: []string{"a"},
		Short:   "Archive a task",
		Args:    cobra.ExactArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		task, err := setStatus(a, args[0], models.StatusArchived)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗃️  Archived task #%d: %s\n", task.ID, task.Title)
		return nil
	})
	return cmd
}

func newUnarchiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "unarchive <task-id>",
		Aliases: []string{"ua"},
		Short:   "Unarchive a task (move back to todo)",
		Args:    cobra.ExactArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		task, err := setStatus(a, args[0], models.StatusTodo)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📤 Unarchived task #%d: %s\n", task.ID, task.Title)
		fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", task.Status)
		return nil
	})
	return cmd
}
