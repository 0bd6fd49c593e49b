package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/studio/internal/db"
	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/tui"
)

// boardActions adapts the store to the board.
type boardActions struct {
	store *db.Store
}

func (b boardActions) Tasks() ([]models.Task, error) {
	return b.store.AllTasks()
}

func (b boardActions) SetStatus(taskID uint, status models.Status) error {
	return b.store.UpdateTask(taskID, db.TaskUpdate{Status: &status})
}

func newBoardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Browse and update tasks interactively",
		Long: `Open the interactive task board.

Keys:
  ↑/↓ or k/j    Navigate tasks
  ←/→ or h/l    Change page
  /             Search by title, tag or status
  d             Mark done
  p             Pause or resume
  q/esc         Quit`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		return tui.RunBoard(boardActions{store: a.store}, a.now)
	})
	return cmd
}
