package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Show a walkthrough of every studio command",
		Long:  `Display detailed help for all studio commands and flags.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), guideText)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "studio %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

const guideText = `
studio - CLI task manager

COMMANDS:

  add <task>              Create a new task with smart parsing
    -d, --desc            Description
    -t, --tags            Comma-separated tags
    -p, --priority        Priority: low|medium|high
    --due                 Due date (YYYY-MM-DDTHH:MM, dd/mm/yyyy, today, tomorrow, 3 days)

    Smart syntax:
      #hashtags     Tags, created when missing
      +priority     Set priority (low/medium/high)
      due:2days     Set due date

    Example:
      studio add "Fix login bug #frontend +high due:tomorrow"

  ls                      List tasks
    -s, --status          Filter by status: todo|in_progress|paused|done|archived
    --today               Show only tasks due today

  show <id>               Show every field of a task
  edit <id>               Change a task's fields
    --title --desc --status --priority --due --tags

  done <id>               Mark task as completed
  undone <id>             Mark task as todo
  archive <id>            Archive a task
  unarchive <id>          Restore an archived task
  rm <id>                 Delete a task

  search <query>          Search tasks by title, description, tags, status
    --limit               Limit number of results
    --json                JSON output

  tag add <name>          Create a tag (--color)
  tag ls                  List tags
  tag rename <id> <name>  Rename a tag
  tag rm <id>             Delete an unused tag
  tag set <id> [tags...]  Replace a task's tags

  user add <name>         Create a user
  user ls                 List users

  board                   Interactive task board
    Quick actions:
      ↑/↓           Navigate tasks
      /             Search
      d             Mark done
      p             Pause/resume
      esc/q         Quit

GLOBAL FLAGS:
  --config <file>         Config file (default ~/.studio/config.yaml)
  --db <file>             Database file

Settings can also come from STUDIO_* environment variables,
e.g. STUDIO_DATABASE_PATH or STUDIO_LOG_LEVEL=info.

`
