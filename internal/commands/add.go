package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/parser"
	"github.com/balkashynov/studio/internal/timefmt"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <task title>",
		Short: "Add a new task",
		Long: `Add a new task with optional metadata.

Smart parsing: studio add "Fix bug #urgent +high due:tomorrow"

Smart parsing syntax:
  #tag1,tag2  - Tags (comma-separated or individual)
  +priority   - Priority (low/medium/high or 1/2/3)
  due:3days   - Due date (YYYY-MM-DDTHH:MM, dd/mm/yyyy, today, tomorrow, X days, X hours, X weeks)

Flags take precedence over the parsed values. Tags that do not exist yet are
created with the configured default color.`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		return runAdd(a, cmd, strings.Join(args, " "))
	})

	cmd.Flags().StringP("desc", "d", "", "Description")
	cmd.Flags().StringSliceP("tags", "t", []string{}, "Comma-separated tags")
	cmd.Flags().StringP("priority", "p", "", "Priority: low, medium, high, or 1-3")
	cmd.Flags().String("due", "", "Due date: YYYY-MM-DDTHH:MM, dd/mm/yyyy, today, tomorrow, X days, X hours, X weeks")
	return cmd
}

func runAdd(a *app, cmd *cobra.Command, input string) error {
	now := timefmt.Naive(a.now())
	parsed := parser.ParseTitle(input, now)
	if len(parsed.Errors) > 0 {
		return models.Validation(models.EntityTask, "%s", strings.Join(parsed.Errors, "; "))
	}

	opts := models.TaskOptions{
		Priority: parsed.Priority,
		DueDate:  parsed.DueDate,
	}
	tagNames := parsed.Tags

	// Override with explicit flags (flags take precedence)
	if cmd.Flags().Changed("desc") {
		desc, _ := cmd.Flags().GetString("desc")
		opts.Description = &desc
	}
	if flagTags, _ := cmd.Flags().GetStringSlice("tags"); len(flagTags) > 0 {
		tagNames = flagTags
	}
	if flagPriority, _ := cmd.Flags().GetString("priority"); flagPriority != "" {
		p, err := models.ParsePriority(flagPriority)
		if err != nil {
			return err
		}
		opts.Priority = &p
	}
	if flagDue, _ := cmd.Flags().GetString("due"); flagDue != "" {
		due, err := parser.ParseDueDate(flagDue, now)
		if err != nil {
			return err
		}
		opts.DueDate = &due
	}

	if opts.DueDate == nil {
		opts.DueDate = &now
	}
	task, err := models.NewTask(a.userID, parsed.Title, opts)
	if err != nil {
		return err
	}
	task.CreatedAt = now
	task.UpdatedAt = task.CreatedAt
	for _, name := range tagNames {
		task.Tags = append(task.Tags, models.Tag{Name: strings.TrimSpace(name), Color: a.cfg.Tags.DefaultColor})
	}

	if _, err := a.store.InsertTask(task); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created task #%d: %s\n", task.ID, task.Title)
	if len(task.Tags) > 0 {
		fmt.Fprintf(out, "  Tags: %s\n", strings.Join(task.TagNames(), ", "))
	}
	fmt.Fprintf(out, "  Priority: %s\n", task.Priority)
	fmt.Fprintf(out, "  Due: %s\n", parser.FormatDueDate(task.DueDate, now))
	return nil
}
