package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studio/internal/db"
	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/parser"
	"github.com/balkashynov/studio/internal/timefmt"
)

func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit an existing task",
		Long: `Edit the fields of an existing task. Only the flags you pass are changed.

Usage:
  studio edit 42 --status in_progress
  studio edit 42 --title "New title" --due tomorrow
  studio edit 42 --tags work,home     - replace the tag set (tags must exist)
  studio edit 42 --tags ""            - remove every tag
  studio edit 42 --desc ""            - clear the description`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		id, err := parseID(models.EntityTask, args[0])
		if err != nil {
			return err
		}
		update, err := buildUpdate(a, cmd)
		if err != nil {
			return err
		}
		if err := a.store.UpdateTask(id, update); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", id)
		return nil
	})

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("desc", "", "New description")
	cmd.Flags().StringP("status", "s", "", "Status: todo, in_progress, paused, done, archived")
	cmd.Flags().StringP("priority", "p", "", "Priority: low, medium, high, or 1-3")
	cmd.Flags().String("due", "", "Due date")
	cmd.Flags().StringSliceP("tags", "t", nil, "Replace tags with these existing tag names")
	return cmd
}

// buildUpdate turns the flags that were actually passed into a TaskUpdate.
func buildUpdate(a *app, cmd *cobra.Command) (db.TaskUpdate, error) {
	var u db.TaskUpdate
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		u.Title = &title
	}
	if flags.Changed("desc") {
		desc, _ := flags.GetString("desc")
		u.Description = &desc
	}
	if flags.Changed("status") {
		raw, _ := flags.GetString("status")
		status, err := models.ParseStatus(raw)
		if err != nil {
			return u, err
		}
		u.Status = &status
	}
	if flags.Changed("priority") {
		raw, _ := flags.GetString("priority")
		priority, err := models.ParsePriority(raw)
		if err != nil {
			return u, err
		}
		u.Priority = &priority
	}
	if flags.Changed("due") {
		raw, _ := flags.GetString("due")
		due, err := parser.ParseDueDate(raw, timefmt.Naive(a.now()))
		if err != nil {
			return u, err
		}
		u.DueDate = &due
	}
	if flags.Changed("tags") {
		names, _ := flags.GetStringSlice("tags")
		tags, err := existingTags(a, names)
		if err != nil {
			return u, err
		}
		u.Tags = &tags
	}
	return u, nil
}

// existingTags resolves tag names to stored tags. Unknown names are an error.
func existingTags(a *app, names []string) ([]models.Tag, error) {
	tags := []models.Tag{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := a.store.TagByName(name)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			return nil, models.InvalidTag("tag '%s' does not exist", name)
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}
