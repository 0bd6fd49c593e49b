package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studio/internal/models"
	"github.com/balkashynov/studio/internal/tui"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}
	cmd.AddCommand(newTagAddCmd(a), newTagListCmd(a), newTagRenameCmd(a), newTagRemoveCmd(a), newTagSetCmd(a))
	return cmd
}

func newTagAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		color, _ := cmd.Flags().GetString("color")
		if color == "" {
			color = a.cfg.Tags.DefaultColor
		}
		tag, err := models.NewTag(args[0], color)
		if err != nil {
			return err
		}
		if err := a.store.CreateTag(tag); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created tag #%d: %s\n", tag.ID, tui.TagBadge(*tag))
		return nil
	})
	cmd.Flags().StringP("color", "c", "", "Color: #rgb, #rrggbb or a basic color name")
	return cmd
}

func newTagListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tags",
		Args:    cobra.NoArgs,
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		tags, err := a.store.AllTags()
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tags yet.")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.TagTable(tags))
		return nil
	})
	return cmd
}

func newTagRenameCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <tag-id> <new-name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		id, err := parseID(models.EntityTag, args[0])
		if err != nil {
			return err
		}
		if err := a.store.RenameTag(id, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed tag #%d to %s\n", id, args[1])
		return nil
	})
	return cmd
}

func newTagRemoveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <tag-id>",
		Short: "Delete a tag that no task uses",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		id, err := parseID(models.EntityTag, args[0])
		if err != nil {
			return err
		}
		deleted, err := a.store.DeleteTag(id)
		if err != nil {
			return err
		}
		if !deleted {
			return models.NotFound(models.EntityTag, id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag #%d\n", id)
		return nil
	})
	return cmd
}

func newTagSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <task-id> [tag...]",
		Short: "Replace a task's tags, creating missing ones",
		Long: `Replace the tag set of a task. Tags are matched by name and created with
the configured default color when they do not exist. With no tag names the
task's tags are cleared.`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		id, err := parseID(models.EntityTask, args[0])
		if err != nil {
			return err
		}
		desired := []models.Tag{}
		for _, name := range args[1:] {
			for _, part := range strings.Split(name, ",") {
				if part = strings.TrimSpace(part); part != "" {
					desired = append(desired, models.Tag{Name: part, Color: a.cfg.Tags.DefaultColor})
				}
			}
		}
		if err := a.store.ReconcileTags(id, desired); err != nil {
			return err
		}

		tags, err := a.store.TaskTags(id)
		if err != nil {
			return err
		}
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.Name
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task #%d tags: %s\n", id, strings.Join(names, ", "))
		return nil
	})
	return cmd
}
