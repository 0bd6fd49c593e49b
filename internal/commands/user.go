package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studio/internal/models"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd(a), newUserListCmd(a))
	return cmd
}

func newUserAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a user",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		user, err := models.NewUser(strings.Join(args, " "))
		if err != nil {
			return err
		}
		user.CreatedAt = a.now()
		if err := a.store.CreateUser(user); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created user #%d: %s\n", user.ID, user.Name)
		return nil
	})
	return cmd
}

func newUserListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List users",
		Args:    cobra.NoArgs,
	}
	cmd.RunE = a.withStore(func(cmd *cobra.Command, args []string) error {
		users, err := a.store.AllUsers()
		if err != nil {
			return err
		}
		active, err := a.store.CountActiveUsers()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, u := range users {
			fmt.Fprintf(out, "#%-4d %-20s %-8s %s\n", u.ID, u.Name, u.Status, u.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(out, "%d users, %d active\n", len(users), active)
		return nil
	})
	return cmd
}
