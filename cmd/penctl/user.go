package main

import (
	"fmt"

	"github.com/fekuna/penstore/internal/user/dto"
	"github.com/spf13/cobra"
)

func (c *cli) cmdUser() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}
	cmd.AddCommand(c.cmdUserCreate())
	return cmd
}

func (c *cli) cmdUserCreate() *cobra.Command {
	var input dto.CreateUserInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user that can sign in to the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.Users.CreateUser(cmd.Context(), &input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", u.Role, u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "Email used to sign in")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "Password, at least 8 characters")
	cmd.Flags().StringVarP(&input.Name, "name", "n", "", "Display name")
	cmd.Flags().StringVar(&input.Role, "role", "admin", "Role granted to the user")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
