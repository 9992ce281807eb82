package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxeshop/storefront/internal/domain"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user records",
}

var usersSetRoleCmd = &cobra.Command{
	Use:   "set-role <user-id> <user|admin>",
	Short: "Change a user's role",
	Long: `Change the role stored on a user record. The change applies to the
user's next sign-in; live sessions keep the role they signed in with.`,
	Args: cobra.ExactArgs(2),
	RunE: runUsersSetRole,
}

func runUsersSetRole(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	role := domain.Role(args[1])
	if err := e.content.SetUserRole(ctx, args[0], role); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	fmt.Printf("User %s is now %s\n", args[0], role)
	return nil
}
