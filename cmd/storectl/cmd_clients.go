package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Inspect persisted client storage",
}

var clientsKeysCmd = &cobra.Command{
	Use:   "keys <client-id>",
	Short: "List the storage keys of a client",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientsKeys,
}

var clientsShowCmd = &cobra.Command{
	Use:   "show <client-id> <key>",
	Short: "Print one stored value",
	Args:  cobra.ExactArgs(2),
	RunE:  runClientsShow,
}

func runClientsKeys(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	keys, err := e.repos.ClientStorage.ListKeys(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}

func runClientsShow(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	entry, err := e.repos.ClientStorage.Get(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("client %s has no key %q", args[0], args[1])
	}
	fmt.Printf("%s\n(updated %s)\n", entry.Value, entry.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
