package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/config"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <token>",
		Short: "Store the admin bearer token",
		Long:  "Store the admin bearer token locally. Subsequent commands send it on every request; MEALADMIN_TOKEN overrides it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveToken(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", config.GetTokenPath())
			return nil
		},
	}

	return cmd
}
