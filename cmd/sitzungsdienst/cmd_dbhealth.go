package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDBHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dbhealth",
		Short: "Check the database named by DB_URL and create missing tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, closeStore, err := a.openStore(cmd.Context(), true)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "DB health: FAIL (%v)\n", err)
				return err
			}
			defer closeStore()
			fmt.Fprintln(cmd.OutOrStdout(), "DB health: OK")
			return nil
		},
	}
}
