package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sitzungsdienst/internal/common"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		flags    outputFlags
		from, to string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored assignments between two dates",
		Long: `Export the assignments of all stored runs whose date lies between
--from and --to (YYYY-MM-DD, both optional). Needs DB_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			v := common.NewValidator().
				Field("from", from, common.ISODate).
				Field("to", to, common.ISODate)
			if err := v.Error(); err != nil {
				return common.NewAppError("INVALID_ARGUMENT", err.Error(), common.ErrInvalidInput)
			}

			runs, closeStore, err := a.openStore(ctx, true)
			if err != nil {
				return err
			}
			defer closeStore()

			records, err := runs.ListAssignmentsBetween(ctx, from, to)
			if err != nil {
				return err
			}
			return a.writeReport(ctx, cmd.OutOrStdout(), records, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "First date, YYYY-MM-DD.")
	cmd.Flags().StringVar(&to, "to", "", "Last date, YYYY-MM-DD.")
	return cmd
}
