package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sitzungsdienst/internal/repository"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		flags outputFlags
		store bool
	)
	cmd := &cobra.Command{
		Use:   "extract INPUT_FILE",
		Short: "Extract weekly assignments from INPUT_FILE",
		Long: `Extract weekly assignments from INPUT_FILE (pdf, or txt already run
through pdftotext) and save them in the chosen format.

Example:
  sitzungsdienst extract -f ics -q Mueller -d out kw10.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var runs repository.RunRepository
			if store {
				r, closeStore, err := a.openStore(ctx, true)
				if err != nil {
					return err
				}
				defer closeStore()
				runs = r
			}

			outcome, err := a.newProcessor(runs).ProcessFile(ctx, args[0])
			if err != nil {
				return err
			}
			return a.writeReport(ctx, out, outcome.Records, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&store, "store", false, "Persist the run in the configured database (DB_URL).")
	return cmd
}
