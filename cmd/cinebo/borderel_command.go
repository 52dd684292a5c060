package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cinebo/internal/borderel"
)

func newBorderelCommand(ctx *commandContext) *cobra.Command {
	var fromFlag, toFlag, outDir string

	cmd := &cobra.Command{
		Use:   "borderel",
		Short: "Generate settlement reports for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			from, to, err := parseDateRange(fromFlag, toFlag)
			if err != nil {
				return err
			}

			gen := borderel.NewGenerator(st, cfg, ctx.ensureLogger())
			paths, failed, err := gen.GenerateRange(cmd.Context(), from, to, outDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(paths) == 0 && failed == 0 {
				fmt.Fprintf(out, "No sales between %s and %s\n", from.Format(dateLayout), to.Format(dateLayout))
				return nil
			}
			for _, path := range paths {
				fmt.Fprintln(out, path)
			}
			fmt.Fprintf(out, "%d settlement reports written\n", len(paths))
			if failed > 0 {
				return fmt.Errorf("%d settlement reports failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Start date (YYYY-MM-DD); default one week back")
	cmd.Flags().StringVar(&toFlag, "to", "", "End date (YYYY-MM-DD); default today")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default from configuration)")
	return cmd
}
