package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cinebo/internal/importer"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string
	var createFilms bool

	cmd := &cobra.Command{
		Use:   "import <export.csv>",
		Short: "Import a SumUp sales export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("create-films") {
				createFilms = cfg.Import.CreateFilms
			}

			opts := importer.Options{CreateFilms: createFilms}
			if strings.TrimSpace(dateFlag) != "" {
				date, err := parseDateFlag(dateFlag, "date")
				if err != nil {
					return err
				}
				opts.Date = date
			}

			imp := importer.New(st, cfg, ctx.ensureLogger())
			result, err := imp.ImportFile(cmd.Context(), args[0], opts)
			if err != nil {
				var missing *importer.MissingFilmsError
				if errors.As(err, &missing) {
					out := cmd.OutOrStdout()
					fmt.Fprintln(out, "These films are not registered yet:")
					for _, title := range missing.Titles {
						fmt.Fprintf(out, "  - %s\n", title)
					}
					fmt.Fprintln(out, "Add them with `cinebo films add` or re-run with --create-films.")
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s for %s (week %d): %d combinations, %d tickets, %s EUR\n",
				args[0], result.Date.Format(dateLayout), result.PlayWeek.WeekNumber,
				result.Combinations, result.Tickets, money(result.Amount))
			for _, title := range result.CreatedFilms {
				fmt.Fprintf(out, "Registered new film: %s\n", title)
			}
			if result.Skipped > 0 {
				fmt.Fprintf(out, "Skipped %d rows without a film title\n", result.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Sales date (YYYY-MM-DD); default derives from the filename")
	cmd.Flags().BoolVar(&createFilms, "create-films", false, "Register unknown film titles instead of failing")
	return cmd
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var createFilms bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the inbox directory and import exports as they arrive",
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

			if !cmd.Flags().Changed("create-films") {
				createFilms = cfg.Import.CreateFilms
			}

			imp := importer.New(st, cfg, ctx.ensureLogger())
			watcher := importer.NewWatcher(imp, cfg.Paths.WatchDir, cfg.LockPath(),
				importer.Options{CreateFilms: createFilms})

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", cfg.Paths.WatchDir)
			err = watcher.Run(runCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&createFilms, "create-films", false, "Register unknown film titles instead of failing")
	return cmd
}
