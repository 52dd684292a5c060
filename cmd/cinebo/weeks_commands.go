package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cinebo/internal/speelweek"
)

func newWeeksCommand(ctx *commandContext) *cobra.Command {
	weeksCmd := &cobra.Command{
		Use:   "weeks",
		Short: "Inspect and renumber play weeks",
	}

	weeksCmd.AddCommand(newWeeksListCommand(ctx))
	weeksCmd.AddCommand(newWeeksRenumberCommand(ctx))

	return weeksCmd
}

func newWeeksListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List play weeks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			weeks, err := st.ListPlayWeeks(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, weeks)
			}

			if len(weeks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No play weeks recorded")
				return nil
			}

			cols := []column{
				{title: "ID", right: true},
				{title: "Week", right: true},
				{title: "Van"},
				{title: "Tot en met"},
			}
			var rows [][]string
			for _, week := range weeks {
				rows = append(rows, []string{
					fmt.Sprint(week.ID),
					strconv.Itoa(week.WeekNumber),
					week.StartDate.Format(dateLayout),
					speelweek.InclusiveEnd(week.EndDate).Format(dateLayout),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cols, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of weeks to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newWeeksRenumberCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "renumber <week-id> <weeknummer>",
		Short: "Assign a different repertorium week number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid week id %q", args[0])
			}
			number, err := strconv.Atoi(args[1])
			if err != nil || number < 0 {
				return fmt.Errorf("invalid week number %q", args[1])
			}

			if err := st.SetWeekNumber(cmd.Context(), id, number); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Week %d renumbered to %d\n", id, number)
			return nil
		},
	}
}
