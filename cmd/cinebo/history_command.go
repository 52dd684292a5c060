package main

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cinebo/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var fromFlag, toFlag string
	var jsonOut, csvOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show daily sales for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut && csvOut {
				return fmt.Errorf("--json and --csv are mutually exclusive")
			}

			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			from, to, err := parseDateRange(fromFlag, toFlag)
			if err != nil {
				return err
			}

			rows, err := st.History(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			switch {
			case jsonOut:
				return writeJSON(cmd, historyPayload(rows))
			case csvOut:
				return writeHistoryCSV(cmd, rows)
			default:
				return writeHistoryTable(cmd, rows, from, to)
			}
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Start date (YYYY-MM-DD); default one week back")
	cmd.Flags().StringVar(&toFlag, "to", "", "End date (YYYY-MM-DD); default today")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "Emit CSV")
	return cmd
}

type historyRowJSON struct {
	Date        string  `json:"date"`
	WeekNumber  int     `json:"week_number"`
	Film        string  `json:"film"`
	Hall        string  `json:"hall,omitempty"`
	Is3D        bool    `json:"is_3d,omitempty"`
	AdultCount  int     `json:"adult_count"`
	ChildCount  int     `json:"child_count"`
	FreeAdult   int     `json:"free_adult,omitempty"`
	FreeChild   int     `json:"free_child,omitempty"`
	AdultAmount float64 `json:"adult_amount"`
	ChildAmount float64 `json:"child_amount"`
	TotalCount  int     `json:"total_count"`
	TotalAmount float64 `json:"total_amount"`
}

func historyPayload(rows []store.HistoryRow) []historyRowJSON {
	payload := make([]historyRowJSON, 0, len(rows))
	for _, row := range rows {
		payload = append(payload, historyRowJSON{
			Date:        row.Date.Format(dateLayout),
			WeekNumber:  row.WeekNumber,
			Film:        row.FilmTitle,
			Hall:        row.HallName,
			Is3D:        row.Is3D,
			AdultCount:  row.AdultCount,
			ChildCount:  row.ChildCount,
			FreeAdult:   row.FreeAdult,
			FreeChild:   row.FreeChild,
			AdultAmount: row.AdultAmount,
			ChildAmount: row.ChildAmount,
			TotalCount:  row.TotalCount,
			TotalAmount: row.TotalAmount,
		})
	}
	return payload
}

func writeHistoryCSV(cmd *cobra.Command, rows []store.HistoryRow) error {
	w := csv.NewWriter(cmd.OutOrStdout())
	if err := w.Write([]string{
		"datum", "weeknummer", "film", "zaal", "3d",
		"aantal_volw", "aantal_kind", "gratis_volw", "gratis_kind",
		"bedrag_volw", "bedrag_kind", "totaal_aantal", "totaal_bedrag",
	}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Date.Format(dateLayout),
			strconv.Itoa(row.WeekNumber),
			row.FilmTitle,
			row.HallName,
			strconv.FormatBool(row.Is3D),
			strconv.Itoa(row.AdultCount),
			strconv.Itoa(row.ChildCount),
			strconv.Itoa(row.FreeAdult),
			strconv.Itoa(row.FreeChild),
			money(row.AdultAmount),
			money(row.ChildAmount),
			strconv.Itoa(row.TotalCount),
			money(row.TotalAmount),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeHistoryTable(cmd *cobra.Command, rows []store.HistoryRow, from, to time.Time) error {
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintf(out, "No sales between %s and %s\n", from.Format(dateLayout), to.Format(dateLayout))
		return nil
	}

	cols := []column{
		{title: "Datum"},
		{title: "Week", right: true},
		{title: "Film"},
		{title: "Zaal"},
		{title: "Volw", right: true},
		{title: "Kind", right: true},
		{title: "Gratis", right: true},
		{title: "Totaal", right: true},
		{title: "Bedrag", right: true},
	}

	var tableRows [][]string
	var tickets int
	var amount float64
	for _, row := range rows {
		hall := row.HallName
		if row.Is3D {
			hall += " 3D"
		}
		tableRows = append(tableRows, []string{
			row.Date.Format(dateLayout),
			strconv.Itoa(row.WeekNumber),
			row.FilmTitle,
			hall,
			strconv.Itoa(row.AdultCount),
			strconv.Itoa(row.ChildCount),
			strconv.Itoa(row.FreeAdult + row.FreeChild),
			strconv.Itoa(row.TotalCount),
			money(row.TotalAmount),
		})
		tickets += row.TotalCount
		amount += row.TotalAmount
	}

	fmt.Fprintln(out, renderTable(cols, tableRows))
	fmt.Fprintf(out, "%d rows, %d tickets, %s EUR\n", len(rows), tickets, money(amount))
	return nil
}
