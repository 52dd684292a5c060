package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSalesCommand(ctx *commandContext) *cobra.Command {
	salesCmd := &cobra.Command{
		Use:   "sales",
		Short: "Correct stored daily sales",
	}

	salesCmd.AddCommand(newSalesSetCommand(ctx))
	return salesCmd
}

// newSalesSetCommand adjusts a stored row, mainly to record free admissions
// which SumUp exports never carry.
func newSalesSetCommand(ctx *commandContext) *cobra.Command {
	var dateFlag, hallFlag string
	var adult, child, freeAdult, freeChild int
	var adultAmount, childAmount float64

	cmd := &cobra.Command{
		Use:   "set <film>",
		Short: "Adjust one day of sales for a film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			date, err := parseDateFlag(dateFlag, "date")
			if err != nil {
				return err
			}

			film, err := st.FilmByInternalTitle(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if film == nil {
				return fmt.Errorf("film %q is not registered", args[0])
			}

			var hallID int64
			if strings.TrimSpace(hallFlag) != "" {
				hallID, err = st.GetOrCreateHall(cmd.Context(), strings.TrimSpace(hallFlag))
				if err != nil {
					return err
				}
			}

			sale, err := st.SaleByKey(cmd.Context(), date, film.ID, hallID)
			if err != nil {
				return err
			}
			if sale == nil {
				return fmt.Errorf("no sales stored for %q on %s", film.InternalTitle, date.Format(dateLayout))
			}

			// Changing a paid count keeps the row's unit price and scales
			// the amount with it; an explicit amount flag wins.
			adultUnit := unitPrice(sale.AdultAmount, sale.AdultCount)
			childUnit := unitPrice(sale.ChildAmount, sale.ChildCount)

			if cmd.Flags().Changed("adult") {
				sale.AdultCount = adult
				sale.AdultAmount = adultUnit * float64(adult)
			}
			if cmd.Flags().Changed("child") {
				sale.ChildCount = child
				sale.ChildAmount = childUnit * float64(child)
			}
			if cmd.Flags().Changed("free-adult") {
				sale.FreeAdult = freeAdult
			}
			if cmd.Flags().Changed("free-child") {
				sale.FreeChild = freeChild
			}
			if cmd.Flags().Changed("adult-amount") {
				sale.AdultAmount = adultAmount
			}
			if cmd.Flags().Changed("child-amount") {
				sale.ChildAmount = childAmount
			}

			// Totals count paid admissions only; free tickets ride along in
			// their own columns.
			sale.TotalCount = sale.AdultCount + sale.ChildCount
			sale.TotalAmount = sale.AdultAmount + sale.ChildAmount

			if err := st.UpsertDailySale(cmd.Context(), sale); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Updated %s on %s: %d volw, %d kind, %d gratis, %s EUR\n",
				film.InternalTitle, date.Format(dateLayout),
				sale.AdultCount, sale.ChildCount, sale.FreeAdult+sale.FreeChild,
				money(sale.TotalAmount))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Sales date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&hallFlag, "hall", "", "Hall name; omit for sales without a hall")
	cmd.Flags().IntVar(&adult, "adult", 0, "Paid adult tickets")
	cmd.Flags().IntVar(&child, "child", 0, "Paid child tickets")
	cmd.Flags().IntVar(&freeAdult, "free-adult", 0, "Free adult admissions")
	cmd.Flags().IntVar(&freeChild, "free-child", 0, "Free child admissions")
	cmd.Flags().Float64Var(&adultAmount, "adult-amount", 0, "Adult gross amount")
	cmd.Flags().Float64Var(&childAmount, "child-amount", 0, "Child gross amount")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func unitPrice(amount float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return amount / float64(count)
}
