package borderel

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cinebo/internal/speelweek"
	"cinebo/internal/store"
)

// Totals holds the settlement figures for one (film, hall, week)
// combination.
type Totals struct {
	AdultCount  int
	ChildCount  int
	FreeAdult   int
	FreeChild   int
	AdultAmount float64
	ChildAmount float64

	AdultUnitPrice float64
	ChildUnitPrice float64

	Gross      float64
	BTW        float64
	Net        float64
	Authors    float64
	Difference float64
}

// PaidCount returns the number of sold tickets.
func (t Totals) PaidCount() int {
	return t.AdultCount + t.ChildCount
}

// FreeCount returns the number of free admissions.
func (t Totals) FreeCount() int {
	return t.FreeAdult + t.FreeChild
}

// ComputeTotals folds a week's sales rows into settlement totals. VAT is
// taken from the gross amount; author's rights from the net.
func ComputeTotals(sales []store.DailySale, btwRate, authorsRate float64) Totals {
	var t Totals
	for _, sale := range sales {
		t.AdultCount += sale.AdultCount
		t.ChildCount += sale.ChildCount
		t.FreeAdult += sale.FreeAdult
		t.FreeChild += sale.FreeChild
		t.AdultAmount += sale.AdultAmount
		t.ChildAmount += sale.ChildAmount
	}

	t.AdultUnitPrice = unitPrice(t.AdultAmount, t.AdultCount)
	t.ChildUnitPrice = unitPrice(t.ChildAmount, t.ChildCount)

	t.Gross = t.AdultAmount + t.ChildAmount
	t.BTW = t.Gross * btwRate
	t.Net = t.Gross - t.BTW
	t.Authors = t.Net * authorsRate
	t.Difference = t.Net - t.Authors
	return t
}

func unitPrice(amount float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return amount / float64(count)
}

// DayLine is one weekday row in the screenings table.
type DayLine struct {
	Label       string
	AdultCount  int
	AdultAmount float64
	ChildCount  int
	ChildAmount float64
}

// DayBreakdown distributes the sales rows over the seven days of the play
// week, in order, labeled with full Dutch weekday names.
func DayBreakdown(week store.PlayWeek, sales []store.DailySale) []DayLine {
	lines := make([]DayLine, 7)
	for i := range lines {
		day := week.StartDate.AddDate(0, 0, i)
		lines[i].Label = speelweek.DayName(day)
	}
	for _, sale := range sales {
		offset := int(sale.Date.Sub(week.StartDate).Hours() / 24)
		if offset < 0 || offset > 6 {
			continue
		}
		lines[offset].AdultCount += sale.AdultCount
		lines[offset].AdultAmount += sale.AdultAmount
		lines[offset].ChildCount += sale.ChildCount
		lines[offset].ChildAmount += sale.ChildAmount
	}
	return lines
}

var dutchPrinter = message.NewPrinter(language.Dutch)

// FormatMoney renders an amount with a comma decimal separator.
func FormatMoney(v float64) string {
	return dutchPrinter.Sprintf("%.2f", v)
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]+`)
	collapsedWhitespace = regexp.MustCompile(`\s+`)
)

// SafeFilename strips characters that are invalid on common filesystems and
// collapses runs of whitespace.
func SafeFilename(name string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(name, "_")
	cleaned = collapsedWhitespace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > 160 {
		cleaned = strings.TrimSpace(cleaned[:160])
	}
	if cleaned == "" {
		cleaned = "borderel"
	}
	return cleaned
}

// Filename builds the report filename for a week/film combination.
func Filename(weekNumber int, distributor, title string) string {
	return SafeFilename(fmt.Sprintf("BO %d %s %s", weekNumber, distributor, title)) + ".pdf"
}
