package borderel

import (
	"math"
	"testing"
	"time"

	"cinebo/internal/store"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func sampleWeek() store.PlayWeek {
	return store.PlayWeek{
		ID:         1,
		WeekNumber: 33,
		StartDate:  day(25),
		EndDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func sampleSales() []store.DailySale {
	return []store.DailySale{
		{Date: day(25), AdultCount: 10, ChildCount: 4, AdultAmount: 95, ChildAmount: 30},
		{Date: day(26), AdultCount: 20, ChildCount: 2, AdultAmount: 190, ChildAmount: 15, FreeAdult: 3},
		{Date: day(30), AdultCount: 5, AdultAmount: 47.5},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeTotals(t *testing.T) {
	totals := ComputeTotals(sampleSales(), 0.0566, 0.0120)

	if totals.AdultCount != 35 || totals.ChildCount != 6 {
		t.Fatalf("unexpected counts: %+v", totals)
	}
	if totals.FreeCount() != 3 {
		t.Fatalf("unexpected free count: %d", totals.FreeCount())
	}
	if !almostEqual(totals.Gross, 377.5) {
		t.Fatalf("gross = %v", totals.Gross)
	}
	if !almostEqual(totals.BTW, 377.5*0.0566) {
		t.Fatalf("btw = %v", totals.BTW)
	}
	if !almostEqual(totals.Net, totals.Gross-totals.BTW) {
		t.Fatalf("net = %v", totals.Net)
	}
	if !almostEqual(totals.Authors, totals.Net*0.0120) {
		t.Fatalf("authors = %v", totals.Authors)
	}
	if !almostEqual(totals.Difference, totals.Net-totals.Authors) {
		t.Fatalf("difference = %v", totals.Difference)
	}
	if !almostEqual(totals.AdultUnitPrice, 332.5/35) {
		t.Fatalf("adult unit price = %v", totals.AdultUnitPrice)
	}
}

func TestComputeTotalsEmptyWeek(t *testing.T) {
	totals := ComputeTotals(nil, 0.0566, 0.0120)
	if totals.Gross != 0 || totals.AdultUnitPrice != 0 || totals.ChildUnitPrice != 0 {
		t.Fatalf("expected zero totals: %+v", totals)
	}
}

func TestDayBreakdown(t *testing.T) {
	lines := DayBreakdown(sampleWeek(), sampleSales())
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d", len(lines))
	}
	if lines[0].Label != "Dinsdag" {
		t.Fatalf("first day label = %q", lines[0].Label)
	}
	if lines[0].AdultCount != 10 || lines[0].ChildCount != 4 {
		t.Fatalf("unexpected first day: %+v", lines[0])
	}
	if lines[1].AdultCount != 20 {
		t.Fatalf("unexpected second day: %+v", lines[1])
	}
	if lines[5].AdultCount != 5 {
		t.Fatalf("unexpected sunday: %+v", lines[5])
	}
	for _, idx := range []int{2, 3, 4, 6} {
		if lines[idx].AdultCount != 0 || lines[idx].ChildCount != 0 {
			t.Fatalf("expected empty day %d: %+v", idx, lines[idx])
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(123.456); got != "123,46" {
		t.Fatalf("FormatMoney = %q", got)
	}
	if got := FormatMoney(0); got != "0,00" {
		t.Fatalf("FormatMoney(0) = %q", got)
	}
}

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`BO 33 Disney Vaiana 2`, "BO 33 Disney Vaiana 2"},
		{`BO 33 A/B: C?`, "BO 33 A_B_ C_"},
		{"BO  33 \t Dubbel", "BO 33 Dubbel"},
		{"", "borderel"},
	}
	for _, tc := range cases {
		if got := SafeFilename(tc.in); got != tc.want {
			t.Fatalf("SafeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFilename(t *testing.T) {
	got := Filename(33, "Disney", "Vaiana 2")
	if got != "BO 33 Disney Vaiana 2.pdf" {
		t.Fatalf("Filename = %q", got)
	}
}
