// Package speelweek implements play-week date arithmetic and the Dutch
// calendar labels printed on reports and posters.
//
// A play week starts on a configurable weekday and spans seven days.
// Weekdays are numbered 0=Monday through 6=Sunday, matching the values
// stored in the settings table.
package speelweek

import "time"

// Dutch calendar names, indexed by weekday (0=Monday) and month (1=January).
var (
	dayNames = [7]string{
		"Maandag", "Dinsdag", "Woensdag", "Donderdag", "Vrijdag", "Zaterdag", "Zondag",
	}
	shortDayNames = [7]string{"Ma", "Di", "Woe", "Don", "Vrij", "Zat", "Zon"}

	shortMonthNames = [13]string{
		"", "Jan.", "Feb.", "Mrt.", "Apr.", "Mei", "Jun.",
		"Jul.", "Aug.", "Sep.", "Okt.", "Nov.", "Dec.",
	}
)

// WeekdayIndex converts a time.Weekday to the Monday-based numbering used
// throughout the schema.
func WeekdayIndex(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// Range returns the play week containing d when weeks start on startWeekday
// (0=Monday through 6=Sunday). The returned end is exclusive: it is the
// start of the next play week.
func Range(d time.Time, startWeekday int) (time.Time, time.Time) {
	day := truncate(d)
	daysSinceStart := (WeekdayIndex(day) - startWeekday + 7) % 7
	start := day.AddDate(0, 0, -daysSinceStart)
	return start, start.AddDate(0, 0, 7)
}

// InclusiveEnd converts an exclusive week end to the last played day.
func InclusiveEnd(end time.Time) time.Time {
	return end.AddDate(0, 0, -1)
}

// DayName returns the full Dutch weekday name for d.
func DayName(d time.Time) string {
	return dayNames[WeekdayIndex(d)]
}

// ShortDayName returns the abbreviated Dutch weekday name for d.
func ShortDayName(d time.Time) string {
	return shortDayNames[WeekdayIndex(d)]
}

// ShortMonthName returns the abbreviated Dutch month name for d.
func ShortMonthName(d time.Time) string {
	return shortMonthNames[d.Month()]
}

func truncate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
