package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// writeJSON emits v as indented JSON on the command's stdout, for the
// --json flag shared by the list commands.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseDateFlag(value, name string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("--%s is required (format %s)", name, dateLayout)
	}
	parsed, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: expected format %s", name, trimmed, dateLayout)
	}
	return parsed, nil
}

// parseDateRange resolves --from/--to with sensible defaults: an empty range
// covers the current week back seven days through today.
func parseDateRange(from, to string) (time.Time, time.Time, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)

	start := now.AddDate(0, 0, -7)
	if strings.TrimSpace(from) != "" {
		parsed, err := parseDateFlag(from, "from")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}

	end := now
	if strings.TrimSpace(to) != "" {
		parsed, err := parseDateFlag(to, "to")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", end.Format(dateLayout), start.Format(dateLayout))
	}
	return start, end, nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
