// Package sumup parses the daily sales CSV exported by the SumUp
// point-of-sale. Rows are filtered to the configured category, the variant
// text is split to recover the film title and hall, and line items are
// aggregated per (film, hall) combination.
package sumup

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Column headers in the SumUp export.
const (
	columnCategory = "Categorie"
	columnVariant  = "Naam van variant"
	columnArticle  = "Naam van artikel"
	columnQuantity = "Aantal"
	columnAmount   = "Bedrag"
)

// Rules controls how export rows are interpreted. All keyword matching is
// case-insensitive on pre-lowered keywords.
type Rules struct {
	Category      string
	HallKeywords  map[string]string
	ChildKeyword  string
	ThreeDKeyword string
}

// Aggregate is one (film, hall) combination summed over the export.
type Aggregate struct {
	Film        string
	Hall        string
	Is3D        bool
	AdultCount  int
	ChildCount  int
	AdultAmount float64
	ChildAmount float64
}

// TotalCount returns paid adults plus children.
func (a Aggregate) TotalCount() int {
	return a.AdultCount + a.ChildCount
}

// TotalAmount returns the gross amount for the combination.
func (a Aggregate) TotalAmount() float64 {
	return a.AdultAmount + a.ChildAmount
}

// variant part separators, tried in order. The spaced dash only splits when
// none of the primary separators appear, so titles containing a plain dash
// survive.
var primarySeparators = []string{"·", "•", "|"}

// SplitVariant breaks a variant description into trimmed, non-empty parts.
func SplitVariant(variant string) []string {
	s := strings.TrimSpace(variant)
	if s == "" {
		return nil
	}
	for _, sep := range primarySeparators {
		if strings.Contains(s, sep) {
			return splitAndTrim(s, sep)
		}
	}
	if strings.Contains(s, " - ") {
		return splitAndTrim(s, " - ")
	}
	return []string{s}
}

func splitAndTrim(s, sep string) []string {
	var parts []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// DetectFilmAndHall extracts the film title and hall name from a variant
// description. The hall comes from keyword matching; the film is the second
// variant part when present, otherwise the first.
func DetectFilmAndHall(variant string, hallKeywords map[string]string) (string, string) {
	lowered := strings.ToLower(strings.TrimSpace(variant))

	hall := ""
	for keyword, name := range hallKeywords {
		if strings.Contains(lowered, keyword) {
			hall = name
			break
		}
	}

	parts := SplitVariant(variant)
	film := ""
	switch {
	case len(parts) >= 2:
		film = parts[1]
	case len(parts) == 1:
		film = parts[0]
	}
	return strings.TrimSpace(film), hall
}

// Parse reads a SumUp CSV export and returns the per (film, hall) aggregates
// in first-seen order. Rows outside the configured category are ignored.
func Parse(r io.Reader, rules Rules) ([]Aggregate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{columnCategory, columnVariant, columnArticle} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv is missing column %q", required)
		}
	}

	category := strings.ToLower(strings.TrimSpace(rules.Category))

	order := []string{}
	byKey := map[string]*Aggregate{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		if strings.ToLower(strings.TrimSpace(field(record, columns, columnCategory))) != category {
			continue
		}

		variant := field(record, columns, columnVariant)
		article := strings.ToLower(field(record, columns, columnArticle))
		quantity := parseInt(field(record, columns, columnQuantity))
		amount := parseAmount(field(record, columns, columnAmount))

		film, hall := DetectFilmAndHall(variant, rules.HallKeywords)
		isChild := rules.ChildKeyword != "" && strings.Contains(article, rules.ChildKeyword)
		is3D := rules.ThreeDKeyword != "" && strings.Contains(article, rules.ThreeDKeyword)

		key := film + "\x00" + hall
		agg, ok := byKey[key]
		if !ok {
			agg = &Aggregate{Film: film, Hall: hall}
			byKey[key] = agg
			order = append(order, key)
		}

		if isChild {
			agg.ChildCount += quantity
			agg.ChildAmount += amount
		} else {
			agg.AdultCount += quantity
			agg.AdultAmount += amount
		}
		agg.Is3D = agg.Is3D || is3D
	}

	aggregates := make([]Aggregate, 0, len(order))
	for _, key := range order {
		aggregates = append(aggregates, *byKey[key])
	}
	return aggregates, nil
}

func field(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseInt(value string) int {
	if value == "" {
		return 0
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	// Quantity columns occasionally carry decimals ("2.0").
	if parsed, err := strconv.ParseFloat(normalizeDecimal(value), 64); err == nil {
		return int(parsed)
	}
	return 0
}

func parseAmount(value string) float64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(normalizeDecimal(value), 64)
	if err != nil {
		return 0
	}
	return parsed
}

func normalizeDecimal(value string) string {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "€")
	cleaned = strings.TrimSpace(cleaned)
	// European exports use a comma decimal separator.
	if strings.Contains(cleaned, ",") && !strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	return cleaned
}

var filenameDate = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// DateFromFilename extracts a YYYY-MM-DD token from an export filename.
func DateFromFilename(name string) (time.Time, bool) {
	match := filenameDate.FindString(name)
	if match == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", match)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
