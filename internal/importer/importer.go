package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"cinebo/internal/config"
	"cinebo/internal/store"
	"cinebo/internal/sumup"
)

// Options tunes a single import run.
type Options struct {
	// Date overrides the sales date. When zero the importer derives it from
	// the filename and falls back to the file's modification time.
	Date time.Time
	// CreateFilms registers unknown film titles instead of failing.
	CreateFilms bool
}

// Result summarizes an import run.
type Result struct {
	Date         time.Time
	PlayWeek     store.PlayWeek
	ImportID     string
	Combinations int
	Tickets      int
	Amount       float64
	CreatedFilms []string
	Skipped      int
}

// MissingFilmsError reports titles that have no matching films row. The
// import is aborted so the operator can register them first.
type MissingFilmsError struct {
	Titles []string
}

func (e *MissingFilmsError) Error() string {
	return fmt.Sprintf("unknown films in export: %s", strings.Join(e.Titles, ", "))
}

// Importer loads SumUp exports into the sales tables.
type Importer struct {
	store  *store.Store
	rules  sumup.Rules
	logger *slog.Logger
}

// New builds an importer that applies the configured parsing rules.
func New(st *store.Store, cfg *config.Config, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		store: st,
		rules: sumup.Rules{
			Category:      cfg.Import.Category,
			HallKeywords:  cfg.Import.HallKeywords,
			ChildKeyword:  cfg.Import.ChildKeyword,
			ThreeDKeyword: cfg.Import.ThreeDKeyword,
		},
		logger: logger.With("component", "importer"),
	}
}

// ImportFile parses one export file and upserts its aggregates. Existing rows
// for the same (date, film, hall) are replaced, so re-importing a corrected
// export is safe.
func (i *Importer) ImportFile(ctx context.Context, path string, opts Options) (*Result, error) {
	date := opts.Date
	if date.IsZero() {
		date = i.resolveDate(path)
	}
	date = date.UTC().Truncate(24 * time.Hour)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer file.Close()

	aggregates, err := sumup.Parse(file, i.rules)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	week, err := i.store.GetOrCreatePlayWeek(ctx, date)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Date:     date,
		PlayWeek: *week,
		ImportID: uuid.NewString(),
	}

	films, missing, err := i.resolveFilms(ctx, aggregates, opts.CreateFilms, result)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingFilmsError{Titles: missing}
	}

	sourceFile := filepath.Base(path)
	for _, agg := range aggregates {
		if agg.Film == "" {
			result.Skipped++
			i.logger.Warn("skipping export rows without a film title", "hall", agg.Hall, "tickets", agg.TotalCount())
			continue
		}

		hallID, err := i.store.GetOrCreateHall(ctx, agg.Hall)
		if err != nil {
			return nil, err
		}

		sale := &store.DailySale{
			Date:        date,
			PlayWeekID:  week.ID,
			FilmID:      films[agg.Film],
			HallID:      hallID,
			Is3D:        agg.Is3D,
			AdultCount:  agg.AdultCount,
			ChildCount:  agg.ChildCount,
			AdultAmount: agg.AdultAmount,
			ChildAmount: agg.ChildAmount,
			TotalCount:  agg.TotalCount(),
			TotalAmount: agg.TotalAmount(),
			SourceFile:  sourceFile,
			ImportID:    result.ImportID,
		}
		if err := i.store.UpsertDailySale(ctx, sale); err != nil {
			return nil, err
		}

		result.Combinations++
		result.Tickets += agg.TotalCount()
		result.Amount += agg.TotalAmount()
	}

	i.logger.Info("export imported",
		"file", sourceFile,
		"date", date.Format("2006-01-02"),
		"week", week.WeekNumber,
		"combinations", result.Combinations,
		"tickets", result.Tickets,
		"amount", fmt.Sprintf("%.2f", result.Amount))
	return result, nil
}

// resolveFilms maps aggregate titles to film IDs, optionally creating rows
// for titles that are not registered yet.
func (i *Importer) resolveFilms(ctx context.Context, aggregates []sumup.Aggregate, create bool, result *Result) (map[string]int64, []string, error) {
	films := map[string]int64{}
	var missing []string
	for _, agg := range aggregates {
		if agg.Film == "" {
			continue
		}
		if _, ok := films[agg.Film]; ok {
			continue
		}
		film, err := i.store.FilmByInternalTitle(ctx, agg.Film)
		if err != nil {
			return nil, nil, err
		}
		if film != nil {
			films[agg.Film] = film.ID
			continue
		}
		if !create {
			missing = append(missing, agg.Film)
			continue
		}
		created, err := i.store.CreateFilm(ctx, store.Film{InternalTitle: agg.Film, MaccsTitle: agg.Film})
		if err != nil {
			return nil, nil, err
		}
		films[agg.Film] = created.ID
		result.CreatedFilms = append(result.CreatedFilms, agg.Film)
		i.logger.Info("registered new film", "title", agg.Film)
	}
	return films, missing, nil
}

// resolveDate prefers a date token in the filename and falls back to the
// file's modification time.
func (i *Importer) resolveDate(path string) time.Time {
	if date, ok := sumup.DateFromFilename(filepath.Base(path)); ok {
		return date
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Now()
}
