package borderel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"log/slog"

	"cinebo/internal/config"
	"cinebo/internal/store"
)

// Generator produces settlement PDFs from stored sales.
type Generator struct {
	store  *store.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewGenerator wires a generator against the sales store.
func NewGenerator(st *store.Store, cfg *config.Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{store: st, cfg: cfg, logger: logger.With("component", "borderel")}
}

// GenerateRange writes one PDF per (week, film, hall) combination that has
// sales between from and to. Ticket ranges are allocated on first use,
// continuing a film's numbering from its previous week. One failing
// combination does not stop the rest: it is logged and counted in failed.
func (g *Generator) GenerateRange(ctx context.Context, from, to time.Time, outDir string) (paths []string, failed int, err error) {
	if outDir == "" {
		outDir = g.cfg.Paths.OutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, 0, fmt.Errorf("create output directory: %w", err)
	}

	btwRate, err := g.store.FloatSetting(ctx, store.SettingBTWRate, store.DefaultBTWRate)
	if err != nil {
		return nil, 0, err
	}
	authorsRate, err := g.store.FloatSetting(ctx, store.SettingAuteursRate, store.DefaultAuteursRate)
	if err != nil {
		return nil, 0, err
	}

	combos, err := g.store.WeekCombos(ctx, from, to)
	if err != nil {
		return nil, 0, err
	}

	for _, combo := range combos {
		path, err := g.generateOne(ctx, combo, btwRate, authorsRate, outDir)
		if err != nil {
			failed++
			g.logger.Error("settlement report failed",
				"week", combo.WeekNumber,
				"film", combo.InternalTitle,
				"hall", combo.HallName,
				"error", err)
			continue
		}
		paths = append(paths, path)
	}
	g.logger.Info("settlement run finished", "ok", len(paths), "failed", failed)
	return paths, failed, nil
}

func (g *Generator) generateOne(ctx context.Context, combo store.WeekCombo, btwRate, authorsRate float64, outDir string) (string, error) {
	sales, err := g.store.WeekSales(ctx, combo.PlayWeekID, combo.FilmID, combo.HallID)
	if err != nil {
		return "", err
	}

	tickets, err := g.store.GetOrCreateTicketRange(ctx, combo.PlayWeekID, combo.FilmID, combo.HallID)
	if err != nil {
		return "", err
	}

	week := store.PlayWeek{
		ID:         combo.PlayWeekID,
		WeekNumber: combo.WeekNumber,
		StartDate:  combo.WeekStart,
		EndDate:    combo.WeekEnd,
	}

	flat := make([]store.DailySale, 0, len(sales))
	for _, sale := range sales {
		flat = append(flat, *sale)
	}

	data := Data{
		Week:     week,
		Film:     store.Film{ID: combo.FilmID, InternalTitle: combo.InternalTitle, MaccsTitle: combo.MaccsTitle, Distributor: combo.Distributor, Country: combo.Country},
		HallName: combo.HallName,
		Tickets:  *tickets,
		Totals:   ComputeTotals(flat, btwRate, authorsRate),
		Days:     DayBreakdown(week, flat),

		Repertorium: g.cfg.Report.Repertorium,
	}

	path := filepath.Join(outDir, Filename(combo.WeekNumber, combo.Distributor, combo.InternalTitle))
	if err := Render(data, g.cfg.Report, g.cfg.Assets.Logo, path); err != nil {
		return "", err
	}

	g.logger.Info("settlement report written",
		"file", filepath.Base(path),
		"week", combo.WeekNumber,
		"film", combo.InternalTitle,
		"gross", fmt.Sprintf("%.2f", data.Totals.Gross))
	return path, nil
}
