package borderel

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cinebo/internal/logging"
	"cinebo/internal/store"
	"cinebo/internal/testsupport"
)

func TestGenerateRangeWritesOnePDFPerCombination(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithVenue("Cinema Focus", "Graanmarkt 1", "9400 Ninove"))
	cfg.Report.ReportNumber = "B.O.1"
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	filmA := testsupport.NewFilm(t, st, "Vaiana 2", "Disney")
	filmB := testsupport.NewFilm(t, st, "De Grote Reis", "Lumiere")
	date := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	week := testsupport.NewPlayWeek(t, st, date)

	hall1, err := st.GetOrCreateHall(ctx, "1")
	if err != nil {
		t.Fatalf("hall: %v", err)
	}

	sales := []*store.DailySale{
		{Date: date, PlayWeekID: week.ID, FilmID: filmA.ID, HallID: hall1,
			AdultCount: 10, ChildCount: 2, AdultAmount: 95, ChildAmount: 15,
			TotalCount: 12, TotalAmount: 110},
		{Date: date.AddDate(0, 0, 1), PlayWeekID: week.ID, FilmID: filmB.ID,
			AdultCount: 6, AdultAmount: 57, TotalCount: 6, TotalAmount: 57},
	}
	for _, sale := range sales {
		if err := st.UpsertDailySale(ctx, sale); err != nil {
			t.Fatalf("seed sale: %v", err)
		}
	}

	gen := NewGenerator(st, cfg, logging.NewNop())
	paths, failed, err := gen.GenerateRange(ctx, date, date.AddDate(0, 0, 6), "")
	if err != nil {
		t.Fatalf("GenerateRange: %v", err)
	}
	if failed != 0 {
		t.Fatalf("expected no failures, got %d", failed)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 reports, got %v", paths)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read report: %v", err)
		}
		if !strings.HasPrefix(string(data), "%PDF") {
			t.Fatalf("%s is not a PDF", filepath.Base(path))
		}
		if dir := filepath.Dir(path); dir != cfg.Paths.OutputDir {
			t.Fatalf("report written outside output dir: %s", path)
		}
	}

	names := []string{filepath.Base(paths[0]), filepath.Base(paths[1])}
	found := false
	for _, name := range names {
		if name == "BO 1 Disney Vaiana 2.pdf" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected standard report name, got %v", names)
	}
}

func TestGenerateRangeEmptyPeriod(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	gen := NewGenerator(st, cfg, logging.NewNop())
	paths, failed, err := gen.GenerateRange(context.Background(), time.Now(), time.Now(), "")
	if err != nil {
		t.Fatalf("GenerateRange: %v", err)
	}
	if len(paths) != 0 || failed != 0 {
		t.Fatalf("expected no reports, got %v (%d failed)", paths, failed)
	}
}

func TestGenerateRangeContinuesPastFailingCombination(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	filmA := testsupport.NewFilm(t, st, "Vaiana 2", "Disney")
	filmB := testsupport.NewFilm(t, st, "De Grote Reis", "Lumiere")
	date := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	week := testsupport.NewPlayWeek(t, st, date)

	for _, sale := range []*store.DailySale{
		{Date: date, PlayWeekID: week.ID, FilmID: filmA.ID,
			AdultCount: 10, AdultAmount: 95, TotalCount: 10, TotalAmount: 95},
		{Date: date, PlayWeekID: week.ID, FilmID: filmB.ID,
			AdultCount: 6, AdultAmount: 57, TotalCount: 6, TotalAmount: 57},
	} {
		if err := st.UpsertDailySale(ctx, sale); err != nil {
			t.Fatalf("seed sale: %v", err)
		}
	}

	// Block one report's path with a directory of the same name.
	blocked := filepath.Join(cfg.Paths.OutputDir, Filename(week.WeekNumber, "Lumiere", "De Grote Reis"))
	if err := os.MkdirAll(blocked, 0o755); err != nil {
		t.Fatalf("block path: %v", err)
	}

	gen := NewGenerator(st, cfg, logging.NewNop())
	paths, failed, err := gen.GenerateRange(ctx, date, date.AddDate(0, 0, 6), "")
	if err != nil {
		t.Fatalf("GenerateRange: %v", err)
	}
	if failed != 1 {
		t.Fatalf("expected 1 failed combination, got %d", failed)
	}
	if len(paths) != 1 {
		t.Fatalf("expected the other report to be written, got %v", paths)
	}
}
