package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"cinebo/internal/logging"
	"cinebo/internal/testsupport"
)

const exportCSV = `Categorie,Naam van artikel,Naam van variant,Aantal,Bedrag
Film,Ticket Volwassene,Zaal Beneden · De Grote Reis,10,95.00
Film,Ticket Kind,Zaal Beneden · De Grote Reis,4,30.00
Film,Ticket Volwassene 3D,Zaal Boven · Vaiana 2,6,66.00
Drank,Cola,Zaal Beneden · De Grote Reis,3,7.50
`

func writeExport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func TestImportFileFailsOnUnknownFilms(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	imp := New(st, cfg, logging.NewNop())

	path := writeExport(t, t.TempDir(), "verkoop-2026-08-25.csv", exportCSV)

	_, err := imp.ImportFile(context.Background(), path, Options{})
	var missing *MissingFilmsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFilmsError, got %v", err)
	}
	if len(missing.Titles) != 2 {
		t.Fatalf("expected 2 missing titles, got %v", missing.Titles)
	}
}

func TestImportFileCreatesFilmsAndSales(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	imp := New(st, cfg, logging.NewNop())
	ctx := context.Background()

	path := writeExport(t, testsupport.BaseDir(cfg), "verkoop-2026-08-25.csv", exportCSV)

	result, err := imp.ImportFile(ctx, path, Options{CreateFilms: true})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if result.Combinations != 2 {
		t.Fatalf("expected 2 combinations, got %d", result.Combinations)
	}
	if result.Tickets != 20 {
		t.Fatalf("expected 20 tickets, got %d", result.Tickets)
	}
	if len(result.CreatedFilms) != 2 {
		t.Fatalf("expected 2 created films, got %v", result.CreatedFilms)
	}
	want := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	if !result.Date.Equal(want) {
		t.Fatalf("expected date from filename, got %v", result.Date)
	}
	if result.PlayWeek.ID == 0 || !result.PlayWeek.StartDate.Equal(want) {
		t.Fatalf("expected play week starting %s, got %+v", want.Format("2006-01-02"), result.PlayWeek)
	}

	film, err := st.FilmByInternalTitle(ctx, "De Grote Reis")
	if err != nil || film == nil {
		t.Fatalf("film not created: %v", err)
	}
	hallID, err := st.GetOrCreateHall(ctx, "1")
	if err != nil {
		t.Fatalf("hall: %v", err)
	}
	sale, err := st.SaleByKey(ctx, want, film.ID, hallID)
	if err != nil || sale == nil {
		t.Fatalf("sale not stored: %v", err)
	}
	if sale.AdultCount != 10 || sale.ChildCount != 4 {
		t.Fatalf("unexpected counts: %+v", sale)
	}
	if sale.TotalCount != 14 || sale.TotalAmount != 125.00 {
		t.Fatalf("unexpected totals: %+v", sale)
	}
	if sale.ImportID != result.ImportID {
		t.Fatalf("import id not stored: %q vs %q", sale.ImportID, result.ImportID)
	}
}

func TestImportFileIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	imp := New(st, cfg, logging.NewNop())
	ctx := context.Background()

	path := writeExport(t, t.TempDir(), "verkoop-2026-08-25.csv", exportCSV)

	if _, err := imp.ImportFile(ctx, path, Options{CreateFilms: true}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	result, err := imp.ImportFile(ctx, path, Options{CreateFilms: true})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.CreatedFilms) != 0 {
		t.Fatalf("films should not be recreated: %v", result.CreatedFilms)
	}

	film, err := st.FilmByInternalTitle(ctx, "Vaiana 2")
	if err != nil || film == nil {
		t.Fatalf("film lookup: %v", err)
	}
	hallID, err := st.GetOrCreateHall(ctx, "2")
	if err != nil {
		t.Fatalf("hall: %v", err)
	}
	date := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	sale, err := st.SaleByKey(ctx, date, film.ID, hallID)
	if err != nil || sale == nil {
		t.Fatalf("sale lookup: %v", err)
	}
	if sale.AdultCount != 6 || !sale.Is3D {
		t.Fatalf("unexpected sale after re-import: %+v", sale)
	}
}

func TestWatcherRefusesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	imp := New(st, cfg, logging.NewNop())

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("take lock: locked=%v err=%v", locked, err)
	}
	defer func() { _ = lock.Unlock() }()

	watcher := NewWatcher(imp, cfg.Paths.WatchDir, cfg.LockPath(), Options{CreateFilms: true})
	if err := watcher.Run(context.Background()); !errors.Is(err, ErrWatcherRunning) {
		t.Fatalf("expected ErrWatcherRunning, got %v", err)
	}
}

func TestWatcherImportsExistingFilesOnStartup(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	imp := New(st, cfg, logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writeExport(t, cfg.Paths.WatchDir, "verkoop-2026-08-25.csv", exportCSV)

	watcher := NewWatcher(imp, cfg.Paths.WatchDir, cfg.LockPath(), Options{CreateFilms: true})
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	processed := filepath.Join(cfg.Paths.WatchDir, "processed", "verkoop-2026-08-25.csv")
	deadline := time.Now().Add(10 * time.Second)
	for {
		if _, err := os.Stat(processed); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("export was never processed")
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("watcher: %v", err)
	}

	film, err := st.FilmByInternalTitle(context.Background(), "De Grote Reis")
	if err != nil || film == nil {
		t.Fatalf("film not imported: %v", err)
	}
}
