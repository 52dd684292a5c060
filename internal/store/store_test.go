package store_test

import (
	"context"
	"testing"
	"time"

	"cinebo/internal/store"
	"cinebo/internal/testsupport"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestOpenCreatesSchemaOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
}

func TestSettingsSeedDefaults(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rate, err := st.FloatSetting(ctx, store.SettingBTWRate, store.DefaultBTWRate)
	if err != nil {
		t.Fatalf("FloatSetting: %v", err)
	}
	if rate != store.DefaultBTWRate {
		t.Fatalf("expected default btw rate, got %v", rate)
	}

	// The read must have written the default back.
	raw, ok, err := st.Setting(ctx, store.SettingBTWRate)
	if err != nil {
		t.Fatalf("Setting: %v", err)
	}
	if !ok {
		t.Fatal("expected btw_rate to be seeded")
	}
	if raw == "" {
		t.Fatal("expected non-empty seeded value")
	}
}

func TestFloatSettingToleratesCommaDecimals(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := st.SetSetting(ctx, store.SettingAuteursRate, "0,012"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	rate, err := st.FloatSetting(ctx, store.SettingAuteursRate, 0)
	if err != nil {
		t.Fatalf("FloatSetting: %v", err)
	}
	if rate != 0.012 {
		t.Fatalf("expected 0.012, got %v", rate)
	}
}

func TestIntSettingRepairsGarbage(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := st.SetSetting(ctx, store.SettingWeekCounter, "not a number"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	value, err := st.IntSetting(ctx, store.SettingWeekCounter, 7)
	if err != nil {
		t.Fatalf("IntSetting: %v", err)
	}
	if value != 7 {
		t.Fatalf("expected default 7, got %d", value)
	}
	repaired, err := st.IntSetting(ctx, store.SettingWeekCounter, 99)
	if err != nil {
		t.Fatalf("IntSetting after repair: %v", err)
	}
	if repaired != 7 {
		t.Fatalf("expected repaired value 7, got %d", repaired)
	}
}

func TestFilmRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	created, err := st.CreateFilm(ctx, store.Film{
		InternalTitle: "de grote reis",
		MaccsTitle:    "De Grote Reis",
		Distributor:   "Lumiere",
		Country:       "BE",
	})
	if err != nil {
		t.Fatalf("CreateFilm: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned film id")
	}

	found, err := st.FilmByInternalTitle(ctx, "de grote reis")
	if err != nil {
		t.Fatalf("FilmByInternalTitle: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("expected to find created film, got %+v", found)
	}

	missing, err := st.FilmByInternalTitle(ctx, "onbekend")
	if err != nil {
		t.Fatalf("FilmByInternalTitle missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown title, got %+v", missing)
	}

	found.Distributor = "Cineart"
	if err := st.UpdateFilm(ctx, found); err != nil {
		t.Fatalf("UpdateFilm: %v", err)
	}
	updated, err := st.FilmByID(ctx, found.ID)
	if err != nil {
		t.Fatalf("FilmByID: %v", err)
	}
	if updated.Distributor != "Cineart" {
		t.Fatalf("expected updated distributor, got %q", updated.Distributor)
	}

	films, err := st.ListFilms(ctx)
	if err != nil {
		t.Fatalf("ListFilms: %v", err)
	}
	if len(films) != 1 {
		t.Fatalf("expected 1 film, got %d", len(films))
	}
}

func TestGetOrCreateHall(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	id, err := st.GetOrCreateHall(ctx, "1")
	if err != nil {
		t.Fatalf("GetOrCreateHall: %v", err)
	}
	if id == 0 {
		t.Fatal("expected hall id")
	}

	again, err := st.GetOrCreateHall(ctx, "1")
	if err != nil {
		t.Fatalf("GetOrCreateHall again: %v", err)
	}
	if again != id {
		t.Fatalf("expected same hall id, got %d and %d", id, again)
	}

	empty, err := st.GetOrCreateHall(ctx, "  ")
	if err != nil {
		t.Fatalf("GetOrCreateHall empty: %v", err)
	}
	if empty != 0 {
		t.Fatalf("expected zero id for empty name, got %d", empty)
	}
}

func TestGetOrCreatePlayWeek(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	// 2026-08-27 is a Thursday; the default Tuesday week starts 2026-08-25.
	week, err := st.GetOrCreatePlayWeek(ctx, date(2026, time.August, 27))
	if err != nil {
		t.Fatalf("GetOrCreatePlayWeek: %v", err)
	}
	if !week.StartDate.Equal(date(2026, time.August, 25)) {
		t.Fatalf("unexpected week start: %v", week.StartDate)
	}
	if !week.EndDate.Equal(date(2026, time.September, 1)) {
		t.Fatalf("unexpected week end: %v", week.EndDate)
	}
	if week.WeekNumber != 1 {
		t.Fatalf("expected first week number 1, got %d", week.WeekNumber)
	}

	// Another day in the same range reuses the row.
	same, err := st.GetOrCreatePlayWeek(ctx, date(2026, time.August, 30))
	if err != nil {
		t.Fatalf("GetOrCreatePlayWeek same week: %v", err)
	}
	if same.ID != week.ID {
		t.Fatalf("expected same play week, got %d and %d", week.ID, same.ID)
	}

	// The next week gets the incremented counter.
	next, err := st.GetOrCreatePlayWeek(ctx, date(2026, time.September, 2))
	if err != nil {
		t.Fatalf("GetOrCreatePlayWeek next week: %v", err)
	}
	if next.WeekNumber != 2 {
		t.Fatalf("expected week number 2, got %d", next.WeekNumber)
	}
}

func TestSetWeekNumber(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	week := testsupport.NewPlayWeek(t, st, date(2026, time.August, 27))
	if err := st.SetWeekNumber(ctx, week.ID, 42); err != nil {
		t.Fatalf("SetWeekNumber: %v", err)
	}
	updated, err := st.PlayWeekByID(ctx, week.ID)
	if err != nil {
		t.Fatalf("PlayWeekByID: %v", err)
	}
	if updated.WeekNumber != 42 {
		t.Fatalf("expected week number 42, got %d", updated.WeekNumber)
	}

	if err := st.SetWeekNumber(ctx, 9999, 1); err == nil {
		t.Fatal("expected error for unknown play week")
	}
}
