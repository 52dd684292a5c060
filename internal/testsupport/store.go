package testsupport

import (
	"context"
	"testing"
	"time"

	"cinebo/internal/config"
	"cinebo/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewFilm registers a film for tests using the provided store.
func NewFilm(t testing.TB, st *store.Store, title, distributor string) *store.Film {
	t.Helper()

	film, err := st.CreateFilm(context.Background(), store.Film{
		InternalTitle: title,
		MaccsTitle:    title,
		Distributor:   distributor,
		Country:       "BE",
	})
	if err != nil {
		t.Fatalf("store.CreateFilm: %v", err)
	}
	return film
}

// NewPlayWeek resolves the play week containing d for tests.
func NewPlayWeek(t testing.TB, st *store.Store, d time.Time) *store.PlayWeek {
	t.Helper()

	week, err := st.GetOrCreatePlayWeek(context.Background(), d)
	if err != nil {
		t.Fatalf("store.GetOrCreatePlayWeek: %v", err)
	}
	return week
}
