package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPruneOldLogs(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "cinebo-2026-01.log")
	fresh := filepath.Join(dir, "cinebo-2026-08.log")
	active := filepath.Join(dir, "cinebo.log")
	other := filepath.Join(dir, "notes.txt")

	for _, path := range []string{old, fresh, active, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -120)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(active, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	PruneOldLogs(NewNop(), dir, active, 60)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("stale log should be pruned")
	}
	for _, path := range []string{fresh, active, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s should survive pruning: %v", filepath.Base(path), err)
		}
	}
}

func TestPruneOldLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cinebo-old.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stale := time.Now().AddDate(0, 0, -365)
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	PruneOldLogs(NewNop(), dir, "", 0)
	if _, err := os.Stat(path); err != nil {
		t.Fatal("retention 0 must disable pruning")
	}
}
