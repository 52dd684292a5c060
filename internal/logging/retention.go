package logging

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"
)

// logRetentionDays bounds how long rotated or dated log files stay around.
const logRetentionDays = 60

// PruneOldLogs removes log files in dir older than retentionDays, skipping
// the active log. Failures are reported on the logger and never abort the
// caller; pruning is housekeeping, not a precondition.
func PruneOldLogs(logger *slog.Logger, dir, active string, retentionDays int) {
	if retentionDays <= 0 || strings.TrimSpace(dir) == "" {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if path == active {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			if logger != nil {
				logger.Warn("prune old log", "file", entry.Name(), "error", err)
			}
			continue
		}
		if logger != nil {
			logger.Debug("pruned old log", "file", entry.Name())
		}
	}
}
