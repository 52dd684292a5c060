// Package store persists cinema bookkeeping in SQLite.
//
// The table and column layout (settings, films, zalen, speelweek,
// daily_sales, ticket_ranges) is a stable contract shared with other tooling
// that reads the same database; Dutch names are kept on disk while the Go
// API uses English identifiers. Daily sales are keyed by (date, film, hall)
// and upserts replace the row so re-importing a corrected CSV is safe.
//
// Ticket numbers continue across play weeks per film and hall: a new week's
// range starts where the previous week's paid quantity ended, falling back
// to the global counters in settings for first runs.
package store
