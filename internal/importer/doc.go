// Package importer loads SumUp CSV exports into the sales database.
//
// Imports are keyed on (date, film, hall), so re-importing a corrected export
// replaces the earlier rows. The Watcher wraps the same path in an fsnotify
// loop guarded by a file lock, for unattended ingestion of exports dropped
// into a directory.
package importer
