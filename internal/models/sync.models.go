package models

import "time"

// Sync run types recorded in the sync log.
const (
	SyncTypeImport = "import"
	SyncTypeExport = "export"
)

// SyncLogEntry is one recorded Excel sync run.
type SyncLogEntry struct {
	ID               int64     `json:"id"`
	SyncType         string    `json:"sync_type"`
	Status           string    `json:"status"`
	RecordsProcessed int       `json:"records_processed"`
	Timestamp        time.Time `json:"timestamp"`
	Details          string    `json:"details"`
}

// SyncStatus summarizes the most recent sync run for the UI badge.
type SyncStatus struct {
	LastSync         *time.Time `json:"last_sync"`
	SyncType         string     `json:"sync_type"`
	Status           string     `json:"status"`
	RecordsProcessed int        `json:"records_processed"`
}

// SyncResult is the outcome of a single import or export run. Row-level
// problems end up in Errors; they do not fail the run.
type SyncResult struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	RecordsProcessed int      `json:"records_processed"`
	Errors           []string `json:"errors"`
}
