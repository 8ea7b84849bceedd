package contract

import (
	"context"
	"time"
)

// Record is the persisted form of an analysis.
type Record struct {
	ID             string
	Text           string
	Classification Label
	RiskScore      int
	Strength       Strength
	// Findings holds the JSON-serialised term, modal, and section findings.
	Findings  []byte
	CreatedAt time.Time
}

// HistoryEntry is one row of the recent-analysis listing.  The contract text
// itself is summarised to its length.
type HistoryEntry struct {
	ID             string
	CreatedAt      time.Time
	Classification Label
	RiskScore      int
	Strength       Strength
	TextLength     int
}

// Repository stores analysis records and serves the history listing.
// Implementations live in the infrastructure layer.
type Repository interface {
	// Save persists one analysis record.
	Save(ctx context.Context, rec *Record) error

	// RecentHistory returns the limit most recent analyses, newest first.
	RecentHistory(ctx context.Context, limit int) ([]HistoryEntry, error)
}
