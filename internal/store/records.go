package store

import (
	"context"
	"errors"

	"rwstats/internal/models"
)

// ErrNotFound is returned when a record with the requested id does not
// exist. Callers treat it as a normal case requiring lazy init, not as
// a failure.
var ErrNotFound = errors.New("record not found")

// RecordStore is the persistence collaborator for the shared visitor
// record. Writes are full-record last-write-wins; there is no version
// check, and concurrent writers can lose updates. That is the accepted
// contract for these analytics-grade counters.
type RecordStore interface {
	Get(ctx context.Context, id string) (*models.VisitorStats, error)
	Insert(ctx context.Context, stats *models.VisitorStats) error
	Update(ctx context.Context, stats *models.VisitorStats) error
	Close() error
}

// Snapshotter is implemented by record stores that buffer writes in
// memory and flush to durable storage on a schedule (the file driver).
// The scheduler persists on interval and on shutdown, and restores on
// startup.
type Snapshotter interface {
	Persist() error
	Restore() error
}
