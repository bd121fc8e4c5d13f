package sink

import (
	"context"

	"sjsage522/livehsworker/internal/schedule"
)

// Sink persists the records of one crawl run
type Sink interface {
	// Persist stores all records of a run in one shot. The sink owns
	// atomicity for its storage medium.
	Persist(ctx context.Context, runID string, records []schedule.Record) error

	// Close releases the sink's connections
	Close() error
}
