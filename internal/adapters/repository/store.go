// Package repository persists score records and the commentary feed.
//
// Two interchangeable backends implement Store: a flat JSON document and
// a SQLite database. Both honor the same contract: upsert by team id,
// rank recomputed over the full set on every write, reads sorted by
// total descending with contiguous 1-based ranks.
package repository

import (
	"context"

	"github.com/hackfest/vibeboard/internal/domain/model"
)

// Store provides read/write access to scores and commentary.
type Store interface {
	// ReadAll returns every score record sorted by total descending,
	// with CurrentRank set to the 1-based position. Ties keep their
	// stored insertion order.
	ReadAll(ctx context.Context) ([]model.ScoreRecord, error)

	// WriteAll upserts the given records. Each incoming record's
	// PreviousRank is taken from the store's prior CurrentRank for that
	// team, then ranks are recomputed across the full resulting set.
	WriteAll(ctx context.Context, records []model.ScoreRecord) error

	// UpsertOne behaves like WriteAll for a single record; the rank
	// recomputation still spans the whole stored set.
	UpsertOne(ctx context.Context, record model.ScoreRecord) error

	// AppendCommentary prepends a timestamped entry to the bounded
	// commentary feed, evicting the oldest entries past the limit.
	AppendCommentary(ctx context.Context, message string) error

	// ReadCommentary returns up to limit entries, most recent first.
	ReadCommentary(ctx context.Context, limit int) ([]model.CommentaryEvent, error)

	// Close releases backend resources.
	Close() error
}
