package ports

import (
	"context"

	"github.com/aretw0/toyrobot/pkg/domain"
)

// PositionStore defines the interface for the append-only position log.
// Records are never updated or deleted once appended.
type PositionStore interface {
	// Append persists a new record and returns it with its assigned id.
	// Ids are strictly increasing.
	Append(ctx context.Context, pos domain.Position) (domain.Record, error)

	// Latest returns the record with the highest id.
	// Returns domain.ErrNotPlaced if the log is empty.
	Latest(ctx context.Context) (domain.Record, error)

	// Recent returns at most limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Record, error)

	// Close releases the underlying storage handle.
	Close() error
}

// PositionRecorder is what the robot state machine talks to.
// It is satisfied both by a local position log and by the HTTP client.
type PositionRecorder interface {
	// Record appends the position to the log.
	Record(ctx context.Context, pos domain.Position) (domain.Record, error)

	// Latest returns the current persisted position, or domain.ErrNotPlaced.
	Latest(ctx context.Context) (domain.Record, error)

	// History returns the recent records, newest first.
	History(ctx context.Context) ([]domain.Record, error)
}
