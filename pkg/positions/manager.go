package positions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/toyrobot/internal/logging"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/ports"
)

// MaxRecent caps the number of records returned by a history query.
const MaxRecent = 100

// appendLockKey is the distributed lock key guarding appends.
const appendLockKey = "append"

// appendLockTTL bounds how long a crashed replica can hold the append lock.
const appendLockTTL = 5 * time.Second

// Manager orchestrates access to the position log.
type Manager struct {
	store  ports.PositionStore
	grid   domain.Grid
	locker ports.DistributedLocker // Optional distributed locker
	logger *slog.Logger
}

var _ ports.PositionRecorder = (*Manager)(nil)

// Option configures the Manager.
type Option func(*Manager)

// WithGrid overrides the default 5x5 grid.
func WithGrid(g domain.Grid) Option {
	return func(m *Manager) {
		m.grid = g
	}
}

// WithLocker enables distributed locking around appends.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new position log over the given store.
func NewManager(store ports.PositionStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		grid:   domain.DefaultGrid,
		logger: logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Grid returns the grid requests are validated against.
func (m *Manager) Grid() domain.Grid {
	return m.grid
}

// AppendRequest validates a decoded JSON body and appends the position it describes.
func (m *Manager) AppendRequest(ctx context.Context, fields map[string]any) (domain.Record, error) {
	pos, err := domain.ParsePositionRequest(fields, m.grid)
	if err != nil {
		m.logger.Debug("Append rejected", "reason", err.Error())
		return domain.Record{}, err
	}
	return m.append(ctx, pos)
}

// Append validates a typed position and appends it.
func (m *Manager) Append(ctx context.Context, pos domain.Position) (domain.Record, error) {
	if err := pos.Validate(m.grid); err != nil {
		m.logger.Debug("Append rejected", "reason", err.Error())
		return domain.Record{}, err
	}
	return m.append(ctx, pos)
}

func (m *Manager) append(ctx context.Context, pos domain.Position) (domain.Record, error) {
	var rec domain.Record
	err := m.withAppendLock(ctx, func(ctx context.Context) error {
		var err error
		rec, err = m.store.Append(ctx, pos)
		return err
	})
	if err != nil {
		return domain.Record{}, fmt.Errorf("append position: %w", err)
	}

	m.logger.Info("Position recorded",
		"id", rec.ID,
		"x", rec.X,
		"y", rec.Y,
		"direction", rec.Direction.Wire(),
	)
	return rec, nil
}

// Record implements ports.PositionRecorder.
func (m *Manager) Record(ctx context.Context, pos domain.Position) (domain.Record, error) {
	return m.Append(ctx, pos)
}

// Latest returns the current position, or domain.ErrNotPlaced when the log is empty.
func (m *Manager) Latest(ctx context.Context) (domain.Record, error) {
	rec, err := m.store.Latest(ctx)
	if errors.Is(err, domain.ErrNotPlaced) {
		return domain.Record{}, domain.ErrNotPlaced
	}
	if err != nil {
		return domain.Record{}, fmt.Errorf("latest position: %w", err)
	}
	return rec, nil
}

// Recent returns the newest records first. A limit outside (0, MaxRecent] means MaxRecent.
func (m *Manager) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit <= 0 || limit > MaxRecent {
		limit = MaxRecent
	}
	records, err := m.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent positions: %w", err)
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

// History implements ports.PositionRecorder.
func (m *Manager) History(ctx context.Context) ([]domain.Record, error) {
	return m.Recent(ctx, MaxRecent)
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

func (m *Manager) withAppendLock(ctx context.Context, fn func(context.Context) error) error {
	if m.locker == nil {
		return fn(ctx)
	}

	unlock, err := m.locker.Lock(ctx, appendLockKey, appendLockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire distributed lock: %w", err)
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			m.logger.Warn("Failed to release distributed lock (will expire via TTL)", "err", err)
		}
	}()

	return fn(ctx)
}
