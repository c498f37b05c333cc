package robot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/toyrobot/internal/logging"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/ports"
)

// Robot is the toy robot state machine.
type Robot struct {
	mu     sync.Mutex
	cmdMu  sync.Mutex
	grid   domain.Grid
	pos    domain.Position
	placed bool

	recorder ports.PositionRecorder
	queue    *Queue
	logger   *slog.Logger

	queueSize int
	queueOpts []QueueOption
}

// Option configures a Robot.
type Option func(*Robot)

// WithGrid overrides the default 5x5 grid.
func WithGrid(g domain.Grid) Option {
	return func(r *Robot) {
		r.grid = g
	}
}

// WithLogger sets the logger for commands and persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Robot) {
		r.logger = logger
	}
}

// WithQueueSize sets how many writes may be pending before commands block.
func WithQueueSize(n int) Option {
	return func(r *Robot) {
		r.queueSize = n
	}
}

// WithQueueOptions passes options through to the persistence queue.
func WithQueueOptions(opts ...QueueOption) Option {
	return func(r *Robot) {
		r.queueOpts = append(r.queueOpts, opts...)
	}
}

// New creates an UNPLACED robot that records its transitions through recorder.
func New(recorder ports.PositionRecorder, opts ...Option) *Robot {
	r := &Robot{
		grid:      domain.DefaultGrid,
		recorder:  recorder,
		logger:    logging.NewNop(),
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(r)
	}

	qopts := append([]QueueOption{WithQueueLogger(r.logger)}, r.queueOpts...)
	r.queue = NewQueue(recorder, r.queueSize, qopts...)
	return r
}

// Grid returns the grid the robot moves on.
func (r *Robot) Grid() domain.Grid {
	return r.grid
}

// Position returns the current position and whether the robot is placed.
func (r *Robot) Position() (domain.Position, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos, r.placed
}

// Place puts the robot at (x, y) facing NORTH.
// Coordinates off the grid leave the state unchanged and return a ValidationError.
func (r *Robot) Place(x, y int) error {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()

	r.logger.Debug("PLACE", "x", x, "y", y, "direction", domain.North.String())
	if !r.grid.Contains(x, y) {
		r.logger.Warn("Invalid position for the robot", "x", x, "y", y)
		return domain.NewValidationError(domain.RangeReason(r.grid))
	}

	r.mu.Lock()
	r.pos = domain.Position{X: x, Y: y, Direction: domain.North}
	r.placed = true
	pos := r.pos
	r.mu.Unlock()

	r.persist(pos)
	return nil
}

// Rotate turns the robot in place. It reports false (and records nothing) when UNPLACED.
func (r *Robot) Rotate(t domain.Turn) bool {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()

	r.logger.Debug(t.String())
	r.mu.Lock()
	if !r.placed {
		r.mu.Unlock()
		return false
	}
	r.pos = r.pos.Turn(t)
	pos := r.pos
	r.mu.Unlock()

	r.persist(pos)
	return true
}

// Left turns the robot 90 degrees counter-clockwise.
func (r *Robot) Left() bool {
	return r.Rotate(domain.Left)
}

// Right turns the robot 90 degrees clockwise.
func (r *Robot) Right() bool {
	return r.Rotate(domain.Right)
}

// Move steps one cell forward. A step off the grid is absorbed and the robot stays put.
// It reports false (and records nothing) when UNPLACED.
func (r *Robot) Move() bool {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()

	r.logger.Debug("MOVE")
	r.mu.Lock()
	if !r.placed {
		r.mu.Unlock()
		return false
	}
	r.pos = r.pos.Step(r.grid)
	pos := r.pos
	r.mu.Unlock()

	r.persist(pos)
	return true
}

// Report waits for pending writes and returns the latest persisted record.
// It returns domain.ErrNotPlaced when nothing has ever been recorded.
// An UNPLACED robot adopts the persisted position; a placed robot keeps its own state.
func (r *Robot) Report(ctx context.Context) (domain.Record, error) {
	r.logger.Debug("REPORT")
	if err := r.queue.Flush(ctx); err != nil {
		return domain.Record{}, fmt.Errorf("flush pending positions: %w", err)
	}

	rec, err := r.recorder.Latest(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotPlaced) {
			r.logger.Error("Error fetching robot position", "error", err)
		}
		return domain.Record{}, err
	}

	r.adopt(rec)
	r.logger.Info(fmt.Sprintf("Output: %d, %d, %s", rec.X, rec.Y, rec.Direction))
	return rec, nil
}

// Load initializes the robot from the latest persisted record.
// An empty log leaves it UNPLACED and is not an error.
func (r *Robot) Load(ctx context.Context) error {
	rec, err := r.recorder.Latest(ctx)
	if errors.Is(err, domain.ErrNotPlaced) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load robot position: %w", err)
	}
	r.adopt(rec)
	return nil
}

// History waits for pending writes and returns the recent records, newest first.
func (r *Robot) History(ctx context.Context) ([]domain.Record, error) {
	if err := r.queue.Flush(ctx); err != nil {
		return nil, fmt.Errorf("flush pending positions: %w", err)
	}
	return r.recorder.History(ctx)
}

// Flush blocks until every transition so far has been handed to the recorder.
func (r *Robot) Flush(ctx context.Context) error {
	return r.queue.Flush(ctx)
}

// Failures is the number of transitions the recorder did not store.
func (r *Robot) Failures() int64 {
	return r.queue.Failures()
}

// Close drains pending writes and stops the persistence worker.
func (r *Robot) Close() error {
	return r.queue.Close()
}

func (r *Robot) adopt(rec domain.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.placed {
		return
	}
	pos := rec.Position()
	if pos.Validate(r.grid) != nil {
		r.logger.Warn("Ignoring persisted position outside the grid", "id", rec.ID, "position", pos.String())
		return
	}
	r.pos = pos
	r.placed = true
}

// persist must be called with r.cmdMu held so positions reach the queue in command order.
// r.mu is not held, so Position stays readable while the queue is full.
func (r *Robot) persist(pos domain.Position) {
	if err := r.queue.Enqueue(context.Background(), pos); err != nil {
		r.logger.Warn("Position not recorded", "position", pos.String(), "error", err)
	}
}
