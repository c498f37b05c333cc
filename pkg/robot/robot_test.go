package robot_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/toyrobot/pkg/adapters/memory"
	"github.com/aretw0/toyrobot/pkg/domain"
	"github.com/aretw0/toyrobot/pkg/positions"
	"github.com/aretw0/toyrobot/pkg/robot"
)

func newRobot(t *testing.T, opts ...robot.Option) (*robot.Robot, *positions.Manager) {
	t.Helper()
	mgr := positions.NewManager(memory.NewStore())
	bot := robot.New(mgr, opts...)
	t.Cleanup(func() { _ = bot.Close() })
	return bot, mgr
}

func TestRobot_PlaceThenReport(t *testing.T) {
	ctx := context.Background()
	for x := 0; x < domain.DefaultGridSize; x++ {
		for y := 0; y < domain.DefaultGridSize; y++ {
			bot, _ := newRobot(t)
			require.NoError(t, bot.Place(x, y))

			rec, err := bot.Report(ctx)
			require.NoError(t, err)
			assert.Equal(t, domain.Position{X: x, Y: y, Direction: domain.North}, rec.Position())
		}
	}
}

func TestRobot_PlaceOutOfRange(t *testing.T) {
	ctx := context.Background()
	bot, mgr := newRobot(t)

	for _, c := range [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {7, 7}} {
		err := bot.Place(c[0], c[1])
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.EqualError(t, err, "x and y must be between 0 and 4")
	}

	_, placed := bot.Position()
	assert.False(t, placed)

	require.NoError(t, bot.Flush(ctx))
	recs, err := mgr.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRobot_UnplacedIgnoresCommands(t *testing.T) {
	ctx := context.Background()
	bot, mgr := newRobot(t)

	assert.False(t, bot.Move())
	assert.False(t, bot.Left())
	assert.False(t, bot.Right())

	_, err := bot.Report(ctx)
	assert.ErrorIs(t, err, domain.ErrNotPlaced)

	recs, err := mgr.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRobot_FourLeftsReturnToNorth(t *testing.T) {
	ctx := context.Background()
	bot, mgr := newRobot(t)
	require.NoError(t, bot.Place(2, 2))

	want := []domain.Direction{domain.West, domain.South, domain.East, domain.North}
	for _, dir := range want {
		require.True(t, bot.Left())
		pos, _ := bot.Position()
		assert.Equal(t, dir, pos.Direction)
	}

	rec, err := bot.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.North, rec.Direction)

	recs, err := mgr.History(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}

func TestRobot_RightCycle(t *testing.T) {
	bot, _ := newRobot(t)
	require.NoError(t, bot.Place(0, 0))

	want := []domain.Direction{domain.East, domain.South, domain.West, domain.North}
	for _, dir := range want {
		require.True(t, bot.Right())
		pos, _ := bot.Position()
		assert.Equal(t, dir, pos.Direction)
	}
}

func TestRobot_MoveAbsorbedAtEdge(t *testing.T) {
	ctx := context.Background()
	bot, mgr := newRobot(t)
	require.NoError(t, bot.Place(4, 4))

	for i := 0; i < 10; i++ {
		assert.True(t, bot.Move())
	}

	rec, err := bot.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Position{X: 4, Y: 4, Direction: domain.North}, rec.Position())

	// Absorbed moves are still recorded.
	recs, err := mgr.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 11)
}

func TestRobot_Walk(t *testing.T) {
	ctx := context.Background()
	bot, _ := newRobot(t)

	require.NoError(t, bot.Place(1, 2))
	bot.Move()
	bot.Move()
	bot.Left()
	bot.Move()

	rec, err := bot.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0,4,WEST", rec.Position().String())
}

func TestRobot_RecordsInCommandOrder(t *testing.T) {
	ctx := context.Background()
	bot, mgr := newRobot(t, robot.WithQueueSize(1))

	require.NoError(t, bot.Place(0, 0))
	bot.Right()
	bot.Move()
	bot.Move()
	bot.Left()
	bot.Move()
	require.NoError(t, bot.Flush(ctx))

	recs, err := mgr.History(ctx)
	require.NoError(t, err)

	var got []string
	for i := len(recs) - 1; i >= 0; i-- {
		got = append(got, recs[i].Position().String())
	}
	assert.Equal(t, []string{
		"0,0,NORTH",
		"0,0,EAST",
		"1,0,EAST",
		"2,0,EAST",
		"2,0,NORTH",
		"2,1,NORTH",
	}, got)
}

func TestRobot_CustomGrid(t *testing.T) {
	ctx := context.Background()
	grid := domain.Grid{Size: 8}
	mgr := positions.NewManager(memory.NewStore(), positions.WithGrid(grid))
	bot := robot.New(mgr, robot.WithGrid(grid))
	defer bot.Close()

	require.NoError(t, bot.Place(7, 7))
	assert.EqualError(t, bot.Place(8, 0), "x and y must be between 0 and 7")

	rec, err := bot.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, rec.X)
}

func TestRobot_LoadAdoptsPersistedPosition(t *testing.T) {
	ctx := context.Background()
	mgr := positions.NewManager(memory.NewStore())
	_, err := mgr.Append(ctx, domain.Position{X: 3, Y: 1, Direction: domain.South})
	require.NoError(t, err)

	bot := robot.New(mgr)
	defer bot.Close()
	require.NoError(t, bot.Load(ctx))

	pos, placed := bot.Position()
	require.True(t, placed)
	assert.Equal(t, domain.Position{X: 3, Y: 1, Direction: domain.South}, pos)

	require.True(t, bot.Move())
	pos, _ = bot.Position()
	assert.Equal(t, 0, pos.Y)
}

func TestRobot_LoadEmptyLog(t *testing.T) {
	bot, _ := newRobot(t)
	require.NoError(t, bot.Load(context.Background()))

	_, placed := bot.Position()
	assert.False(t, placed)
}

// flakyRecorder fails every write and answers reads from its own record.
type flakyRecorder struct {
	mu     sync.Mutex
	calls  int
	latest domain.Record
}

var errDown = &domain.TransportError{Op: "record", Err: errors.New("connection refused")}

func (f *flakyRecorder) Record(ctx context.Context, pos domain.Position) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return domain.Record{}, errDown
}

func (f *flakyRecorder) Latest(ctx context.Context) (domain.Record, error) {
	if f.latest.ID == 0 {
		return domain.Record{}, domain.ErrNotPlaced
	}
	return f.latest, nil
}

func (f *flakyRecorder) History(ctx context.Context) ([]domain.Record, error) {
	return nil, errDown
}

func TestRobot_FailedWritesKeepState(t *testing.T) {
	ctx := context.Background()
	rec := &flakyRecorder{latest: domain.NewRecord(1, domain.Position{X: 0, Y: 0, Direction: domain.North})}
	bot := robot.New(rec)
	defer bot.Close()

	require.NoError(t, bot.Place(2, 2))
	bot.Move()
	require.NoError(t, bot.Flush(ctx))

	assert.Equal(t, int64(2), bot.Failures())
	pos, placed := bot.Position()
	require.True(t, placed)
	assert.Equal(t, domain.Position{X: 2, Y: 3, Direction: domain.North}, pos)

	// Report returns what the log holds without rewinding the session.
	got, err := bot.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	pos, _ = bot.Position()
	assert.Equal(t, 3, pos.Y)

	_, err = bot.History(ctx)
	var terr *domain.TransportError
	assert.ErrorAs(t, err, &terr)
}

func TestRobot_CommandsAfterClose(t *testing.T) {
	bot, _ := newRobot(t)
	require.NoError(t, bot.Close())

	require.NoError(t, bot.Place(1, 1))
	pos, placed := bot.Position()
	assert.True(t, placed)
	assert.Equal(t, 1, pos.X)

	_, err := bot.Report(context.Background())
	assert.ErrorIs(t, err, robot.ErrQueueClosed)
}

func TestRobot_StateReadableWhileQueueFull(t *testing.T) {
	ctx := context.Background()
	rec := &gatedRecorder{Manager: positions.NewManager(memory.NewStore()), gate: make(chan struct{})}
	bot := robot.New(rec, robot.WithQueueSize(1))
	t.Cleanup(func() { _ = bot.Close() })

	require.NoError(t, bot.Place(0, 0))
	require.True(t, bot.Move())

	moved := make(chan bool, 1)
	go func() { moved <- bot.Move() }()
	require.Eventually(t, func() bool {
		pos, placed := bot.Position()
		return placed && pos.Y == 2
	}, time.Second, time.Millisecond)

	// A second command queues up behind the blocked one without holding the state.
	turned := make(chan bool, 1)
	go func() { turned <- bot.Right() }()
	read := make(chan domain.Position, 1)
	go func() {
		pos, _ := bot.Position()
		read <- pos
	}()
	select {
	case pos := <-read:
		assert.Equal(t, 2, pos.Y)
	case <-time.After(time.Second):
		t.Fatal("Position blocked behind a pending write")
	}

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err := bot.Report(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(rec.gate)
	assert.True(t, <-moved)
	assert.True(t, <-turned)
	require.NoError(t, bot.Flush(ctx))

	recs, err := rec.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 4)
	latest, err := rec.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Position{X: 0, Y: 2, Direction: domain.East}, latest.Position())
}
