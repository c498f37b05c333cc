package domain

import "fmt"

// DefaultGridSize is the side of the classic toy robot table.
const DefaultGridSize = 5

// Grid is the square board the robot moves on.
type Grid struct {
	Size int
}

// DefaultGrid is the 5x5 board.
var DefaultGrid = Grid{Size: DefaultGridSize}

// Contains reports whether (x, y) lies on the board, using half-open bounds [0, Size).
func (g Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.Size && y >= 0 && y < g.Size
}

// Position is where the robot stands and which way it faces.
type Position struct {
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Direction Direction `json:"direction"`
}

// Validate checks the position against the grid.
// It runs the direction check before the range check, matching the API order.
func (p Position) Validate(g Grid) error {
	if !p.Direction.Valid() {
		return NewValidationError(ReasonInvalidDirection)
	}
	if !g.Contains(p.X, p.Y) {
		return NewValidationError(RangeReason(g))
	}
	return nil
}

// Step returns the position one cell ahead.
// A step that would leave the grid is absorbed and the position is returned unchanged.
func (p Position) Step(g Grid) Position {
	dx, dy := p.Direction.Delta()
	next := Position{X: p.X + dx, Y: p.Y + dy, Direction: p.Direction}
	if !g.Contains(next.X, next.Y) {
		return p
	}
	return next
}

// Turn returns the position rotated once, keeping the coordinates.
func (p Position) Turn(t Turn) Position {
	p.Direction = p.Direction.Rotate(t)
	return p
}

// String formats the position as a classic report line body: "X,Y,DIRECTION".
func (p Position) String() string {
	return fmt.Sprintf("%d,%d,%s", p.X, p.Y, p.Direction)
}

// Record is an immutable, id-stamped snapshot in the position log.
type Record struct {
	ID        int64     `json:"id"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Direction Direction `json:"direction"`
}

// NewRecord stamps a position with an id.
func NewRecord(id int64, p Position) Record {
	return Record{ID: id, X: p.X, Y: p.Y, Direction: p.Direction}
}

// Position returns the placement captured by the record.
func (r Record) Position() Position {
	return Position{X: r.X, Y: r.Y, Direction: r.Direction}
}
