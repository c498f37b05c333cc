package domain

import (
	"fmt"
	"strings"
)

// Direction is the heading of the robot.
// The zero value is not a valid heading; use ParseDirection or the named constants.
type Direction uint8

const (
	North Direction = iota + 1
	East
	South
	West
)

// compass is the rotation order. Turning left walks it backwards, right walks it forwards.
var compass = [...]Direction{West, North, East, South}

// Directions returns all valid headings in rotation order.
func Directions() []Direction {
	out := make([]Direction, len(compass))
	copy(out, compass[:])
	return out
}

// ParseDirection converts a wire name ("north", "south", "east", "west") into a Direction.
// Matching is case-sensitive, like the HTTP API.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "north":
		return North, nil
	case "east":
		return East, nil
	case "south":
		return South, nil
	case "west":
		return West, nil
	}
	return 0, NewValidationError(ReasonInvalidDirection)
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Wire returns the lower-case name used by the API and the database.
func (d Direction) Wire() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return ""
}

// String returns the upper-case name used in reports ("NORTH").
func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case East:
		return "EAST"
	case South:
		return "SOUTH"
	case West:
		return "WEST"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// MarshalText encodes the direction with its wire name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.Wire()), nil
}

// UnmarshalText decodes a wire name. Unknown names are rejected.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Rotate returns the heading after turning once.
func (d Direction) Rotate(t Turn) Direction {
	idx := d.index()
	if idx < 0 {
		return d
	}
	n := len(compass)
	switch t {
	case Left:
		return compass[(idx-1+n)%n]
	case Right:
		return compass[(idx+1)%n]
	}
	return d
}

// Delta returns the unit step taken when moving forward.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	}
	return 0, 0
}

func (d Direction) index() int {
	for i, c := range compass {
		if c == d {
			return i
		}
	}
	return -1
}

// Turn is a rotation command.
type Turn uint8

const (
	Left Turn = iota + 1
	Right
)

// ParseTurn converts "left" or "right" (any case) into a Turn.
func ParseTurn(s string) (Turn, error) {
	switch {
	case strings.EqualFold(s, "left"):
		return Left, nil
	case strings.EqualFold(s, "right"):
		return Right, nil
	}
	return 0, fmt.Errorf("unknown turn %q", s)
}

func (t Turn) String() string {
	switch t {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return fmt.Sprintf("Turn(%d)", uint8(t))
}
