package domain

import "math"

// ParsePositionRequest validates a decoded JSON request body and returns the position it describes.
// Checks run in a fixed order and the first failure decides the reason:
// presence, direction membership, numeric type, then range.
// Coordinates must be JSON numbers with an integral value, so 1.0 is accepted and 1.5
// is rejected as not a number.
func ParsePositionRequest(fields map[string]any, g Grid) (Position, error) {
	rawX, hasX := fields["x"]
	rawY, hasY := fields["y"]
	rawDir := fields["direction"]

	if !hasX || !hasY || !truthy(rawDir) {
		return Position{}, NewValidationError(ReasonRequired)
	}

	name, ok := rawDir.(string)
	if !ok {
		return Position{}, NewValidationError(ReasonInvalidDirection)
	}
	dir, err := ParseDirection(name)
	if err != nil {
		return Position{}, err
	}

	x, okX := wholeNumber(rawX)
	y, okY := wholeNumber(rawY)
	if !okX || !okY {
		return Position{}, NewValidationError(ReasonNotNumbers)
	}

	if !g.Contains(x, y) {
		return Position{}, NewValidationError(RangeReason(g))
	}

	return Position{X: x, Y: y, Direction: dir}, nil
}

// truthy mirrors the falsy values a JSON body can carry: missing, null, false, 0 and "".
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	}
	return true
}

// wholeNumber accepts JSON numbers with an integral value.
func wholeNumber(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		// Still a number; clamp so the range check reports it.
		if f > 0 {
			return math.MaxInt32, true
		}
		return math.MinInt32, true
	}
	return int(f), true
}
