package kpi

import "fmt"

// Direction is the sign of a period-over-period change
type Direction string

// Trend directions
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Comparison is the relative change of a current value versus a prior
// period value. Percentage keeps full precision; rounding to one decimal
// happens in Display only. Direction is polarity-agnostic: whether "up"
// is good is decided by the indicator, not here.
type Comparison struct {
	Percentage float64   `json:"percentage"`
	Direction  Direction `json:"direction"`
}

// Compare derives the percentage delta of current against previous.
// The second return is false when previous is nil or zero: comparison is
// undefined and no division is performed.
func Compare(current float64, previous *float64) (Comparison, bool) {
	if previous == nil || *previous == 0 {
		return Comparison{}, false
	}

	pct := ((current - *previous) / *previous) * 100

	dir := DirectionFlat
	switch {
	case pct > 0:
		dir = DirectionUp
	case pct < 0:
		dir = DirectionDown
	}

	return Comparison{Percentage: pct, Direction: dir}, true
}

// DirectionOf maps a percentage delta to its trend direction
func DirectionOf(pct float64) Direction {
	switch {
	case pct > 0:
		return DirectionUp
	case pct < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// Display renders the percentage with one decimal and an explicit sign
// for increases, e.g. "+5.9%" or "-20.0%".
func (c Comparison) Display() string {
	return fmt.Sprintf("%+.1f%%", c.Percentage)
}
