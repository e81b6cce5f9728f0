// Package counters implements the saturating arithmetic behind criteria
// progress counters.
package counters

import (
	"fmt"
	"math"
)

// ProgressType selects how a change value is folded into a counter.
type ProgressType uint8

const (
	// ProgressSet replaces the counter.
	ProgressSet ProgressType = iota
	// ProgressAccumulate adds to the counter, saturating at the maximum.
	ProgressAccumulate
	// ProgressHighest keeps the larger of the counter and the change.
	ProgressHighest
)

// String returns the string representation of the progress type.
func (p ProgressType) String() string {
	switch p {
	case ProgressSet:
		return "SET"
	case ProgressAccumulate:
		return "ACCUMULATE"
	case ProgressHighest:
		return "HIGHEST"
	default:
		return fmt.Sprintf("PROGRESS_TYPE_%d", uint8(p))
	}
}

// Counter is a non-negative progress value that never wraps.
type Counter struct {
	Value uint64
}

// Apply folds change into the counter and reports whether the value moved.
func (c *Counter) Apply(change uint64, progressType ProgressType) bool {
	next := Next(c.Value, change, progressType)
	if next == c.Value {
		return false
	}
	c.Value = next
	return true
}

// Next returns the value a counter holding current takes after change.
func Next(current, change uint64, progressType ProgressType) uint64 {
	switch progressType {
	case ProgressSet:
		return change
	case ProgressAccumulate:
		return SaturatingAdd(current, change)
	case ProgressHighest:
		if change > current {
			return change
		}
		return current
	default:
		return current
	}
}

// SaturatingAdd returns a+b clamped to math.MaxUint64.
func SaturatingAdd(a, b uint64) uint64 {
	if math.MaxUint64-a < b {
		return math.MaxUint64
	}
	return a + b
}

// SaturatingMul returns a*b clamped to math.MaxUint64.
func SaturatingMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxUint64/b {
		return math.MaxUint64
	}
	return a * b
}
