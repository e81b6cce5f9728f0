package counters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		current  uint64
		change   uint64
		progress ProgressType
		want     uint64
	}{
		{"set replaces", 10, 3, ProgressSet, 3},
		{"set to zero", 10, 0, ProgressSet, 0},
		{"accumulate adds", 10, 3, ProgressAccumulate, 13},
		{"accumulate saturates", math.MaxUint64 - 1, 5, ProgressAccumulate, math.MaxUint64},
		{"accumulate at max", math.MaxUint64, 1, ProgressAccumulate, math.MaxUint64},
		{"highest keeps larger current", 10, 3, ProgressHighest, 10},
		{"highest takes larger change", 10, 30, ProgressHighest, 30},
		{"unknown type keeps current", 7, 1, ProgressType(9), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.current, tt.change, tt.progress))
		})
	}
}

func TestCounter_AccumulateNeverDecreases(t *testing.T) {
	c := Counter{}
	prev := c.Value
	for _, step := range []uint64{1, 1 << 62, 1 << 62, 1 << 63, math.MaxUint64, 7} {
		c.Apply(step, ProgressAccumulate)
		assert.GreaterOrEqual(t, c.Value, prev)
		prev = c.Value
	}
	assert.Equal(t, uint64(math.MaxUint64), c.Value)
}

func TestCounter_ApplyReportsChange(t *testing.T) {
	c := Counter{Value: 5}

	assert.False(t, c.Apply(5, ProgressSet))
	assert.False(t, c.Apply(4, ProgressHighest))
	assert.True(t, c.Apply(2, ProgressAccumulate))
	assert.Equal(t, uint64(7), c.Value)
	assert.False(t, c.Apply(0, ProgressAccumulate))
}

func TestSaturatingMul(t *testing.T) {
	assert.Equal(t, uint64(0), SaturatingMul(0, math.MaxUint64))
	assert.Equal(t, uint64(50), SaturatingMul(5, 10))
	assert.Equal(t, uint64(math.MaxUint64), SaturatingMul(math.MaxUint64/2, 3))
}
