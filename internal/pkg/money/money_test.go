package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 3.0, Round(2.5))
	assert.Equal(t, 2.0, Round(2.49))
	assert.Equal(t, 11.0, Round(11.0))
	assert.Equal(t, 0.0, Round(0.2))
}

func TestRatioAndPercent(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(5, 0))
	assert.Equal(t, 0.0, Percent(5, -1))
	assert.Equal(t, 0.5, Ratio(1, 2))
	assert.Equal(t, 33.0, Percent(1, 3))
	assert.Equal(t, 67.0, Percent(2, 3))
}

func TestClampAndValid(t *testing.T) {
	assert.Equal(t, 1.0, Clamp01(1.7))
	assert.Equal(t, 0.0, Clamp01(-0.1))
	assert.Equal(t, 0.4, Clamp01(0.4))
	assert.False(t, Valid(math.NaN()))
	assert.False(t, Valid(math.Inf(1)))
	assert.True(t, Valid(12))
}
