package hunt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKnownPair(t *testing.T) {
	// Lyon <-> Grenoble, the reference pair used throughout the hunt tests.
	d := Distance(45.74846, 4.84671, 45.16667, 5.71667)
	assert.InDelta(t, 93749.54, d, 1.0)
}

func TestDistanceSymmetric(t *testing.T) {
	a := Distance(45.74846, 4.84671, 45.16667, 5.71667)
	b := Distance(45.16667, 5.71667, 45.74846, 4.84671)
	assert.InDelta(t, a, b, 1e-9)
}

func TestDistanceZeroForIdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{45.74846, 4.84671},
		{0, 0},
		{-33.865143, 151.209900},
		{89.999999, 10},
	}
	for _, p := range points {
		// Rounding may push the acos argument past 1; the clamp must keep
		// the result at exactly zero.
		assert.Equal(t, 0.0, Distance(p[0], p[1], p[0], p[1]))
	}
}

func TestDistanceNearAntipodes(t *testing.T) {
	d := Distance(0, 0, 0, 180)
	assert.InDelta(t, 3.14159265*6371000, d, 1000)
}
