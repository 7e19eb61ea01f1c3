package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int
		want   float64
	}{
		{"two places", 9.391708, 2, 9.39},
		{"three places", 0.065220, 3, 0.065},
		{"half away from zero", 2.5, 0, 3},
		{"negative", -1.2345, 2, -1.23},
		{"zero places", 144.4, 0, 144},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundTo(tt.value, tt.places), 1e-12)
		})
	}
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 0.0, Lerp(0, 10, 0))
	assert.Equal(t, 10.0, Lerp(0, 10, 1))
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, -2.5, Lerp(-5, 0, 0.5))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(0.5, 1, 2))
	assert.Equal(t, 2.0, Clamp(3, 1, 2))
	assert.Equal(t, 1.5, Clamp(1.5, 1, 2))

	assert.Equal(t, 1, ClampInt(-4, 1, 1000))
	assert.Equal(t, 1000, ClampInt(5000, 1, 1000))
	assert.Equal(t, 50, ClampInt(50, 1, 1000))
}

func TestWrapLongitude(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		want float64
	}{
		{"in range", 2.5479, 2.5479},
		{"west edge", -180, -180},
		{"east overflow", 181.5, -178.5},
		{"west overflow", -181.5, 178.5},
		{"full turn", 540, -180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WrapLongitude(tt.lon), 1e-9)
		})
	}
}
