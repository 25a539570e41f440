package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(5.0, Clamp(5, 0, 10))
	assert.Equal(0.0, Clamp(-3, 0, 10))
	assert.Equal(10.0, Clamp(11, 0, 10))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"inside", 2.2945, 2.2945},
		{"lower bound", -180, -180},
		{"upper bound", 180, -180},
		{"east overflow", 190, -170},
		{"west overflow", -190, 170},
		{"several turns", 900, 180 - 360},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.InDelta(t, test.want, Wrap(test.v, -180, 180), 1e-9)
		})
	}
}
