package intutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	assert.Equal(t, -3, Min(4, -3, 2))
	assert.Equal(t, 4, Max(4, -3, 2))
	assert.Equal(t, 7, Max(7))
}

func TestClip(t *testing.T) {
	tests := []struct {
		value, want int
	}{
		{-1, 0},
		{0, 0},
		{5, 5},
		{9, 9},
		{12, 9},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, Clip(test.value, 0, 9), "clip %d",
			test.value)
	}
}
