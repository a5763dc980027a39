package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePair(t *testing.T) {
	a, b := normalizePair(7, 3)
	assert.Equal(t, 3, a)
	assert.Equal(t, 7, b)

	a, b = normalizePair(3, 7)
	assert.Equal(t, 3, a)
	assert.Equal(t, 7, b)

	// both orderings of the same pair land on the same row key
	a1, b1 := normalizePair(12, 99)
	a2, b2 := normalizePair(99, 12)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
}
