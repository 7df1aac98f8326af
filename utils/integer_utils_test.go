package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetIntegerConstraints verifies the inclusive bounds computed for a handful of signed and unsigned widths.
func TestGetIntegerConstraints(t *testing.T) {
	min, max := GetIntegerConstraints(false, 8)
	assert.EqualValues(t, 0, min.Int64())
	assert.EqualValues(t, 255, max.Int64())

	min, max = GetIntegerConstraints(true, 8)
	assert.EqualValues(t, -128, min.Int64())
	assert.EqualValues(t, 127, max.Int64())

	// 2^256 - 1 has 256 bits set
	_, max = GetIntegerConstraints(false, 256)
	assert.Equal(t, 256, max.BitLen())
	assert.Zero(t, max.Add(max, big.NewInt(1)).Cmp(new(big.Int).Lsh(big.NewInt(1), 256)))
}

// TestIsIntegerInBounds checks the boundary values around the limits of 8-bit integers.
func TestIsIntegerInBounds(t *testing.T) {
	assert.True(t, IsIntegerInBounds(big.NewInt(0), false, 8))
	assert.True(t, IsIntegerInBounds(big.NewInt(255), false, 8))
	assert.False(t, IsIntegerInBounds(big.NewInt(256), false, 8))
	assert.False(t, IsIntegerInBounds(big.NewInt(-1), false, 8))

	assert.True(t, IsIntegerInBounds(big.NewInt(-128), true, 8))
	assert.True(t, IsIntegerInBounds(big.NewInt(127), true, 8))
	assert.False(t, IsIntegerInBounds(big.NewInt(128), true, 8))
	assert.False(t, IsIntegerInBounds(big.NewInt(-129), true, 8))
}

// TestRoundUpToMultiple checks rounding to 32-byte word boundaries.
func TestRoundUpToMultiple(t *testing.T) {
	assert.Equal(t, 0, RoundUpToMultiple(0, 32))
	assert.Equal(t, 32, RoundUpToMultiple(1, 32))
	assert.Equal(t, 32, RoundUpToMultiple(32, 32))
	assert.Equal(t, uint64(64), RoundUpToMultiple(uint64(33), uint64(32)))
}
