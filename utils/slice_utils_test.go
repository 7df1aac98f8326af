package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSliceSelectAndWhere checks projection and filtering of slices.
func TestSliceSelectAndWhere(t *testing.T) {
	words := []string{"address", "bool", "bytes32", "string"}

	lengths := SliceSelect(words, func(s string) int { return len(s) })
	assert.Equal(t, []int{7, 4, 7, 6}, lengths)

	long := SliceWhere(words, func(s string) bool { return len(s) > 6 })
	assert.Equal(t, []string{"address", "bytes32"}, long)

	assert.Empty(t, SliceWhere(words, func(s string) bool { return false }))
	assert.NotNil(t, SliceWhere[string](nil, func(s string) bool { return true }))
}
