package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "3 17 22 29 44", JoinInts([]int{3, 17, 22, 29, 44}))
	assert.Equal(t, "6 9", JoinInts([]int{6, 9}))
	assert.Equal(t, "", JoinInts(nil))
}
