package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectLockKey(t *testing.T) {
	assert.Equal(t, SubjectLockKey(7, 3), SubjectLockKey(7, 3))
	assert.NotEqual(t, SubjectLockKey(7, 3), SubjectLockKey(3, 7))
	assert.NotEqual(t, SubjectLockKey(7, 0), SubjectLockKey(7, 3), "blanket certificates lock separately")

	big := int64(math.MaxInt32) + 1
	assert.NotEqual(t, SubjectLockKey(big, 3), SubjectLockKey(big+1, 3))
	assert.NotPanics(t, func() { SubjectLockKey(math.MaxInt64, math.MaxInt64) })
}
