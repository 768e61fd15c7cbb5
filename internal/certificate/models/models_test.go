package models

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	now := time.UnixMilli(1767225600123)
	entropy := bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})

	code, err := NewCode(2, 11, now, entropy)
	require.NoError(t, err)
	assert.Equal(t, "BA-2-11-1767225600123-DEADBEEF", code)

	t.Run("short entropy fails", func(t *testing.T) {
		_, err := NewCode(2, 11, now, bytes.NewReader([]byte{1, 2}))
		assert.Error(t, err)
	})

	t.Run("random codes are well formed", func(t *testing.T) {
		code, err := NewCode(2, 11, now, nil)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^BA-2-11-1767225600123-[0-9A-F]{8}$`), code)
	})
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "BA-2-11-1-DEADBEEF", NormalizeCode("  ba-2-11-1-deadbeef\n"))
}

func TestEntryClone(t *testing.T) {
	yes := true
	e := &Entry{Roster: []RosterMember{{Name: "Bambang"}}}
	e.Checklist.Items[0] = &yes
	c := e.Clone()

	c.Roster[0].Name = "Rina"
	*c.Checklist.Items[0] = false
	c.Checklist.Items[1] = &yes

	assert.Equal(t, "Bambang", e.Roster[0].Name)
	assert.True(t, *e.Checklist.Items[0], "snapshot answers are not shared")
	assert.Nil(t, e.Checklist.Items[1])
}
