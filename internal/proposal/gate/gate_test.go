package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryChannel(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryChannel()

	open, err := g.IsOpen(ctx, 4)
	require.NoError(t, err)
	assert.False(t, open, "channels start closed")

	require.NoError(t, g.SetOpen(ctx, 4, true))
	open, _ = g.IsOpen(ctx, 4)
	assert.True(t, open)

	other, _ := g.IsOpen(ctx, 5)
	assert.False(t, other)
}

func TestMemoryCoverLetters(t *testing.T) {
	c := NewMemoryCoverLetters()
	has, err := c.HasCoverLetter(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, has)

	c.Set(7, true)
	has, _ = c.HasCoverLetter(context.Background(), 7)
	assert.True(t, has)
}

func TestChannelKey(t *testing.T) {
	assert.Equal(t, "bankeu:submission-channel:district:12", channelKey(12))
}
