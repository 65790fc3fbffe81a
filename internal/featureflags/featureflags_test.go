package featureflags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWithoutKey(t *testing.T) {
	require.NoError(t, Init(context.Background(), ""))
	defer Shutdown()

	snap := Current()
	assert.False(t, snap.Offline)
	assert.True(t, snap.Uploads)
	assert.Equal(t, "info", snap.LogLevel)
	assert.False(t, snap.Online)

	// second Init is a no-op
	require.NoError(t, Init(context.Background(), ""))
	assert.Same(t, Values(), Values())
}
