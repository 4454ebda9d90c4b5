package state

import (
	"context"
	"testing"

	"github.com/skysquad/skysquad/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStateManager(t *testing.T) {
	ctx := context.Background()
	sm := NewInMemoryStateManager()

	gameState := types.NewGameState()
	gameState.Score = 7
	gameState.Players[1] = types.NewPlayerState("", "rosa", 1, 2)
	require.NoError(t, sm.Set(ctx, gameState))

	got, err := sm.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Score)

	// Mutating the returned snapshot does not affect the stored state.
	got.Players[1].Position.X = 99
	again, err := sm.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, again.Players[1].Position.X)
}

func TestInMemoryStateManager_RejectsNil(t *testing.T) {
	sm := NewInMemoryStateManager()
	assert.Error(t, sm.Set(context.Background(), nil))
}
