package game

import (
	"sort"

	"github.com/skysquad/skysquad/pkg/game/types"
	"github.com/skysquad/skysquad/pkg/messages"
)

// ServerGameUpdateFromState flattens a game state snapshot into the wire
// representation. Entries are sorted so consecutive updates are stable.
func ServerGameUpdateFromState(gameState *types.GameState) *messages.ServerGameUpdate {
	update := &messages.ServerGameUpdate{
		Timestamp: gameState.Timestamp,
		Score:     gameState.Score,
		Players:   make([]messages.PlayerInfo, 0, len(gameState.Players)),
		Stars:     make([]messages.StarInfo, 0, len(gameState.Stars)),
	}

	for clientID, playerState := range gameState.Players {
		update.Players = append(update.Players, messages.PlayerInfo{
			ClientID: clientID,
			Username: playerState.Name,
			X:        playerState.Position.X,
			Y:        playerState.Position.Y,
		})
	}
	sort.Slice(update.Players, func(i, j int) bool {
		return update.Players[i].ClientID < update.Players[j].ClientID
	})

	for _, starState := range gameState.Stars {
		update.Stars = append(update.Stars, messages.StarInfo{
			ID:    starState.ID,
			X:     starState.Position.X,
			Y:     starState.Position.Y,
			Value: starState.Value,
		})
	}
	sort.Slice(update.Stars, func(i, j int) bool {
		return update.Stars[i].ID < update.Stars[j].ID
	})

	return update
}
