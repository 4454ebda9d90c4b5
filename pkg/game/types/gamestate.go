package types

type GameState struct {
	// Timestamp is the time at which the game state was generated
	Timestamp int64
	// Score is the shared team score. It only ever increases and is
	// reset when the process restarts.
	Score int
	// Players maps client IDs to player states
	Players map[uint32]*PlayerState
	// Stars maps star IDs to active stars
	Stars map[string]*StarState
}

func NewGameState() *GameState {
	return &GameState{
		Players: make(map[uint32]*PlayerState),
		Stars:   make(map[string]*StarState),
	}
}

func (g *GameState) Copy() *GameState {
	newGameState := &GameState{
		Timestamp: g.Timestamp,
		Score:     g.Score,
		Players:   make(map[uint32]*PlayerState),
		Stars:     make(map[string]*StarState),
	}
	for id, player := range g.Players {
		newGameState.Players[id] = player.Copy()
	}
	for id, star := range g.Stars {
		newGameState.Stars[id] = star.Copy()
	}
	return newGameState
}
