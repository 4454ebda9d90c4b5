package types

// StarState is one active collectible star.
type StarState struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Value    int      `json:"value"`
}

func NewStarState(id string, x float64, y float64, value int) *StarState {
	return &StarState{
		ID: id,
		Position: Position{
			X: x,
			Y: y,
		},
		Value: value,
	}
}

func (s *StarState) Copy() *StarState {
	return &StarState{
		ID:       s.ID,
		Position: s.Position,
		Value:    s.Value,
	}
}
