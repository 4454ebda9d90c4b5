package types

// PlayerState is the authoritative state of one connected plane.
type PlayerState struct {
	// UserID is the persisted user identity, empty for guests.
	UserID   string   `json:"-"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

func NewPlayerState(userID string, name string, x float64, y float64) *PlayerState {
	return &PlayerState{
		UserID: userID,
		Name:   name,
		Position: Position{
			X: x,
			Y: y,
		},
	}
}

func (p *PlayerState) Copy() *PlayerState {
	return &PlayerState{
		UserID:   p.UserID,
		Name:     p.Name,
		Position: p.Position,
	}
}
