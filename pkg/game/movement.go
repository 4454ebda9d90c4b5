package game

import (
	"github.com/skysquad/skysquad/pkg/game/constants"
	"github.com/skysquad/skysquad/pkg/game/types"
)

// Direction is a movement command sent by a client.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ComputeNewPosition applies a movement command to a position and clamps
// the result to the world bounds. Unknown directions return the input
// position unchanged, so malformed client commands have no effect.
func ComputeNewPosition(pos types.Position, direction Direction, speed float64) types.Position {
	switch direction {
	case DirectionUp:
		pos.Y += speed
	case DirectionDown:
		pos.Y -= speed
	case DirectionLeft:
		pos.X -= speed
	case DirectionRight:
		pos.X += speed
	default:
		return pos
	}

	pos.X = clampToWorld(pos.X)
	pos.Y = clampToWorld(pos.Y)

	return pos
}

func clampToWorld(v float64) float64 {
	if v > constants.WorldBound {
		return constants.WorldBound
	}
	if v < -constants.WorldBound {
		return -constants.WorldBound
	}
	return v
}
