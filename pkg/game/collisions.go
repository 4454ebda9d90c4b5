package game

import (
	"math"

	"github.com/skysquad/skysquad/pkg/game/types"
)

// IsColliding reports whether two positions are within radius of each
// other. The comparison is exclusive: a distance exactly equal to the
// radius does not collide.
func IsColliding(a types.Position, b types.Position, radius float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) < radius
}
