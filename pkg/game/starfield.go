package game

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/skysquad/skysquad/pkg/game/constants"
	"github.com/skysquad/skysquad/pkg/game/types"
)

// StarField maintains the live set of collectible stars. It is not safe
// for concurrent use: all access happens on the game loop goroutine.
type StarField struct {
	stars       map[string]*types.StarState
	targetCount int
	rng         *rand.Rand
}

// NewStarField creates a field populated up to targetCount stars.
func NewStarField(targetCount int, rng *rand.Rand) *StarField {
	f := &StarField{
		stars:       make(map[string]*types.StarState),
		targetCount: targetCount,
		rng:         rng,
	}
	for i := 0; i < targetCount; i++ {
		f.Spawn()
	}
	return f
}

// Spawn adds a new star at a uniformly random position within the world
// bounds. Star IDs are UUIDs, so an active star never shares an ID with
// another.
func (f *StarField) Spawn() *types.StarState {
	value := constants.StarBaseValue
	if f.rng.Float64() < constants.StarSpecialChance {
		value = constants.StarSpecialValue
	}
	star := types.NewStarState(
		uuid.NewString(),
		f.randomCoordinate(),
		f.randomCoordinate(),
		value,
	)
	f.stars[star.ID] = star
	return star
}

// Collect removes the star and returns its value. It returns false if
// the star is not active, which happens when another collector got to
// it first.
func (f *StarField) Collect(starID string) (int, bool) {
	star, ok := f.stars[starID]
	if !ok {
		return 0, false
	}
	delete(f.stars, starID)
	return star.Value, true
}

// Get returns the active star with the given ID, if any.
func (f *StarField) Get(starID string) (*types.StarState, bool) {
	star, ok := f.stars[starID]
	return star, ok
}

// Stars returns a copy of the active star set.
func (f *StarField) Stars() map[string]*types.StarState {
	stars := make(map[string]*types.StarState, len(f.stars))
	for id, star := range f.stars {
		stars[id] = star.Copy()
	}
	return stars
}

// Count returns the number of active stars.
func (f *StarField) Count() int {
	return len(f.stars)
}

func (f *StarField) randomCoordinate() float64 {
	return -constants.WorldBound + f.rng.Float64()*2*constants.WorldBound
}

// spawnAt places a star at an exact position. Used by tests to set up
// deterministic collection scenarios.
func (f *StarField) spawnAt(x float64, y float64, value int) *types.StarState {
	star := types.NewStarState(uuid.NewString(), x, y, value)
	f.stars[star.ID] = star
	return star
}
