package game

import (
	"math/rand"
	"testing"

	"github.com/skysquad/skysquad/pkg/game/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarField_SpawnsToTargetCount(t *testing.T) {
	field := NewStarField(constants.StarTargetCount, rand.New(rand.NewSource(1)))
	assert.Equal(t, constants.StarTargetCount, field.Count())

	for id, star := range field.Stars() {
		assert.Equal(t, id, star.ID)
		assert.LessOrEqual(t, star.Position.X, constants.WorldBound)
		assert.GreaterOrEqual(t, star.Position.X, -constants.WorldBound)
		assert.LessOrEqual(t, star.Position.Y, constants.WorldBound)
		assert.GreaterOrEqual(t, star.Position.Y, -constants.WorldBound)
		assert.Contains(t, []int{constants.StarBaseValue, constants.StarSpecialValue}, star.Value)
	}
}

func TestStarField_CollectRemovesStar(t *testing.T) {
	field := NewStarField(0, rand.New(rand.NewSource(1)))
	star := field.spawnAt(1, 1, constants.StarBaseValue)

	value, ok := field.Collect(star.ID)
	require.True(t, ok)
	assert.Equal(t, constants.StarBaseValue, value)
	assert.Equal(t, 0, field.Count())

	_, ok = field.Collect(star.ID)
	assert.False(t, ok, "a collected star cannot be collected again")
}

func TestStarField_SpecialStarFrequency(t *testing.T) {
	field := NewStarField(0, rand.New(rand.NewSource(42)))

	special := 0
	spawns := 10000
	for i := 0; i < spawns; i++ {
		star := field.Spawn()
		if star.Value == constants.StarSpecialValue {
			special++
		}
		field.Collect(star.ID)
	}

	// 10% expected, allow a generous band for the fixed seed.
	assert.InDelta(t, float64(spawns)*constants.StarSpecialChance, float64(special), float64(spawns)*0.02)
}

func TestStarField_StarsReturnsCopies(t *testing.T) {
	field := NewStarField(0, rand.New(rand.NewSource(1)))
	star := field.spawnAt(2, 2, constants.StarBaseValue)

	snapshot := field.Stars()
	snapshot[star.ID].Position.X = -4

	current, ok := field.Get(star.ID)
	require.True(t, ok)
	assert.Equal(t, 2.0, current.Position.X)
}
