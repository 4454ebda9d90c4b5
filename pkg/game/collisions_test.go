package game

import (
	"testing"

	"github.com/skysquad/skysquad/pkg/game/constants"
	"github.com/skysquad/skysquad/pkg/game/types"
	"github.com/stretchr/testify/assert"
)

func TestIsColliding(t *testing.T) {
	tests := []struct {
		name string
		a    types.Position
		b    types.Position
		want bool
	}{
		{
			name: "same point",
			a:    types.Position{X: 1, Y: 1},
			b:    types.Position{X: 1, Y: 1},
			want: true,
		},
		{
			name: "inside the radius",
			a:    types.Position{X: 0, Y: 0},
			b:    types.Position{X: 0.3, Y: 0.3},
			want: true,
		},
		{
			name: "exactly at the radius is not a collision",
			a:    types.Position{X: 0, Y: 0},
			b:    types.Position{X: 0.5, Y: 0},
			want: false,
		},
		{
			name: "just inside the radius",
			a:    types.Position{X: 0, Y: 0},
			b:    types.Position{X: 0.499, Y: 0},
			want: true,
		},
		{
			name: "outside the radius",
			a:    types.Position{X: -2, Y: 3},
			b:    types.Position{X: 2, Y: -3},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsColliding(tt.a, tt.b, constants.StarCollectionRadius))
		})
	}
}
