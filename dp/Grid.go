package dp

import "github.com/samuelfneumann/gotabular/environment"

// Actions of the small gridworld
const (
	North environment.Action = iota
	East
	South
	West
)

// GridSize is the width and height of the small gridworld
const GridSize = 4

// NewGrid returns the 4x4 gridworld with states numbered row by row
// from the top left. States 0 and 15 are terminal. Every other step
// costs -1, and moves off the grid leave the agent in place.
func NewGrid(gamma float64) (*MDP, error) {
	spec := environment.NewActionSpec("n", "e", "s", "w")
	n := GridSize * GridSize

	next := func(s int, a environment.Action) int {
		switch {
		case a == North && s < GridSize,
			a == South && s >= n-GridSize,
			a == West && s%GridSize == 0,
			a == East && (s+1)%GridSize == 0:
			return s
		}
		return s + []int{-GridSize, 1, GridSize, -1}[a]
	}
	reward := func(int, environment.Action) float64 { return -1 }

	return NewMDP(n, spec, gamma, next, reward, 0, n-1)
}
