package gridworld

import (
	"fmt"
	"sort"
	"strings"
)

// Cell is an (x, y) position in a GridWorld. The origin is the bottom
// left corner and y increases upwards.
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Task determines the rewards of entering each cell of a GridWorld and
// which cells end an episode
type Task struct {
	stepReward float64
	rewards    map[Cell]float64
	ends       map[Cell]bool
	resets     map[Cell]bool
}

// NewGoal creates the task of reaching any of the goal cells, where
// each step costs stepReward
func NewGoal(goals []Cell, stepReward float64) *Task {
	t := &Task{
		stepReward: stepReward,
		rewards:    make(map[Cell]float64),
		ends:       make(map[Cell]bool),
		resets:     make(map[Cell]bool),
	}
	for _, g := range goals {
		t.ends[g] = true
	}
	return t
}

// AddCliff adds cliff cells to the task. Entering a cliff cell gives
// reward. If reset is true the agent is sent back to the start and the
// episode continues, otherwise the episode ends.
func (t *Task) AddCliff(cells []Cell, reward float64, reset bool) {
	for _, c := range cells {
		t.rewards[c] = reward
		if reset {
			t.resets[c] = true
		} else {
			t.ends[c] = true
		}
	}
}

// GetReward returns the reward for entering cell c
func (t *Task) GetReward(c Cell) float64 {
	if r, ok := t.rewards[c]; ok {
		return r
	}
	return t.stepReward
}

// AtGoal returns whether entering cell c ends the episode
func (t *Task) AtGoal(c Cell) bool {
	return t.ends[c]
}

// Resets returns whether entering cell c sends the agent back to the
// start
func (t *Task) Resets(c Cell) bool {
	return t.resets[c]
}

// Goals returns the cells which end an episode without a special
// reward
func (t *Task) Goals() []Cell {
	goals := []Cell{}
	for c := range t.ends {
		if _, ok := t.rewards[c]; !ok {
			goals = append(goals, c)
		}
	}
	sort.Slice(goals, func(i, j int) bool {
		if goals[i].Y != goals[j].Y {
			return goals[i].Y < goals[j].Y
		}
		return goals[i].X < goals[j].X
	})
	return goals
}

// cliff returns whether c is a cliff cell
func (t *Task) cliff(c Cell) bool {
	_, ok := t.rewards[c]
	return ok
}

func (t *Task) String() string {
	goals := make([]string, 0, len(t.ends))
	for _, g := range t.Goals() {
		goals = append(goals, g.String())
	}
	return strings.Join(goals, " ")
}
