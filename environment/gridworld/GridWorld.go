// Package gridworld implements 2D gridworld environments, including the
// windy gridworld and the cliff walk.
package gridworld

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/timestep"
	"github.com/samuelfneumann/gotabular/utils/intutils"
)

// Actions of a GridWorld
const (
	Left environment.Action = iota
	Right
	Up
	Down
)

// actionSpec is shared by every GridWorld
var actionSpec = environment.NewActionSpec("Left", "Right", "Up", "Down")

// GridWorld represents a gridworld environment. Observations are the
// (x, y) coordinates of the agent.
//
// Moves which would leave the grid keep the agent on the border.
// Wind pushes the agent upwards by the wind strength of the column it
// is leaving. Walls cannot be entered.
type GridWorld struct {
	*Task
	environment.Starter
	ender environment.Ender

	c, r     int // columns and rows
	wind     []int
	walls    map[Cell]bool
	discount float64

	position    Cell
	currentStep timestep.TimeStep
	started     bool
}

// Option configures a GridWorld
type Option func(*GridWorld) error

// WithWind sets the upward wind strength of each column
func WithWind(wind []int) Option {
	return func(g *GridWorld) error {
		if len(wind) != g.c {
			return fmt.Errorf("withWind: expected wind for %d columns, "+
				"got %d", g.c, len(wind))
		}
		g.wind = wind
		return nil
	}
}

// WithWalls adds cells which cannot be entered
func WithWalls(cells ...Cell) Option {
	return func(g *GridWorld) error {
		for _, c := range cells {
			if !g.inBounds(c) {
				return fmt.Errorf("withWalls: wall %v out of bounds", c)
			}
			g.walls[c] = true
		}
		return nil
	}
}

// WithStepLimit cuts off episodes after steps steps
func WithStepLimit(steps int) Option {
	return func(g *GridWorld) error {
		if steps < 0 {
			return fmt.Errorf("withStepLimit: negative step limit %d", steps)
		}
		g.ender = environment.NewStepLimit(steps)
		return nil
	}
}

// WithStarter sets the distribution of starting cells
func WithStarter(s environment.Starter) Option {
	return func(g *GridWorld) error {
		g.Starter = s
		return nil
	}
}

// New creates a new gridworld with c columns and r rows in which
// episodes start at start, with task t and discount factor discount
func New(c, r int, start Cell, t *Task, discount float64,
	opts ...Option) (*GridWorld, error) {
	if c <= 0 || r <= 0 {
		return nil, fmt.Errorf("new: invalid dimensions (%d, %d)", c, r)
	}

	g := &GridWorld{
		Task:     t,
		Starter:  environment.SingleStart{start.X, start.Y},
		ender:    environment.NewStepLimit(0),
		c:        c,
		r:        r,
		wind:     make([]int, c),
		walls:    make(map[Cell]bool),
		discount: discount,
	}
	if !g.inBounds(start) {
		return nil, fmt.Errorf("new: start %v out of bounds", start)
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, fmt.Errorf("new: %w", err)
		}
	}

	return g, nil
}

// OpenCells returns the cells in which an episode may start: every
// cell which is not a wall and which neither ends the episode nor sends
// the agent back to the start when entered. Cells are ordered by row
// and then by column.
func (g *GridWorld) OpenCells() []Cell {
	cells := make([]Cell, 0, g.c*g.r)
	for y := 0; y < g.r; y++ {
		for x := 0; x < g.c; x++ {
			c := Cell{x, y}
			if g.walls[c] || g.AtGoal(c) || g.Resets(c) {
				continue
			}
			cells = append(cells, c)
		}
	}
	return cells
}

// StartAnywhere starts every following episode in a cell sampled
// uniformly from OpenCells
func (g *GridWorld) StartAnywhere(seed uint64) {
	cells := g.OpenCells()
	starts := make([]statekey.Descriptor, len(cells))
	for i, c := range cells {
		starts[i] = statekey.Descriptor{c.X, c.Y}
	}
	g.Starter = environment.NewCategoricalStarter(starts, seed)
}

// Dims gets the columns and rows of the GridWorld
func (g *GridWorld) Dims() (c, r int) {
	return g.c, g.r
}

// Reset resets the environment and returns the first TimeStep of a new
// episode
func (g *GridWorld) Reset() (timestep.TimeStep, error) {
	start, err := toCell(g.Start())
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	if !g.inBounds(start) || g.walls[start] {
		return timestep.TimeStep{}, fmt.Errorf("reset: invalid start %v",
			start)
	}
	g.position = start

	step := timestep.New(timestep.First, 0, g.discount, g.observation(), 0)
	g.currentStep = step
	g.started = true
	return step, nil
}

// Step takes one environmental step given some action
func (g *GridWorld) Step(action environment.Action) (timestep.TimeStep,
	bool, error) {
	if !g.started || g.currentStep.Last() {
		return g.currentStep, true, fmt.Errorf("step: %w",
			environment.ErrEpisodeOver)
	}
	if err := environment.CheckAction(actionSpec, action); err != nil {
		return g.currentStep, false, fmt.Errorf("step: %w", err)
	}

	next := g.move(g.position, action)
	reward := g.GetReward(next)
	stepType := timestep.Mid

	switch {
	case g.AtGoal(next):
		stepType = timestep.Last

	case g.Resets(next):
		start, err := toCell(g.Start())
		if err != nil {
			return g.currentStep, false, fmt.Errorf("step: %w", err)
		}
		next = start
	}
	g.position = next

	step := timestep.New(stepType, reward, g.discount, g.observation(),
		g.currentStep.Number+1)
	g.ender.End(&step)
	g.currentStep = step

	return step, step.Last(), nil
}

// move returns the cell reached by taking action from c
func (g *GridWorld) move(c Cell, action environment.Action) Cell {
	next := c
	next.Y += g.wind[c.X]

	switch action {
	case Left:
		next.X--
	case Right:
		next.X++
	case Up:
		next.Y++
	case Down:
		next.Y--
	}
	next = g.clip(next)

	if g.walls[next] {
		return c
	}
	return next
}

// clip clips a cell to the bounds of the grid
func (g *GridWorld) clip(c Cell) Cell {
	c.X = intutils.Clip(c.X, 0, g.c-1)
	c.Y = intutils.Clip(c.Y, 0, g.r-1)
	return c
}

func (g *GridWorld) inBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.c && c.Y >= 0 && c.Y < g.r
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (g *GridWorld) LastTimeStep() timestep.TimeStep {
	return g.currentStep
}

// ActionSpec returns the actions of the environment
func (g *GridWorld) ActionSpec() environment.ActionSpec {
	return actionSpec
}

// Discount returns the discount factor of the environment
func (g *GridWorld) Discount() float64 {
	return g.discount
}

// Coordinates returns the current position of the agent
func (g *GridWorld) Coordinates() (int, int) {
	return g.position.X, g.position.Y
}

// StateOf returns the observation of the agent being in cell c
func StateOf(c Cell) statekey.Descriptor {
	return statekey.Descriptor{c.X, c.Y}
}

func (g *GridWorld) observation() statekey.Descriptor {
	return StateOf(g.position)
}

// RenderPolicy draws the greedy action of q in every cell, with the
// top row first. Goals are drawn as G, cliffs as C and walls as #.
// Cells whose actions all tie are drawn as a dot.
func (g *GridWorld) RenderPolicy(q *table.ActionValues) string {
	arrows := []string{"<", ">", "^", "v"}
	var b strings.Builder

	for y := g.r - 1; y >= 0; y-- {
		for x := 0; x < g.c; x++ {
			c := Cell{x, y}
			switch {
			case g.walls[c]:
				b.WriteString("#")
			case g.cliff(c):
				b.WriteString("C")
			case g.AtGoal(c):
				b.WriteString("G")
			default:
				values := q.Values(StateOf(c).Key(), actionSpec.Actions())
				best, tie := 0, true
				for i, v := range values {
					if v != values[0] {
						tie = false
					}
					if v > values[best] {
						best = i
					}
				}
				if tie {
					b.WriteString(".")
				} else {
					b.WriteString(arrows[best])
				}
			}
			if x < g.c-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (g *GridWorld) String() string {
	str := "GridWorld | At: %v  |   Goal: %v  |  Bounds: (%d, %d)"
	return fmt.Sprintf(str, g.position, g.Task, g.c, g.r)
}

// toCell converts an observation to a Cell
func toCell(d statekey.Descriptor) (Cell, error) {
	if d.Len() != 2 {
		return Cell{}, fmt.Errorf("toCell: expected (x, y), got %v", d)
	}
	return Cell{d.Int(0), d.Int(1)}, nil
}
