package gridworld

// Windy gridworld layout
var (
	WindyColumns = 10
	WindyRows    = 7
	WindyStart   = Cell{0, 3}
	WindyGoal    = Cell{7, 3}
	WindyWind    = []int{0, 0, 0, 1, 1, 1, 2, 2, 1, 0}
)

// Cliff walk layout
var (
	CliffColumns = 12
	CliffRows    = 4
	CliffStart   = Cell{0, 0}
	CliffGoal    = Cell{11, 0}
	CliffReward  = -100.0
)

// StepReward is the reward of every step which does not enter a
// special cell
const StepReward = -1.0

// NewWindy returns the 10x7 windy gridworld. Each step costs -1 and
// the episode ends when the goal is reached.
func NewWindy(discount float64, opts ...Option) (*GridWorld, error) {
	task := NewGoal([]Cell{WindyGoal}, StepReward)
	wind := make([]int, len(WindyWind))
	copy(wind, WindyWind)

	opts = append([]Option{WithWind(wind)}, opts...)
	return New(WindyColumns, WindyRows, WindyStart, task, discount, opts...)
}

// NewCliffWalk returns the 12x4 cliff walk. Each step costs -1 and
// stepping off the cliff along the bottom row costs -100 and ends the
// episode. If resetOnCliff is true, falling off the cliff instead
// sends the agent back to the start.
func NewCliffWalk(discount float64, resetOnCliff bool,
	opts ...Option) (*GridWorld, error) {
	task := NewGoal([]Cell{CliffGoal}, StepReward)
	task.AddCliff(CliffCells(), CliffReward, resetOnCliff)

	return New(CliffColumns, CliffRows, CliffStart, task, discount, opts...)
}

// CliffCells returns the cells of the cliff
func CliffCells() []Cell {
	cells := make([]Cell, 0, CliffColumns-2)
	for x := 1; x < CliffColumns-1; x++ {
		cells = append(cells, Cell{x, 0})
	}
	return cells
}
