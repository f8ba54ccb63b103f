package tracker

import (
	"fmt"

	"github.com/samuelfneumann/gotabular/timestep"
)

// Outcome tracks the win, draw and loss counts of a game in which the
// only reward is paid at the end of an episode: positive for a win,
// zero for a draw and negative for a loss.
type Outcome struct {
	Wins, Draws, Losses int
	filename            string
}

// NewOutcome returns a new Outcome Tracker which will save its data at
// the specified location filename
func NewOutcome(filename string) *Outcome {
	return &Outcome{filename: filename}
}

// Track records the outcome of an episode on its last TimeStep.
// Episodes cut off by a step limit are not counted.
func (o *Outcome) Track(t timestep.TimeStep) {
	if !t.Last() || t.TimedOut() {
		return
	}
	switch {
	case t.Reward > 0:
		o.Wins++
	case t.Reward < 0:
		o.Losses++
	default:
		o.Draws++
	}
}

// Games returns the number of games tracked
func (o *Outcome) Games() int {
	return o.Wins + o.Draws + o.Losses
}

// WinRate returns the fraction of tracked games which were won
func (o *Outcome) WinRate() float64 {
	if o.Games() == 0 {
		return 0
	}
	return float64(o.Wins) / float64(o.Games())
}

// Save saves the win, draw and loss counts to disk
func (o *Outcome) Save() error {
	if err := save(o.filename, []int{o.Wins, o.Draws, o.Losses}); err != nil {
		return fmt.Errorf("save outcomes: %w", err)
	}
	return nil
}

func (o *Outcome) String() string {
	return fmt.Sprintf("won/drew/lost %d/%d/%d", o.Wins, o.Draws, o.Losses)
}
