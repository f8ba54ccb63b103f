package blackjack

import "fmt"

// Outcome is the result of a game for the player
type Outcome int

const (
	Undecided Outcome = iota
	Loss
	Draw
	Win
)

func (o Outcome) String() string {
	switch o {
	case Loss:
		return "Loss"
	case Draw:
		return "Draw"
	case Win:
		return "Win"
	}
	return "Undecided"
}

// Reward returns the reward the player receives for an outcome
func (o Outcome) Reward() float64 {
	switch o {
	case Win:
		return 1
	case Loss:
		return -1
	}
	return 0
}

// OutcomeOf returns the outcome which pays reward r at the end of a game
func OutcomeOf(r float64) Outcome {
	switch {
	case r > 0:
		return Win
	case r < 0:
		return Loss
	}
	return Draw
}

// Record counts the outcomes of a number of games
type Record struct {
	Wins, Draws, Losses int
}

// Add records a single outcome
func (r *Record) Add(o Outcome) {
	switch o {
	case Win:
		r.Wins++
	case Draw:
		r.Draws++
	case Loss:
		r.Losses++
	}
}

// Games returns the number of games recorded
func (r Record) Games() int {
	return r.Wins + r.Draws + r.Losses
}

// WinRate returns the fraction of games won
func (r Record) WinRate() float64 {
	if r.Games() == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games())
}

func (r Record) String() string {
	return fmt.Sprintf("won/drew/lost %d/%d/%d (win rate %.2f)", r.Wins,
		r.Draws, r.Losses, r.WinRate())
}
