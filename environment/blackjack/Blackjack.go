// Package blackjack implements a simplified game of blackjack played
// by a single player against a dealer.
//
// The deck has no tens. The player sees the value of the dealer's first
// card, their own points, and whether they hold an ace counted as 11.
// The player either bids for another card or stops. Once the player
// stops, the dealer draws until reaching DealerStop points. Rewards are
// only given at the end of a game: +1 for a win, 0 for a draw and -1
// for a loss or a bust.
package blackjack

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/timestep"
)

// Actions of a Blackjack game
const (
	Bid environment.Action = iota
	Stop
)

// DealerStop is the number of points at which the dealer stops drawing
const DealerStop = 17

var actionSpec = environment.NewActionSpec("Bid", "Stop")

// Blackjack is a game of blackjack as an episodic environment. Each
// episode is a single game. Observations are
// (dealer first card value, player points, special ace).
type Blackjack struct {
	arena  *Arena
	player Hand
	dealer Hand

	currentStep timestep.TimeStep
	started     bool
	outcome     Outcome
}

// New returns a new Blackjack environment, shuffling the deck with seed
func New(seed uint64) *Blackjack {
	return &Blackjack{arena: NewArena(seed)}
}

// Reset recycles the cards of the last game and deals two cards to
// both the player and the dealer
func (b *Blackjack) Reset() (timestep.TimeStep, error) {
	b.arena.Recycle(&b.player, &b.dealer)
	if err := b.arena.Deal(&b.player, 2); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	if err := b.arena.Deal(&b.dealer, 2); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	b.started = true
	b.outcome = Undecided
	b.currentStep = timestep.New(timestep.First, 0, 1, b.observation(), 0)
	return b.currentStep, nil
}

// Step takes one action in the game
func (b *Blackjack) Step(action environment.Action) (timestep.TimeStep,
	bool, error) {
	if !b.started || b.currentStep.Last() {
		return b.currentStep, true, fmt.Errorf("step: %w",
			environment.ErrEpisodeOver)
	}
	if err := environment.CheckAction(actionSpec, action); err != nil {
		return b.currentStep, false, fmt.Errorf("step: %w", err)
	}

	n := b.currentStep.Number + 1
	switch action {
	case Bid:
		if err := b.arena.Deal(&b.player, 1); err != nil {
			return b.currentStep, false, fmt.Errorf("step: %w", err)
		}
		if b.player.Bust() {
			b.finish(Loss, n)
		} else {
			b.currentStep = timestep.New(timestep.Mid, 0, 1,
				b.observation(), n)
		}

	case Stop:
		if err := b.playDealer(); err != nil {
			return b.currentStep, false, fmt.Errorf("step: %w", err)
		}
		b.finish(Score(b.player, b.dealer), n)
	}

	return b.currentStep, b.currentStep.Last(), nil
}

// playDealer draws cards for the dealer until it should stop
func (b *Blackjack) playDealer() error {
	for DealerPolicy(b.dealer) == Bid {
		if err := b.arena.Deal(&b.dealer, 1); err != nil {
			return err
		}
	}
	return nil
}

func (b *Blackjack) finish(o Outcome, n int) {
	b.outcome = o
	b.currentStep = timestep.New(timestep.Last, o.Reward(), 1,
		b.observation(), n)

	player, _ := b.player.Points()
	dealer, _ := b.dealer.Points()
	log.WithFields(logrus.Fields{
		"player":  b.player.String(),
		"dealer":  b.dealer.String(),
		"points":  player,
		"against": dealer,
		"outcome": o,
	}).Trace("game over")
}

// DealerPolicy returns the action the dealer takes with hand h
func DealerPolicy(h Hand) environment.Action {
	if p, _ := h.Points(); p < DealerStop {
		return Bid
	}
	return Stop
}

// Score returns the outcome of a game for the player once both the
// player and the dealer have stopped
func Score(player, dealer Hand) Outcome {
	p, _ := player.Points()
	d, _ := dealer.Points()
	switch {
	case p > 21:
		return Loss
	case d > 21 || p > d:
		return Win
	case p == d:
		return Draw
	}
	return Loss
}

func (b *Blackjack) observation() statekey.Descriptor {
	points, specialAce := b.player.Points()
	var first int
	if len(b.dealer) > 0 {
		first = b.dealer[0].Value()
	}
	return statekey.Descriptor{first, points, specialAce}
}

// Outcome returns the outcome of the current game, which is Undecided
// until the game is over
func (b *Blackjack) Outcome() Outcome {
	return b.outcome
}

// Hands returns copies of the player's and dealer's hands
func (b *Blackjack) Hands() (player, dealer Hand) {
	return append(Hand(nil), b.player...), append(Hand(nil), b.dealer...)
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (b *Blackjack) LastTimeStep() timestep.TimeStep {
	return b.currentStep
}

// ActionSpec returns the action specification of the environment
func (b *Blackjack) ActionSpec() environment.ActionSpec {
	return actionSpec
}

// Discount returns the discount factor of the environment. Games are
// undiscounted.
func (b *Blackjack) Discount() float64 {
	return 1.0
}

func (b *Blackjack) String() string {
	return fmt.Sprintf("Blackjack | Player: %v  |  Dealer: %v", b.player,
		b.dealer)
}

var _ environment.Environment = &Blackjack{}
