package blackjack

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

var log = logrus.WithField("component", "blackjack")

// MinReshuffle is the fewest discarded cards that may be reshuffled
// into an empty pool
const MinReshuffle = 21

// ErrDeckExhausted is returned when the card pool is empty and too few
// cards have been discarded to refill it
var ErrDeckExhausted = errors.New("card pool exhausted")

// Arena owns the cards of a game: a shuffled pool that cards are dealt
// from and a discard pile that cards are recycled to at the end of each
// game. When the pool runs out the discard pile is shuffled back in.
type Arena struct {
	pool    []Card
	discard []Card
	rng     *rand.Rand
}

// NewArena returns a new Arena with a freshly shuffled deck
func NewArena(seed uint64) *Arena {
	a := &Arena{rng: rand.New(rand.NewSource(seed))}
	a.load(Deck())
	return a
}

// load shuffles cards onto the bottom of the pool
func (a *Arena) load(cards []Card) {
	a.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	a.pool = append(a.pool, cards...)
}

// Deal deals n cards into hand
func (a *Arena) Deal(hand *Hand, n int) error {
	for i := 0; i < n; i++ {
		if len(a.pool) == 0 {
			if len(a.discard) < MinReshuffle {
				return fmt.Errorf("deal: %w: %d cards discarded",
					ErrDeckExhausted, len(a.discard))
			}
			log.WithField("cards", len(a.discard)).Debug("card pool " +
				"empty, reshuffling discarded cards")
			discard := a.discard
			a.discard = nil
			a.load(discard)
		}

		*hand = append(*hand, a.pool[0])
		a.pool = a.pool[1:]
	}
	return nil
}

// Recycle moves the cards of each hand to the discard pile and empties
// the hands
func (a *Arena) Recycle(hands ...*Hand) {
	for _, h := range hands {
		a.discard = append(a.discard, *h...)
		*h = (*h)[:0]
	}
}

// Pool returns the number of cards left in the pool
func (a *Arena) Pool() int {
	return len(a.pool)
}

// Discarded returns the number of cards in the discard pile
func (a *Arena) Discarded() int {
	return len(a.discard)
}
