package blackjack

import "strings"

// Card is a playing card, identified by its rank
type Card string

// Ranks of the cards in a deck. There are no tens.
const (
	Ace   Card = "A"
	Two   Card = "2"
	Three Card = "3"
	Four  Card = "4"
	Five  Card = "5"
	Six   Card = "6"
	Seven Card = "7"
	Eight Card = "8"
	Nine  Card = "9"
	Jack  Card = "J"
	Queen Card = "Q"
	King  Card = "K"
)

var ranks = []Card{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine,
	Jack, Queen, King}

// Suits is the number of copies of each rank in a deck
const Suits = 4

// Deck returns a new, ordered deck with Suits copies of each rank
func Deck() []Card {
	deck := make([]Card, 0, len(ranks)*Suits)
	for i := 0; i < Suits; i++ {
		deck = append(deck, ranks...)
	}
	return deck
}

// Value returns the face value of a card. Aces are worth 1 and face
// cards are worth 10.
func (c Card) Value() int {
	switch c {
	case Ace:
		return 1
	case Jack, Queen, King:
		return 10
	}
	if len(c) == 1 && c[0] >= '2' && c[0] <= '9' {
		return int(c[0] - '0')
	}
	panic("value: unknown card " + string(c))
}

// Hand is the cards held by a gamer
type Hand []Card

// Points returns the best total of the hand. Aces count as 11 unless
// that would take the total over 21, in which case they are reduced to
// 1 one at a time. specialAce reports whether an ace is still counted
// as 11.
func (h Hand) Points() (points int, specialAce bool) {
	aces := 0
	for _, c := range h {
		v := c.Value()
		if v == 1 {
			aces++
			v = 11
		}
		points += v
	}
	for points > 21 && aces > 0 {
		points -= 10
		aces--
	}
	return points, aces > 0
}

// Bust returns whether the hand is over 21
func (h Hand) Bust() bool {
	p, _ := h.Points()
	return p > 21
}

func (h Hand) String() string {
	cards := make([]string, len(h))
	for i, c := range h {
		cards[i] = string(c)
	}
	return "[" + strings.Join(cards, " ") + "]"
}
