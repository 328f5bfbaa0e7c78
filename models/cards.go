package models

import (
	"fmt"
	"math/rand"
)

// Card is a single playing card, e.g. "A♠" or "10♥".
type Card struct {
	Rank string
	Suit string
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Value returns the blackjack value of the card, counting aces as 11.
func (c Card) Value() int {
	switch c.Rank {
	case "A":
		return 11
	case "J", "Q", "K":
		return 10
	default:
		var n int
		fmt.Sscanf(c.Rank, "%d", &n)
		return n
	}
}

var (
	suits = []string{"♠", "♥", "♦", "♣"}
	ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
)

// NewDeck returns a single 52-card deck shuffled with rng.
func NewDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, 52)
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// HandValue computes the best blackjack total for a hand, demoting aces from
// 11 to 1 while the total busts. The second return is true for a soft total
// (an ace still counted as 11).
func HandValue(hand []Card) (int, bool) {
	total := 0
	aces := 0
	for _, c := range hand {
		total += c.Value()
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0 && total <= 21
}
