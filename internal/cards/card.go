// internal/cards/card.go
package cards

import (
	"fmt"
	"sort"
	"strings"
)

// Suit is one of the four card symbols. Suits never affect strength.
type Suit string

const (
	Spade   Suit = "♠"
	Heart   Suit = "♥"
	Diamond Suit = "♦"
	Club    Suit = "♣"
)

// Suits lists the suits in deck-building order.
var Suits = []Suit{Spade, Heart, Diamond, Club}

// Rank is a card's face symbol.
type Rank string

// RankOrder is the fixed total order of ranks, weakest first: 3 < 4 < ... < A < 2.
var RankOrder = []Rank{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}

var rankValues = func() map[Rank]int {
	m := make(map[Rank]int, len(RankOrder))
	for i, r := range RankOrder {
		m[r] = i
	}
	return m
}()

// Value returns the rank's position in RankOrder, or -1 for an unknown rank.
func (r Rank) Value() int {
	v, ok := rankValues[r]
	if !ok {
		return -1
	}
	return v
}

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	_, ok := rankValues[r]
	return ok
}

// Card is an immutable suit+rank pair. Comparable with ==.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard builds a card, rejecting unknown suits or ranks.
func NewCard(s Suit, r Rank) (Card, error) {
	if !validSuit(s) {
		return Card{}, fmt.Errorf("unknown suit %q", s)
	}
	if !r.Valid() {
		return Card{}, fmt.Errorf("unknown rank %q", r)
	}
	return Card{Suit: s, Rank: r}, nil
}

// MustCard is NewCard for literals in tests and tables.
func MustCard(s Suit, r Rank) Card {
	c, err := NewCard(s, r)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCard reads the String form, e.g. "♠3" or "♦10".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	for _, suit := range Suits {
		if strings.HasPrefix(s, string(suit)) {
			return NewCard(suit, Rank(strings.TrimPrefix(s, string(suit))))
		}
	}
	return Card{}, fmt.Errorf("unknown card %q", s)
}

// RankValue is the card's strength; only the rank counts.
func (c Card) RankValue() int {
	return c.Rank.Value()
}

func (c Card) String() string {
	return string(c.Suit) + string(c.Rank)
}

func validSuit(s Suit) bool {
	for _, x := range Suits {
		if x == s {
			return true
		}
	}
	return false
}

func suitIndex(s Suit) int {
	for i, x := range Suits {
		if x == s {
			return i
		}
	}
	return len(Suits)
}

// NewDeck returns the 52 cards in suit-major order.
func NewDeck() []Card {
	deck := make([]Card, 0, len(Suits)*len(RankOrder))
	for _, s := range Suits {
		for _, r := range RankOrder {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// SortByRank orders cards by ascending rank, breaking ties by suit so the
// result is stable for display and enumeration.
func SortByRank(cs []Card) {
	sort.SliceStable(cs, func(i, j int) bool {
		vi, vj := cs[i].RankValue(), cs[j].RankValue()
		if vi != vj {
			return vi < vj
		}
		return suitIndex(cs[i].Suit) < suitIndex(cs[j].Suit)
	})
}

// Join renders cards separated by ", ".
func Join(cs []Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
