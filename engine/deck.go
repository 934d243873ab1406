package engine

import "github.com/google/uuid"

// xorshift64 RNG state lives on the Engine so a single seed fixes the
// shuffle, the deal, and every reshuffle of a game.
func (e *Engine) nextRand() uint64 {
	x := e.rng
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	e.rng = x
	return x
}

// randN returns a random number in [0, n).
func (e *Engine) randN(n uint64) uint64 {
	return e.nextRand() % n
}

// newPool mints the full card pool: NumDecks standard decks plus a red
// and black joker per deck. Cards start face-down.
func newPool(cfg Config) []Card {
	pool := make([]Card, 0, cfg.poolSize())
	for d := 0; d < cfg.NumDecks; d++ {
		for suit := SuitHearts; suit <= SuitSpades; suit++ {
			for rank := RankAce; rank <= RankKing; rank++ {
				pool = append(pool, NewCard(suit, rank))
			}
		}
		pool = append(pool, NewJoker(SuitRedJoker), NewJoker(SuitBlackJoker))
	}
	return pool
}

// shuffle runs a Fisher-Yates pass over cards in place.
func (e *Engine) shuffle(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := int(e.randN(uint64(i + 1)))
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// top of a pile is the last element.
func pileTop(pile []Card) (Card, bool) {
	if len(pile) == 0 {
		return Card{}, false
	}
	return pile[len(pile)-1], true
}

func copyCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

// removeCard deletes the card with the given identity from the slice,
// preserving order. Returns the card and whether it was found.
func removeCard(cards *[]Card, id uuid.UUID) (Card, bool) {
	s := *cards
	for i, c := range s {
		if c.ID == id {
			*cards = append(s[:i], s[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// containsCard reports whether the slice holds the identity.
func containsCard(cards []Card, id uuid.UUID) bool {
	for _, c := range cards {
		if c.ID == id {
			return true
		}
	}
	return false
}
