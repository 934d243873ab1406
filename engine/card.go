package engine

import "github.com/google/uuid"

// Suit of a card. RedJoker and BlackJoker are color tags for the two
// jokers per deck; they never participate in suit matching.
type Suit uint8

const (
	SuitHearts Suit = iota
	SuitDiamonds
	SuitClubs
	SuitSpades
	SuitRedJoker
	SuitBlackJoker
)

// Rank of a card, 1 (Ace) through 13 (King). RankJoker is the sentinel
// rank carried by joker cards; a joker's effective rank is always derived
// from the meld it sits in.
type Rank uint8

const (
	RankJoker Rank = 0
	RankAce   Rank = 1
	RankTwo   Rank = 2
	RankThree Rank = 3
	RankFour  Rank = 4
	RankFive  Rank = 5
	RankSix   Rank = 6
	RankSeven Rank = 7
	RankEight Rank = 8
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
)

// rankAceHigh is the effective rank of an ace played above a King in a
// run. It is never stored on a Card.
const rankAceHigh = 14

// Card is an immutable playing card. Two cards of equal rank and suit
// from different decks are distinct cards: equality for all game logic is
// by ID, never by rank/suit value.
type Card struct {
	ID     uuid.UUID
	Suit   Suit
	Rank   Rank
	FaceUp bool
}

// NewCard mints a suited card with a fresh identity.
func NewCard(suit Suit, rank Rank) Card {
	return Card{ID: uuid.New(), Suit: suit, Rank: rank}
}

// NewJoker mints a joker. suit must be SuitRedJoker or SuitBlackJoker.
func NewJoker(suit Suit) Card {
	return Card{ID: uuid.New(), Suit: suit, Rank: RankJoker}
}

// IsJoker reports whether the card is one of the two jokers.
func (c Card) IsJoker() bool { return c.Suit == SuitRedJoker || c.Suit == SuitBlackJoker }

// Same reports identity equality. Use this instead of == so that the
// FaceUp flag never leaks into card comparisons.
func (c Card) Same(other Card) bool { return c.ID == other.ID }

// Value returns the card's intrinsic point value: Ace 10, Two–Nine face
// rank, Ten through King 10. Jokers carry no intrinsic points — their
// value comes from the rank they stand in for, see MeldScore.
func (c Card) Value() int {
	if c.IsJoker() {
		return 0
	}
	return rankPoints(int(c.Rank))
}

// rankPoints maps an effective rank (1–14, 14 = ace high) to points.
// The ace scores 10 in both its low and high roles.
func rankPoints(r int) int {
	if r == 1 || r >= 10 {
		return 10
	}
	return r
}

var suitGlyphs = [...]string{"♥", "♦", "♣", "♠"}

func (s Suit) String() string {
	switch s {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
		return suitGlyphs[s]
	case SuitRedJoker:
		return "JokerR"
	case SuitBlackJoker:
		return "JokerB"
	}
	return "?"
}

var rankNames = [...]string{"?", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

func (r Rank) String() string {
	if r >= RankAce && r <= RankKing {
		return rankNames[r]
	}
	return "?"
}

func (c Card) String() string {
	if c.IsJoker() {
		if c.Suit == SuitRedJoker {
			return "Joker(R)"
		}
		return "Joker(B)"
	}
	return c.Rank.String() + c.Suit.String()
}
