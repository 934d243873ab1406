package engine

import "fmt"

// Config holds the game parameters accepted at game start.
type Config struct {
	NumPlayers       int    // 2–6
	NumDecks         int    // 52-card decks (plus 2 jokers each) in the pool
	StartingHandSize int    // cards dealt to each player
	OpeningThreshold int    // minimum meld score of a player's first lay-down
	MaxHandSize      int    // hard cap on hand size (draw rejected at cap)
	MaxTurns         int    // 0 = unlimited; safety valve for simulations
	Seed             uint64 // RNG seed; 0 picks a nonzero default
}

// DefaultConfig returns the standard Remi setup: two players, two decks,
// 14-card deal, 51-point opening.
func DefaultConfig() Config {
	return Config{
		NumPlayers:       2,
		NumDecks:         2,
		StartingHandSize: 14,
		OpeningThreshold: 51,
		MaxHandSize:      15,
	}
}

// jokersPerDeck is fixed: one red, one black.
const jokersPerDeck = 2

// poolSize returns the total number of cards in play.
func (c Config) poolSize() int { return c.NumDecks * (52 + jokersPerDeck) }

// Validate rejects configurations that cannot produce a playable game.
func (c Config) Validate() error {
	if c.NumPlayers < 2 || c.NumPlayers > 6 {
		return fmt.Errorf("config: NumPlayers must be 2-6, got %d", c.NumPlayers)
	}
	if c.NumDecks < 1 {
		return fmt.Errorf("config: NumDecks must be >= 1, got %d", c.NumDecks)
	}
	if c.StartingHandSize < 1 {
		return fmt.Errorf("config: StartingHandSize must be >= 1, got %d", c.StartingHandSize)
	}
	if c.MaxHandSize < c.StartingHandSize {
		return fmt.Errorf("config: MaxHandSize %d below StartingHandSize %d", c.MaxHandSize, c.StartingHandSize)
	}
	if c.OpeningThreshold < 0 {
		return fmt.Errorf("config: OpeningThreshold must be >= 0, got %d", c.OpeningThreshold)
	}
	// Everyone gets a full deal and at least one card stays to seed the piles.
	if need := c.NumPlayers*c.StartingHandSize + 1; need > c.poolSize() {
		return fmt.Errorf("config: pool of %d cards too small for %d players x %d cards", c.poolSize(), c.NumPlayers, c.StartingHandSize)
	}
	return nil
}
