// Package engine implements the Remi rules core: meld validation and
// scoring, the hand solver, and the turn state machine.
//
// The Engine is a single-owner resource: one instance per game, driven
// synchronously by one caller. Commands validate against phase, acting
// player and opening rules, mutate state, and deliver events to
// subscribers before returning. There is no internal locking.
package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Phase of the turn state machine.
type Phase uint8

const (
	PhaseDraw Phase = iota // current player must draw
	PhaseMeld              // drawn; may meld / add to melds, must discard to end the turn
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseDraw:
		return "draw"
	case PhaseMeld:
		return "meld"
	case PhaseGameOver:
		return "game_over"
	}
	return "unknown"
}

// TableMeld is a meld laid down on the table. Once down, cards may only
// be added (or swap a joker out), never removed.
type TableMeld struct {
	Kind  MeldKind
	Cards []Card
}

// playerState is one seat's private and public holdings.
type playerState struct {
	hand      []Card
	melds     []TableMeld
	hasOpened bool
}

// Engine owns the complete mutable state of one Remi game.
type Engine struct {
	ID  uuid.UUID
	cfg Config

	rng     uint64
	phase   Phase
	current int
	turn    int
	players []playerState

	drawPile []Card // top = last element
	discard  []Card // top = last element

	seq       uint64
	subs      []subscriber
	nextSubID int

	totalCards int
	started    bool
	winner     int
}

// NewGame creates an engine for cfg. The pool is built but not yet
// shuffled or dealt; attach subscribers, then call Start.
func NewGame(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		ID:      uuid.New(),
		cfg:     cfg,
		rng:     cfg.Seed,
		players: make([]playerState, cfg.NumPlayers),
		winner:  -1,
	}
	if e.rng == 0 {
		e.rng = 1 // xorshift cannot start at 0
	}
	e.drawPile = newPool(cfg)
	e.totalCards = len(e.drawPile)
	return e, nil
}

// Start shuffles, deals StartingHandSize cards to every player, flips
// the next card onto the discard pile, and opens play on a random seat.
func (e *Engine) Start() error {
	if e.started {
		return reject(ReasonWrongPhase, "game already started")
	}
	e.started = true
	e.shuffle(e.drawPile)

	for c := 0; c < e.cfg.StartingHandSize; c++ {
		for p := range e.players {
			card := e.popDraw()
			e.players[p].hand = append(e.players[p].hand, card)
		}
	}

	// Seed the discard pile with one face-up card.
	first := e.popDraw()
	first.FaceUp = true
	e.discard = append(e.discard, first)

	e.current = int(e.randN(uint64(e.cfg.NumPlayers)))
	e.phase = PhaseDraw
	e.turn = 1

	e.emit(Event{Type: EventGameStarted, Player: -1})
	e.emit(Event{Type: EventPlayerTurnStarted, Player: e.current})
	e.emit(Event{Type: EventPhaseChanged, Player: e.current, Phase: PhaseDraw})
	e.assertConservation()
	return nil
}

// popDraw removes and returns the top draw-pile card. The caller must
// have checked the pile is non-empty.
func (e *Engine) popDraw() Card {
	n := len(e.drawPile)
	card := e.drawPile[n-1]
	e.drawPile = e.drawPile[:n-1]
	return card
}

// checkPlayer panics on an out-of-range index: that is a programming
// contract violation, not a player-facing rule.
func (e *Engine) checkPlayer(player int) {
	if player < 0 || player >= len(e.players) {
		panic(fmt.Sprintf("engine: player index %d out of range (%d players)", player, len(e.players)))
	}
}

// ---------------------------------------------------------------------------
// Queries — all side-effect free, all returning copies.
// ---------------------------------------------------------------------------

// PlayerView is the public view of one seat inside a GameState snapshot.
type PlayerView struct {
	HandSize  int
	HasOpened bool
	Melds     []TableMeld
}

// GameState is a read-only snapshot of the shared game state.
type GameState struct {
	Phase         Phase
	CurrentPlayer int
	Turn          int
	DrawCount     int
	DiscardCount  int
	DiscardTop    *Card // visible to all; nil when the pile is empty
	Players       []PlayerView
	Winner        int // -1 until game over
}

// State returns a snapshot of public game state.
func (e *Engine) State() GameState {
	st := GameState{
		Phase:         e.phase,
		CurrentPlayer: e.current,
		Turn:          e.turn,
		DrawCount:     len(e.drawPile),
		DiscardCount:  len(e.discard),
		Players:       make([]PlayerView, len(e.players)),
		Winner:        e.winner,
	}
	if top, ok := pileTop(e.discard); ok {
		st.DiscardTop = &top
	}
	for i, p := range e.players {
		st.Players[i] = PlayerView{
			HandSize:  len(p.hand),
			HasOpened: p.hasOpened,
			Melds:     copyTableMelds(p.melds),
		}
	}
	return st
}

// PlayerHand returns a copy of the player's hand in display order.
func (e *Engine) PlayerHand(player int) []Card {
	e.checkPlayer(player)
	return copyCards(e.players[player].hand)
}

// PlayerMelds returns a copy of the player's table melds.
func (e *Engine) PlayerMelds(player int) []TableMeld {
	e.checkPlayer(player)
	return copyTableMelds(e.players[player].melds)
}

// HasOpened reports whether the player has ever met the opening
// threshold. Monotonic: never flips back to false.
func (e *Engine) HasOpened(player int) bool {
	e.checkPlayer(player)
	return e.players[player].hasOpened
}

func copyTableMelds(melds []TableMeld) []TableMeld {
	out := make([]TableMeld, len(melds))
	for i, m := range melds {
		out[i] = TableMeld{Kind: m.Kind, Cards: copyCards(m.Cards)}
	}
	return out
}

// ---------------------------------------------------------------------------
// Snapshot / Restore
// ---------------------------------------------------------------------------

// Snapshot is a deep copy of the engine's game state, letting a caller
// implement undo semantics (e.g. revert an unused discard draw) without
// the engine tracking history. Subscribers are not part of a snapshot.
type Snapshot struct {
	rng      uint64
	phase    Phase
	current  int
	turn     int
	players  []playerState
	drawPile []Card
	discard  []Card
	seq      uint64
	winner   int
	started  bool
}

// Save captures the current game state.
func (e *Engine) Save() Snapshot {
	s := Snapshot{
		rng:      e.rng,
		phase:    e.phase,
		current:  e.current,
		turn:     e.turn,
		drawPile: copyCards(e.drawPile),
		discard:  copyCards(e.discard),
		seq:      e.seq,
		winner:   e.winner,
		started:  e.started,
	}
	s.players = make([]playerState, len(e.players))
	for i, p := range e.players {
		s.players[i] = playerState{
			hand:      copyCards(p.hand),
			melds:     copyTableMelds(p.melds),
			hasOpened: p.hasOpened,
		}
	}
	return s
}

// Restore replaces the game state with a previously saved snapshot.
func (e *Engine) Restore(s Snapshot) {
	e.rng = s.rng
	e.phase = s.phase
	e.current = s.current
	e.turn = s.turn
	e.drawPile = copyCards(s.drawPile)
	e.discard = copyCards(s.discard)
	e.seq = s.seq
	e.winner = s.winner
	e.started = s.started
	e.players = make([]playerState, len(s.players))
	for i, p := range s.players {
		e.players[i] = playerState{
			hand:      copyCards(p.hand),
			melds:     copyTableMelds(p.melds),
			hasOpened: p.hasOpened,
		}
	}
}

// ---------------------------------------------------------------------------
// Invariants
// ---------------------------------------------------------------------------

// assertConservation panics if any card left or entered the game. A
// violation is a core bug, never a recoverable rule rejection.
func (e *Engine) assertConservation() {
	count := len(e.drawPile) + len(e.discard)
	for _, p := range e.players {
		count += len(p.hand)
		for _, m := range p.melds {
			count += len(m.Cards)
		}
	}
	if count != e.totalCards {
		panic(fmt.Sprintf("engine: card conservation violated: %d cards tracked, expected %d", count, e.totalCards))
	}
}
