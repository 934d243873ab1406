// Package ai implements the computer opponent. It drives the engine
// exclusively through the public command/query surface — the same
// contract a human-driven UI uses — and keeps an opponent model fed only
// by the public event stream.
package ai

import (
	"remi/engine"
)

// Policy holds the tunable weights of the opponent. It is the pluggable
// "difficulty" surface; the rules of legal play are not configurable.
type Policy struct {
	SynergyWeight float64 // value of keeping cards that are close to forming melds
	DenialWeight  float64 // value of keeping (or taking) cards the opponent wants
	// MinDiscardGain is the solver score improvement required before the
	// discard top is taken instead of a blind deck draw.
	MinDiscardGain int
	// HoldBackWhenClose keeps a ready meld in hand if laying it down
	// would not win this turn, trading table presence for surprise.
	HoldBackWhenClose bool
}

// DefaultPolicy returns the weights used by the standard opponent.
func DefaultPolicy() Policy {
	return Policy{
		SynergyWeight:  1.5,
		DenialWeight:   2.0,
		MinDiscardGain: 1,
	}
}

// Strategy plays one seat of a game.
type Strategy struct {
	player int
	policy Policy
	model  opponentModel
	unsub  func()
}

// New creates a strategy for the given seat and subscribes it to the
// engine's event stream for opponent modeling. Call Close to detach.
func New(e *engine.Engine, player int, policy Policy) *Strategy {
	s := &Strategy{player: player, policy: policy, model: newOpponentModel(player)}
	s.unsub = e.Subscribe(s.model.observe)
	return s
}

// Close detaches the strategy from the engine's event stream.
func (s *Strategy) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// TakeTurn plays one complete turn: choose a draw source, lay melds,
// extend table melds, and discard. Any planning step that the engine
// rejects falls back to the safest legal action rather than stalling.
func (s *Strategy) TakeTurn(e *engine.Engine) error {
	st := e.State()
	if st.Phase == engine.PhaseGameOver {
		return nil
	}
	if st.CurrentPlayer != s.player {
		return &engine.RuleError{Reason: engine.ReasonWrongPlayer}
	}

	if err := s.draw(e, st); err != nil {
		return err
	}
	s.meldPhase(e)
	return s.discard(e)
}

// draw picks the draw source by simulating "hand + discard top" through
// the solver and comparing against the hand alone, with a denial bonus
// for cards the opponent has shown interest in.
func (s *Strategy) draw(e *engine.Engine, st engine.GameState) error {
	hand := e.PlayerHand(s.player)
	take := false
	if top := st.DiscardTop; top != nil {
		base := engine.Solve(hand)
		with := engine.Solve(append(append([]engine.Card(nil), hand...), *top))
		gain := with.TotalScore - base.TotalScore
		denial := s.model.usefulness(*top) * s.policy.DenialWeight
		switch {
		case top.IsJoker():
			take = true // a joker is always worth holding
		case gain >= s.policy.MinDiscardGain:
			take = true
		case gain == 0 && with.Deadwood < base.Deadwood:
			take = true
		case denial >= 3:
			take = true
		}
	}

	if take {
		if err := e.DrawFromDiscard(s.player); err == nil {
			return nil
		}
		// Pile may be empty or hand at capacity; fall through to the deck.
	}
	return e.DrawFromDeck(s.player)
}

// meldPhase lays the planned melds and opportunistically extends table
// melds. Engine rejections are absorbed: the turn still ends with a
// discard.
func (s *Strategy) meldPhase(e *engine.Engine) {
	hand := e.PlayerHand(s.player)
	opened := e.HasOpened(s.player)
	threshold := s.openingThreshold(e)

	groups := planLayDown(hand, opened, threshold, s.policy.HoldBackWhenClose)
	if len(groups) > 0 {
		// Best effort: a stale plan is dropped, not retried.
		_ = e.LayDownMelds(s.player, groups)
	}
	s.extendTableMelds(e)
}

// openingThreshold recovers the opening requirement via the public
// validation query so the strategy never hardcodes the configured value.
func (s *Strategy) openingThreshold(e *engine.Engine) int {
	v := e.ValidateSelection(s.player, nil)
	if v.MeetsOpenRequirement {
		return 0
	}
	return v.MinimumNeeded
}

// planLayDown selects the meld groups to lay this turn. It always
// leaves at least one card in hand to discard, dropping the
// lowest-value meld of the partition when the solver would consume the
// whole hand. With holdBack set, melds stay hidden until laying them
// leaves only the final discard, trading table presence for surprise.
func planLayDown(hand []engine.Card, opened bool, threshold int, holdBack bool) [][]engine.Card {
	if len(hand) == 0 {
		return nil
	}
	solved := engine.Solve(hand)
	melds := solved.Melds
	total := solved.TotalScore

	if len(solved.Remaining) == 0 && len(melds) > 0 {
		lowest := 0
		for i, m := range melds {
			if m.Score() < melds[lowest].Score() {
				lowest = i
			}
		}
		total -= melds[lowest].Score()
		melds = append(melds[:lowest], melds[lowest+1:]...)
	}
	if len(melds) == 0 {
		return nil
	}
	if !opened && total < threshold {
		return nil // cannot open yet; keep building
	}
	if holdBack {
		melded := 0
		for _, m := range melds {
			melded += len(m.Cards)
		}
		if len(hand)-melded > 1 {
			return nil // not going out this turn; keep the melds hidden
		}
	}

	groups := make([][]engine.Card, len(melds))
	for i, m := range melds {
		groups[i] = m.Cards
	}
	return groups
}

// extendTableMelds tries every non-joker hand card against every table
// meld while more than one card remains, reclaiming jokers and shedding
// deadwood. The engine is the only judge of legality.
func (s *Strategy) extendTableMelds(e *engine.Engine) {
	if !e.HasOpened(s.player) {
		return
	}
	st := e.State()
	for progress := true; progress; {
		progress = false
		hand := e.PlayerHand(s.player)
		if len(hand) <= 1 {
			return // always reserve a discard
		}
		for _, card := range hand {
			if card.IsJoker() {
				continue // never give a joker away
			}
			for owner := range st.Players {
				melds := e.PlayerMelds(owner)
				for idx := range melds {
					if err := e.AddCardToMeld(s.player, card, owner, idx); err == nil {
						progress = true
						break
					}
				}
				if progress {
					break
				}
			}
			if progress {
				break
			}
		}
	}
}

// discard sheds the card with the lowest keep-score: synergy with the
// rest of the hand plus estimated usefulness to the opponent, minus its
// point cost of being held at game end. Jokers are never discarded. If
// the chosen card is rejected, every remaining card is tried in order.
func (s *Strategy) discard(e *engine.Engine) error {
	hand := e.PlayerHand(s.player)
	if len(hand) == 0 {
		return &engine.RuleError{Reason: engine.ReasonCardNotOwned}
	}

	best := -1
	bestKeep := 0.0
	for i, c := range hand {
		if c.IsJoker() && len(hand) > 1 {
			continue
		}
		keep := s.policy.SynergyWeight*synergy(hand, i) +
			s.policy.DenialWeight*s.model.usefulness(c) -
			float64(c.Value())
		if best < 0 || keep < bestKeep {
			best = i
			bestKeep = keep
		}
	}
	if best >= 0 {
		if err := e.DiscardCard(s.player, hand[best]); err == nil {
			return nil
		}
	}
	// Safety fallback: discard the first card the engine accepts.
	for _, c := range hand {
		if err := e.DiscardCard(s.player, c); err == nil {
			return nil
		}
	}
	return &engine.RuleError{Reason: engine.ReasonWrongPhase}
}

// synergy counts how strongly hand[i] cooperates with the rest of the
// hand: same rank pairs toward sets, near ranks in suit toward runs.
func synergy(hand []engine.Card, i int) float64 {
	c := hand[i]
	score := 0.0
	for j, other := range hand {
		if j == i {
			continue
		}
		if other.IsJoker() {
			score += 0.5 // a held joker makes any near-meld completable
			continue
		}
		if other.Rank == c.Rank && other.Suit != c.Suit {
			score += 2
		}
		if other.Suit == c.Suit {
			d := int(other.Rank) - int(c.Rank)
			if d < 0 {
				d = -d
			}
			switch d {
			case 1:
				score += 1
			case 2:
				score += 0.5
			}
		}
	}
	return score
}
