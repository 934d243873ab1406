package engine

import "github.com/google/uuid"

// Commands. Every command returns nil on success (after events have been
// delivered) or a *RuleError carrying the rejection Reason. Expected
// rule violations never panic.

// guardTurn applies the checks shared by every mutating command.
func (e *Engine) guardTurn(player int, want Phase) *RuleError {
	e.checkPlayer(player)
	if e.phase == PhaseGameOver {
		return reject(ReasonGameOver, "game is over")
	}
	if !e.started {
		return reject(ReasonWrongPhase, "game not started")
	}
	if player != e.current {
		return reject(ReasonWrongPlayer, "player %d acting on player %d's turn", player, e.current)
	}
	if e.phase != want {
		return reject(ReasonWrongPhase, "phase is %s, need %s", e.phase, want)
	}
	return nil
}

// DrawFromDeck draws the top face-down card. When the draw pile is
// exhausted, the entire discard pile is flipped face-down, shuffled and
// becomes the new draw pile first.
func (e *Engine) DrawFromDeck(player int) error {
	if err := e.guardTurn(player, PhaseDraw); err != nil {
		return err
	}
	if len(e.players[player].hand) >= e.cfg.MaxHandSize {
		return reject(ReasonHandFull, "hand at capacity %d", e.cfg.MaxHandSize)
	}
	if len(e.drawPile) == 0 {
		e.reshuffleDiscard()
	}
	if len(e.drawPile) == 0 {
		return reject(ReasonPilesExhausted, "draw and discard piles are both empty")
	}

	card := e.popDraw()
	card.FaceUp = false
	e.players[player].hand = append(e.players[player].hand, card)
	e.phase = PhaseMeld

	e.emit(Event{Type: EventCardDrawn, Player: player, Card: &card, Source: DrawSourceDeck})
	e.emit(Event{Type: EventPhaseChanged, Player: player, Phase: PhaseMeld})
	e.assertConservation()
	return nil
}

// DrawFromDiscard takes the visible top card of the discard pile.
func (e *Engine) DrawFromDiscard(player int) error {
	if err := e.guardTurn(player, PhaseDraw); err != nil {
		return err
	}
	if len(e.players[player].hand) >= e.cfg.MaxHandSize {
		return reject(ReasonHandFull, "hand at capacity %d", e.cfg.MaxHandSize)
	}
	if len(e.discard) == 0 {
		return reject(ReasonPileEmpty, "discard pile is empty")
	}

	n := len(e.discard)
	card := e.discard[n-1]
	e.discard = e.discard[:n-1]
	e.players[player].hand = append(e.players[player].hand, card)
	e.phase = PhaseMeld

	e.emit(Event{Type: EventCardDrawn, Player: player, Card: &card, Source: DrawSourceDiscard})
	e.emit(Event{Type: EventPhaseChanged, Player: player, Phase: PhaseMeld})
	e.assertConservation()
	return nil
}

// reshuffleDiscard turns the whole discard pile into a fresh face-down
// draw pile.
func (e *Engine) reshuffleDiscard() {
	if len(e.discard) == 0 {
		return
	}
	for i := range e.discard {
		e.discard[i].FaceUp = false
	}
	e.drawPile = append(e.drawPile, e.discard...)
	e.discard = e.discard[:0]
	e.shuffle(e.drawPile)
	e.emit(Event{Type: EventPileReshuffled, Player: -1, PileSize: len(e.drawPile)})
}

// LayDownMelds moves meld groups from the player's hand to the table.
// Every group must independently be a legal set or run, every card must
// be in the player's hand, and a player who has not yet opened must
// reach the opening threshold with this lay-down alone.
func (e *Engine) LayDownMelds(player int, groups [][]Card) error {
	if err := e.guardTurn(player, PhaseMeld); err != nil {
		return err
	}
	if len(groups) == 0 {
		return reject(ReasonInvalidMeld, "no melds given")
	}

	hand := e.players[player].hand
	seen := make(map[uuid.UUID]bool)
	total := 0
	canonical := make([]Meld, 0, len(groups))
	for gi, group := range groups {
		for _, c := range group {
			if !containsCard(hand, c.ID) {
				return reject(ReasonCardNotOwned, "card %s not in player %d's hand", c, player)
			}
			if seen[c.ID] {
				return reject(ReasonCardNotOwned, "card %s used twice", c)
			}
			seen[c.ID] = true
		}
		m, ok := Canonical(group)
		if !ok {
			return reject(ReasonInvalidMeld, "group %d is neither a set nor a run", gi)
		}
		total += MeldScore(group)
		canonical = append(canonical, m)
	}
	opening := !e.players[player].hasOpened
	if opening && total < e.cfg.OpeningThreshold {
		return reject(ReasonBelowThreshold, "lay-down worth %d, opening requires %d", total, e.cfg.OpeningThreshold)
	}

	for _, m := range canonical {
		for i := range m.Cards {
			removed, _ := removeCard(&e.players[player].hand, m.Cards[i].ID)
			removed.FaceUp = true
			m.Cards[i] = removed
		}
		e.players[player].melds = append(e.players[player].melds, TableMeld{Kind: m.Kind, Cards: copyCards(m.Cards)})
	}
	if opening {
		e.players[player].hasOpened = true
	}

	e.emit(Event{Type: EventMeldsLaidDown, Player: player, Melds: canonical, Opened: opening})
	e.assertConservation()
	return nil
}

// AddCardToMeld appends a hand card to an existing table meld, own or an
// opponent's. If the meld holds a joker and the card can take over the
// joker's exact role, the joker is returned to the acting player's hand
// instead of the meld growing (joker steal/reclaim).
func (e *Engine) AddCardToMeld(player int, card Card, meldOwner, meldIndex int) error {
	if err := e.guardTurn(player, PhaseMeld); err != nil {
		return err
	}
	e.checkPlayer(meldOwner)
	if !e.players[player].hasOpened {
		return reject(ReasonNotOpened, "player %d has not opened", player)
	}
	if meldIndex < 0 || meldIndex >= len(e.players[meldOwner].melds) {
		return reject(ReasonNoSuchMeld, "player %d has no meld %d", meldOwner, meldIndex)
	}
	if !containsCard(e.players[player].hand, card.ID) {
		return reject(ReasonCardNotOwned, "card %s not in player %d's hand", card, player)
	}
	meld := &e.players[meldOwner].melds[meldIndex]

	// Growth first: append or prepend keeping the meld legal.
	if grown, ok := extendMeld(meld.Cards, card); ok {
		live, _ := removeCard(&e.players[player].hand, card.ID)
		live.FaceUp = true
		for i := range grown {
			if grown[i].ID == live.ID {
				grown[i] = live
			}
		}
		m, _ := Canonical(grown)
		meld.Kind = m.Kind
		meld.Cards = m.Cards
		e.emit(Event{Type: EventCardAddedToMeld, Player: player, Card: &live, MeldOwner: meldOwner, MeldIndex: meldIndex})
		e.assertConservation()
		return nil
	}

	// Joker reclaim: the card takes the joker's slot, the joker moves to
	// the acting player's hand.
	for idx, role := range jokerRoles(meld.Cards) {
		if !matchesRole(card, role, meld.Cards) {
			continue
		}
		live, _ := removeCard(&e.players[player].hand, card.ID)
		live.FaceUp = true
		joker := meld.Cards[idx]
		meld.Cards[idx] = live
		joker.FaceUp = false
		e.players[player].hand = append(e.players[player].hand, joker)
		m, _ := Canonical(meld.Cards)
		meld.Kind = m.Kind
		meld.Cards = m.Cards
		e.emit(Event{Type: EventCardAddedToMeld, Player: player, Card: &live, MeldOwner: meldOwner, MeldIndex: meldIndex, Reclaimed: &joker})
		e.assertConservation()
		return nil
	}

	return reject(ReasonInvalidMeld, "card %s does not extend meld %d of player %d", card, meldIndex, meldOwner)
}

// extendMeld returns the sequence with card appended (or prepended, for
// runs extending downward) if the result is legal.
func extendMeld(cards []Card, card Card) ([]Card, bool) {
	appended := make([]Card, 0, len(cards)+1)
	appended = append(appended, cards...)
	appended = append(appended, card)
	if _, ok := Classify(appended); ok {
		return appended, true
	}
	prepended := make([]Card, 0, len(cards)+1)
	prepended = append(prepended, card)
	prepended = append(prepended, cards...)
	if _, ok := Classify(prepended); ok {
		return prepended, true
	}
	return nil, false
}

// DiscardCard moves a hand card to the top of the discard pile and ends
// the turn. Discarding the last hand card ends the game with the
// discarder as winner.
func (e *Engine) DiscardCard(player int, card Card) error {
	if err := e.guardTurn(player, PhaseMeld); err != nil {
		return err
	}
	live, ok := removeCard(&e.players[player].hand, card.ID)
	if !ok {
		return reject(ReasonCardNotOwned, "card %s not in player %d's hand", card, player)
	}
	live.FaceUp = true
	e.discard = append(e.discard, live)
	e.emit(Event{Type: EventCardDiscarded, Player: player, Card: &live})

	if len(e.players[player].hand) == 0 {
		e.endGame(player)
		e.assertConservation()
		return nil
	}
	e.advanceTurn()
	e.assertConservation()
	return nil
}

// advanceTurn hands play to the next seat and resets the phase.
func (e *Engine) advanceTurn() {
	e.emit(Event{Type: EventTurnEnded, Player: e.current})
	e.turn++
	if e.cfg.MaxTurns > 0 && e.turn > e.cfg.MaxTurns {
		e.endGame(-1)
		return
	}
	e.current = (e.current + 1) % len(e.players)
	e.phase = PhaseDraw
	e.emit(Event{Type: EventPlayerTurnStarted, Player: e.current})
	e.emit(Event{Type: EventPhaseChanged, Player: e.current, Phase: PhaseDraw})
}

// endGame freezes the state and publishes final scores. winner is -1
// when the game was stopped by the turn cap rather than a player going
// out; scores are each player's remaining deadwood.
func (e *Engine) endGame(winner int) {
	e.phase = PhaseGameOver
	e.winner = winner
	scores := make([]int, len(e.players))
	for i, p := range e.players {
		scores[i] = Deadwood(p.hand)
	}
	e.emit(Event{Type: EventGameOver, Player: winner, Scores: scores, Winner: winner})
}

// ReorderHand applies a display reordering of the player's own hand.
// order must be a permutation of the current hand's card identities.
// Legal in any phase of the player's own game, including off-turn.
func (e *Engine) ReorderHand(player int, order []Card) error {
	e.checkPlayer(player)
	if e.phase == PhaseGameOver {
		return reject(ReasonGameOver, "game is over")
	}
	hand := e.players[player].hand
	if len(order) != len(hand) {
		return reject(ReasonBadReorder, "order has %d cards, hand has %d", len(order), len(hand))
	}
	byID := make(map[uuid.UUID]Card, len(hand))
	for _, c := range hand {
		byID[c.ID] = c
	}
	next := make([]Card, 0, len(hand))
	for _, c := range order {
		live, ok := byID[c.ID]
		if !ok {
			return reject(ReasonBadReorder, "card %s not in hand", c)
		}
		delete(byID, c.ID)
		next = append(next, live)
	}
	e.players[player].hand = next
	return nil
}
