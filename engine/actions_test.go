package engine

import "testing"

func TestDrawFromDeckAdvancesPhase(t *testing.T) {
	e := rig([][]Card{
		{card(SuitHearts, RankTwo)},
		{card(SuitClubs, RankNine)},
	}, []Card{card(SuitDiamonds, RankFour)}, nil)
	events := record(e)

	mustDo(t, e.DrawFromDeck(0))
	if e.State().Phase != PhaseMeld {
		t.Errorf("phase = %v, want meld", e.State().Phase)
	}
	if len(e.PlayerHand(0)) != 2 {
		t.Errorf("hand size = %d, want 2", len(e.PlayerHand(0)))
	}
	if (*events)[0].Type != EventCardDrawn || (*events)[0].Source != DrawSourceDeck {
		t.Errorf("first event = %v/%v, want card_drawn from deck", (*events)[0].Type, (*events)[0].Source)
	}
}

func TestDrawGuards(t *testing.T) {
	e := rig([][]Card{
		{card(SuitHearts, RankTwo)},
		{card(SuitClubs, RankNine)},
	}, []Card{card(SuitDiamonds, RankFour), card(SuitSpades, RankSix)}, nil)

	wantReason(t, e.DrawFromDeck(1), ReasonWrongPlayer)
	wantReason(t, e.DrawFromDiscard(0), ReasonPileEmpty)
	mustDo(t, e.DrawFromDeck(0))
	wantReason(t, e.DrawFromDeck(0), ReasonWrongPhase)
}

func TestDrawRejectedAtHandCap(t *testing.T) {
	full := make([]Card, DefaultConfig().MaxHandSize)
	for i := range full {
		full[i] = card(SuitHearts, RankTwo)
	}
	e := rig([][]Card{full, {card(SuitClubs, RankNine)}}, []Card{card(SuitDiamonds, RankFour)}, nil)
	wantReason(t, e.DrawFromDeck(0), ReasonHandFull)
}

func TestEmptyDeckReshufflesDiscard(t *testing.T) {
	e := rig([][]Card{
		{card(SuitHearts, RankTwo)},
		{card(SuitClubs, RankNine)},
	}, nil, []Card{
		card(SuitDiamonds, RankFour),
		card(SuitSpades, RankSix),
		card(SuitClubs, RankJack),
	})
	events := record(e)

	mustDo(t, e.DrawFromDeck(0))
	st := e.State()
	if st.DiscardCount != 0 {
		t.Errorf("discard count = %d, want 0 after reshuffle", st.DiscardCount)
	}
	if st.DrawCount != 2 {
		t.Errorf("draw count = %d, want 2", st.DrawCount)
	}
	if (*events)[0].Type != EventPileReshuffled || (*events)[0].PileSize != 3 {
		t.Errorf("first event = %v (pile %d), want pile_reshuffled of 3", (*events)[0].Type, (*events)[0].PileSize)
	}
	drawn := e.PlayerHand(0)[1]
	if drawn.FaceUp {
		t.Error("reshuffled cards must be face-down")
	}
}

func TestBothPilesExhausted(t *testing.T) {
	e := rig([][]Card{
		{card(SuitHearts, RankTwo)},
		{card(SuitClubs, RankNine)},
	}, nil, nil)
	wantReason(t, e.DrawFromDeck(0), ReasonPilesExhausted)
	if e.State().Phase != PhaseDraw {
		t.Error("failed draw must not advance the phase")
	}
}

// ---------------------------------------------------------------------------
// Laying down
// ---------------------------------------------------------------------------

// openingHand is worth exactly 51: four nines (36) and A-2-3 of clubs (15).
func openingHand() ([]Card, [][]Card) {
	nines := []Card{
		card(SuitHearts, RankNine), card(SuitDiamonds, RankNine),
		card(SuitClubs, RankNine), card(SuitSpades, RankNine),
	}
	low := []Card{card(SuitClubs, RankAce), card(SuitClubs, RankTwo), card(SuitClubs, RankThree)}
	hand := append(append([]Card{}, nines...), low...)
	hand = append(hand, card(SuitDiamonds, RankSeven)) // stays for the discard
	return hand, [][]Card{nines, low}
}

func toMeldPhase(t *testing.T, e *Engine) {
	t.Helper()
	mustDo(t, e.DrawFromDeck(0))
}

func TestOpeningAtExactThreshold(t *testing.T) {
	hand, groups := openingHand()
	e := rig([][]Card{hand, {card(SuitClubs, RankFour)}}, []Card{card(SuitSpades, RankKing)}, nil)
	events := record(e)
	toMeldPhase(t, e)

	mustDo(t, e.LayDownMelds(0, groups))
	if !e.HasOpened(0) {
		t.Error("player should be opened")
	}
	if got := len(e.PlayerMelds(0)); got != 2 {
		t.Errorf("table melds = %d, want 2", got)
	}
	if got := len(e.PlayerHand(0)); got != 2 {
		t.Errorf("hand size = %d, want 2", got)
	}
	last := (*events)[len(*events)-1]
	if last.Type != EventMeldsLaidDown || !last.Opened {
		t.Errorf("last event = %v opened=%v, want melds_laid_down with opened", last.Type, last.Opened)
	}
}

func TestOpeningBelowThresholdRejected(t *testing.T) {
	hand, groups := openingHand()
	e := rig([][]Card{hand, {card(SuitClubs, RankFour)}}, []Card{card(SuitSpades, RankKing)}, nil)
	toMeldPhase(t, e)

	// The nines alone are worth 36.
	wantReason(t, e.LayDownMelds(0, groups[:1]), ReasonBelowThreshold)
	if e.HasOpened(0) {
		t.Error("rejected lay-down must not open the player")
	}
	if got := len(e.PlayerHand(0)); got != len(hand)+1 {
		t.Errorf("hand size = %d after rejection, want %d", got, len(hand)+1)
	}
}

func TestOpenedPlayerLaysSmallMelds(t *testing.T) {
	low := []Card{card(SuitClubs, RankTwo), card(SuitClubs, RankThree), card(SuitClubs, RankFour)}
	hand := append(append([]Card{}, low...), card(SuitHearts, RankKing))
	e := rig([][]Card{hand, {card(SuitClubs, RankNine)}}, []Card{card(SuitSpades, RankKing)}, nil)
	e.players[0].hasOpened = true
	toMeldPhase(t, e)

	mustDo(t, e.LayDownMelds(0, [][]Card{low})) // worth 9, fine once opened
}

func TestLayDownRejectsBadGroups(t *testing.T) {
	hand, groups := openingHand()
	e := rig([][]Card{hand, {card(SuitClubs, RankFour)}}, []Card{card(SuitSpades, RankKing)}, nil)
	toMeldPhase(t, e)

	stranger := card(SuitHearts, RankQueen)
	wantReason(t, e.LayDownMelds(0, [][]Card{{stranger, card(SuitDiamonds, RankQueen), card(SuitClubs, RankQueen)}}), ReasonCardNotOwned)

	// Same card in two groups.
	dup := [][]Card{groups[0], {groups[0][0], groups[0][1], groups[0][2]}}
	wantReason(t, e.LayDownMelds(0, dup), ReasonCardNotOwned)

	// A group that is neither set nor run rejects the whole lay-down.
	bad := [][]Card{groups[0], {hand[5], hand[6], hand[7]}} // 2♣ 3♣ 7♦
	wantReason(t, e.LayDownMelds(0, bad), ReasonInvalidMeld)
	if len(e.PlayerMelds(0)) != 0 {
		t.Error("a rejected lay-down must leave the table untouched")
	}
}

// ---------------------------------------------------------------------------
// Adding to melds / joker reclaim
// ---------------------------------------------------------------------------

func TestAddCardRequiresOpening(t *testing.T) {
	c := card(SuitClubs, RankSeven)
	e := rig([][]Card{{c}, {card(SuitHearts, RankTwo)}}, []Card{card(SuitSpades, RankKing)}, nil)
	rigMeld(t, e, 1, card(SuitClubs, RankFour), card(SuitClubs, RankFive), card(SuitClubs, RankSix))
	e.players[1].hasOpened = true
	toMeldPhase(t, e)

	wantReason(t, e.AddCardToMeld(0, c, 1, 0), ReasonNotOpened)
}

func TestAddCardGrowsRunBothEnds(t *testing.T) {
	seven := card(SuitClubs, RankSeven)
	three := card(SuitClubs, RankThree)
	e := rig([][]Card{{seven, three, card(SuitHearts, RankKing)}, {card(SuitHearts, RankTwo)}}, []Card{card(SuitSpades, RankKing)}, nil)
	rigMeld(t, e, 0, card(SuitClubs, RankFour), card(SuitClubs, RankFive), card(SuitClubs, RankSix))
	toMeldPhase(t, e)

	mustDo(t, e.AddCardToMeld(0, seven, 0, 0))
	mustDo(t, e.AddCardToMeld(0, three, 0, 0))

	m := e.PlayerMelds(0)[0]
	if len(m.Cards) != 5 {
		t.Fatalf("meld size = %d, want 5", len(m.Cards))
	}
	ranks, ok := RunRanks(m.Cards)
	if !ok || ranks[0] != 3 || ranks[4] != 7 {
		t.Errorf("meld ranks = %v, want 3..7 ascending", ranks)
	}
}

func TestJokerReclaimFromFourCardSet(t *testing.T) {
	fiveSpades := card(SuitSpades, RankFive)
	e := rig([][]Card{{fiveSpades, card(SuitHearts, RankKing)}, {card(SuitHearts, RankTwo)}}, []Card{card(SuitSpades, RankKing)}, nil)
	rigMeld(t, e, 1, card(SuitHearts, RankFive), card(SuitDiamonds, RankFive), card(SuitClubs, RankFive), joker())
	e.players[0].hasOpened = true
	events := record(e)
	toMeldPhase(t, e)

	mustDo(t, e.AddCardToMeld(0, fiveSpades, 1, 0))

	m := e.PlayerMelds(1)[0]
	if len(m.Cards) != 4 {
		t.Fatalf("meld size = %d, want 4", len(m.Cards))
	}
	for _, c := range m.Cards {
		if c.IsJoker() {
			t.Error("joker should have been reclaimed")
		}
	}
	hand := e.PlayerHand(0)
	foundJoker := false
	for _, c := range hand {
		foundJoker = foundJoker || c.IsJoker()
	}
	if !foundJoker {
		t.Error("reclaimed joker should be in the acting player's hand")
	}
	last := (*events)[len(*events)-1]
	if last.Type != EventCardAddedToMeld || last.Reclaimed == nil || !last.Reclaimed.IsJoker() {
		t.Errorf("last event = %+v, want card_added_to_meld with reclaimed joker", last)
	}
}

func TestJokerReclaimFromRun(t *testing.T) {
	fourD := card(SuitDiamonds, RankFour)
	e := rig([][]Card{{fourD, card(SuitHearts, RankKing)}, {card(SuitHearts, RankTwo)}}, []Card{card(SuitSpades, RankKing)}, nil)
	rigMeld(t, e, 0, card(SuitDiamonds, RankThree), joker(), card(SuitDiamonds, RankFive))
	toMeldPhase(t, e)

	mustDo(t, e.AddCardToMeld(0, fourD, 0, 0))

	m := e.PlayerMelds(0)[0]
	ranks, ok := RunRanks(m.Cards)
	if !ok || len(m.Cards) != 3 {
		t.Fatalf("meld no longer a 3-card run: %v", m.Cards)
	}
	for i, c := range m.Cards {
		if c.IsJoker() {
			t.Errorf("joker still at position %d (ranks %v)", i, ranks)
		}
	}
}

func TestThreeCardSetWithJokerGrows(t *testing.T) {
	fiveClubs := card(SuitClubs, RankFive)
	e := rig([][]Card{{fiveClubs, card(SuitHearts, RankKing)}, {card(SuitHearts, RankTwo)}}, []Card{card(SuitSpades, RankKing)}, nil)
	rigMeld(t, e, 0, card(SuitHearts, RankFive), card(SuitDiamonds, RankFive), joker())
	toMeldPhase(t, e)

	// A distinct-suit five grows the set to four; the joker stays put.
	mustDo(t, e.AddCardToMeld(0, fiveClubs, 0, 0))
	m := e.PlayerMelds(0)[0]
	if len(m.Cards) != 4 {
		t.Fatalf("meld size = %d, want 4", len(m.Cards))
	}
	jokers := 0
	for _, c := range m.Cards {
		if c.IsJoker() {
			jokers++
		}
	}
	if jokers != 1 {
		t.Errorf("jokers in meld = %d, want 1", jokers)
	}
}

func TestAddCardNoFitRejected(t *testing.T) {
	nineH := card(SuitHearts, RankNine)
	e := rig([][]Card{{nineH, card(SuitHearts, RankKing)}, {card(SuitHearts, RankTwo)}}, []Card{card(SuitSpades, RankKing)}, nil)
	rigMeld(t, e, 0, card(SuitClubs, RankFour), card(SuitClubs, RankFive), card(SuitClubs, RankSix))
	toMeldPhase(t, e)

	wantReason(t, e.AddCardToMeld(0, nineH, 0, 0), ReasonInvalidMeld)
	wantReason(t, e.AddCardToMeld(0, nineH, 0, 5), ReasonNoSuchMeld)
	if len(e.PlayerHand(0)) != 3 {
		t.Error("rejected add must keep the card in hand")
	}
}

// ---------------------------------------------------------------------------
// Discarding, turn flow and game end
// ---------------------------------------------------------------------------

func TestDiscardEndsTurn(t *testing.T) {
	keep := card(SuitHearts, RankTwo)
	toss := card(SuitClubs, RankNine)
	e := rig([][]Card{{keep, toss}, {card(SuitSpades, RankFour)}}, []Card{card(SuitDiamonds, RankKing)}, nil)
	events := record(e)
	toMeldPhase(t, e)

	mustDo(t, e.DiscardCard(0, toss))
	st := e.State()
	if st.CurrentPlayer != 1 || st.Phase != PhaseDraw || st.Turn != 2 {
		t.Errorf("state after discard: player %d phase %v turn %d, want 1/draw/2", st.CurrentPlayer, st.Phase, st.Turn)
	}
	if st.DiscardTop == nil || !st.DiscardTop.Same(toss) {
		t.Error("discarded card should top the pile")
	}

	// Discard, turn end, next player's turn start, phase change.
	tail := (*events)[len(*events)-4:]
	wantTypes := []EventType{EventCardDiscarded, EventTurnEnded, EventPlayerTurnStarted, EventPhaseChanged}
	for i, ev := range tail {
		if ev.Type != wantTypes[i] {
			t.Errorf("event %d = %v, want %v", i, ev.Type, wantTypes[i])
		}
	}
}

func TestDiscardUnownedCardRejected(t *testing.T) {
	e := rig([][]Card{
		{card(SuitHearts, RankTwo), card(SuitClubs, RankNine)},
		{card(SuitSpades, RankFour)},
	}, []Card{card(SuitDiamonds, RankKing)}, nil)
	toMeldPhase(t, e)
	wantReason(t, e.DiscardCard(0, card(SuitHearts, RankTwo)), ReasonCardNotOwned)
}

func TestDiscardingLastCardWinsGame(t *testing.T) {
	e := rig([][]Card{
		{},
		{card(SuitSpades, RankKing), card(SuitHearts, RankTwo)},
	}, []Card{card(SuitDiamonds, RankNine)}, nil)
	events := record(e)

	mustDo(t, e.DrawFromDeck(0))
	drawn := e.PlayerHand(0)[0]
	mustDo(t, e.DiscardCard(0, drawn))

	st := e.State()
	if st.Phase != PhaseGameOver || st.Winner != 0 {
		t.Fatalf("phase %v winner %d, want game_over/0", st.Phase, st.Winner)
	}
	scores := e.FinalScores()
	if scores[0] != 0 {
		t.Errorf("winner deadwood = %d, want 0", scores[0])
	}
	if scores[1] != 12 { // K + 2
		t.Errorf("loser deadwood = %d, want 12", scores[1])
	}
	last2 := (*events)[len(*events)-1]
	if last2.Type != EventGameOver || last2.Winner != 0 {
		t.Errorf("final event = %v winner %d, want game_over/0", last2.Type, last2.Winner)
	}

	wantReason(t, e.DrawFromDeck(1), ReasonGameOver)
	wantReason(t, e.DiscardCard(1, card(SuitHearts, RankTwo)), ReasonGameOver)
}

func TestTurnCapStopsGame(t *testing.T) {
	toss := card(SuitClubs, RankNine)
	e := rig([][]Card{
		{card(SuitHearts, RankTwo), toss},
		{card(SuitSpades, RankFour)},
	}, []Card{card(SuitDiamonds, RankKing)}, nil)
	e.cfg.MaxTurns = 1
	toMeldPhase(t, e)

	mustDo(t, e.DiscardCard(0, toss))
	st := e.State()
	if st.Phase != PhaseGameOver || st.Winner != -1 {
		t.Errorf("phase %v winner %d, want game_over/-1", st.Phase, st.Winner)
	}
}

func TestReorderHand(t *testing.T) {
	a := card(SuitHearts, RankTwo)
	b := card(SuitClubs, RankNine)
	c := card(SuitSpades, RankKing)
	e := rig([][]Card{{a, b, c}, {card(SuitDiamonds, RankFour)}}, []Card{card(SuitDiamonds, RankKing)}, nil)

	mustDo(t, e.ReorderHand(0, []Card{c, a, b}))
	h := e.PlayerHand(0)
	if !h[0].Same(c) || !h[1].Same(a) || !h[2].Same(b) {
		t.Errorf("hand order = %v, want [K 2 9]", h)
	}

	// Off-turn reordering is allowed.
	mustDo(t, e.ReorderHand(1, e.PlayerHand(1)))

	wantReason(t, e.ReorderHand(0, []Card{a, b}), ReasonBadReorder)
	wantReason(t, e.ReorderHand(0, []Card{a, b, card(SuitHearts, RankTen)}), ReasonBadReorder)
}
