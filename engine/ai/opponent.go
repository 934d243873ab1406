package ai

import "remi/engine"

// opponentModel estimates what the other seats want, built purely from
// the public event stream. A discard pickup signals interest in that
// rank and suit neighborhood; a discard signals disinterest.
type opponentModel struct {
	self     int
	wantRank map[engine.Rank]float64
	wantSuit map[engine.Suit]float64
	shedRank map[engine.Rank]float64
}

func newOpponentModel(self int) opponentModel {
	return opponentModel{
		self:     self,
		wantRank: make(map[engine.Rank]float64),
		wantSuit: make(map[engine.Suit]float64),
		shedRank: make(map[engine.Rank]float64),
	}
}

// observe feeds one public event into the model.
func (m *opponentModel) observe(ev engine.Event) {
	if ev.Player == m.self || ev.Card == nil {
		return
	}
	switch ev.Type {
	case engine.EventCardDrawn:
		if ev.Source == engine.DrawSourceDiscard {
			m.wantRank[ev.Card.Rank] += 2
			m.wantSuit[ev.Card.Suit]++
		}
	case engine.EventCardDiscarded:
		m.shedRank[ev.Card.Rank]++
	case engine.EventCardAddedToMeld:
		// Extending melds reveals the suit being collected.
		m.wantSuit[ev.Card.Suit] += 0.5
	}
}

// usefulness estimates how valuable the card would be to an opponent.
// Higher values argue for holding (or denying) the card.
func (m *opponentModel) usefulness(c engine.Card) float64 {
	if c.IsJoker() {
		return 4 // a joker helps anyone
	}
	score := m.wantRank[c.Rank] + 0.5*m.wantSuit[c.Suit]
	score -= 0.5 * m.shedRank[c.Rank]
	if score < 0 {
		return 0
	}
	return score
}
