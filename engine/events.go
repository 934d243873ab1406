package engine

import (
	"time"

	"github.com/google/uuid"
)

// EventType discriminates engine event records.
type EventType uint8

const (
	EventGameStarted EventType = iota + 1
	EventCardDrawn
	EventCardDiscarded
	EventMeldsLaidDown
	EventCardAddedToMeld
	EventPhaseChanged
	EventTurnEnded
	EventPlayerTurnStarted
	EventPileReshuffled
	EventGameOver
)

var eventNames = map[EventType]string{
	EventGameStarted:       "game_started",
	EventCardDrawn:         "card_drawn",
	EventCardDiscarded:     "card_discarded",
	EventMeldsLaidDown:     "melds_laid_down",
	EventCardAddedToMeld:   "card_added_to_meld",
	EventPhaseChanged:      "phase_changed",
	EventTurnEnded:         "turn_ended",
	EventPlayerTurnStarted: "player_turn_started",
	EventPileReshuffled:    "pile_reshuffled",
	EventGameOver:          "game_over",
}

func (t EventType) String() string {
	if s, ok := eventNames[t]; ok {
		return s
	}
	return "unknown"
}

// DrawSource distinguishes where a drawn card came from.
type DrawSource uint8

const (
	DrawSourceDeck DrawSource = iota
	DrawSourceDiscard
)

func (s DrawSource) String() string {
	if s == DrawSourceDiscard {
		return "discard"
	}
	return "deck"
}

// Event is a discriminated record describing one state transition. Seq
// is monotonic per game; together with the typed payload fields a
// subscriber can replay the visual effect without re-querying state.
// Fields not relevant to the Type are zero.
type Event struct {
	Type      EventType
	Seq       uint64
	Timestamp time.Time
	GameID    uuid.UUID

	Player int // acting player, -1 when not player-scoped

	Card   *Card      // CardDrawn (hidden sources keep it set: delivery is in-process), CardDiscarded, CardAddedToMeld
	Source DrawSource // CardDrawn
	Melds  []Meld     // MeldsLaidDown (canonical order)
	Opened bool       // MeldsLaidDown: this lay-down opened the player

	MeldOwner int   // CardAddedToMeld
	MeldIndex int   // CardAddedToMeld
	Reclaimed *Card // CardAddedToMeld: joker returned to the acting player's hand

	Phase    Phase // PhaseChanged
	PileSize int   // PileReshuffled: new draw pile size

	Scores []int // GameOver: final deadwood per player
	Winner int   // GameOver: winning player, -1 on turn-cap stop with no out
}

// Subscribe registers fn for every subsequent event and returns an
// unsubscribe handle. Delivery is synchronous and in subscription order,
// completed before the triggering command returns.
func (e *Engine) Subscribe(fn func(Event)) func() {
	e.nextSubID++
	id := e.nextSubID
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

type subscriber struct {
	id int
	fn func(Event)
}

// emit stamps and delivers one event.
func (e *Engine) emit(ev Event) {
	e.seq++
	ev.Seq = e.seq
	ev.Timestamp = time.Now()
	ev.GameID = e.ID
	for _, s := range e.subs {
		s.fn(ev)
	}
}
