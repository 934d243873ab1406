// Package sim wires AI strategies to an engine instance and plays a
// game to completion, logging every engine event.
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"remi/engine"
	"remi/engine/ai"
)

// Result summarizes a finished game.
type Result struct {
	Winner int // -1 when the game was stopped by the turn cap
	Scores []int
	Turns  int
}

// Runner owns one engine and one strategy per seat.
type Runner struct {
	eng   *engine.Engine
	ais   []*ai.Strategy
	log   *logrus.Logger
	unsub func()
}

// New builds a runner for cfg with every seat played by a strategy
// using the given policy.
func New(cfg engine.Config, policy ai.Policy, log *logrus.Logger) (*Runner, error) {
	eng, err := engine.NewGame(cfg)
	if err != nil {
		return nil, err
	}
	r := &Runner{eng: eng, log: log}
	r.unsub = eng.Subscribe(r.logEvent)
	for p := 0; p < cfg.NumPlayers; p++ {
		r.ais = append(r.ais, ai.New(eng, p, policy))
	}
	return r, nil
}

// Run starts the game and drives turns until it ends. A stalled turn
// (e.g. both piles exhausted) stops the run with an error.
func (r *Runner) Run() (Result, error) {
	defer r.close()
	if err := r.eng.Start(); err != nil {
		return Result{}, err
	}
	for {
		st := r.eng.State()
		if st.Phase == engine.PhaseGameOver {
			return Result{Winner: st.Winner, Scores: r.eng.FinalScores(), Turns: st.Turn}, nil
		}
		if err := r.ais[st.CurrentPlayer].TakeTurn(r.eng); err != nil {
			return Result{}, fmt.Errorf("sim: player %d stalled on turn %d: %w", st.CurrentPlayer, st.Turn, err)
		}
	}
}

func (r *Runner) close() {
	r.unsub()
	for _, s := range r.ais {
		s.Close()
	}
}

// logEvent writes one structured log line per engine event.
func (r *Runner) logEvent(ev engine.Event) {
	fields := logrus.Fields{
		"game":  ev.GameID,
		"seq":   ev.Seq,
		"event": ev.Type.String(),
	}
	if ev.Player >= 0 {
		fields["player"] = ev.Player
	}
	switch ev.Type {
	case engine.EventCardDrawn:
		fields["source"] = ev.Source.String()
	case engine.EventCardDiscarded:
		fields["card"] = ev.Card.String()
	case engine.EventMeldsLaidDown:
		fields["melds"] = len(ev.Melds)
		fields["opened"] = ev.Opened
	case engine.EventCardAddedToMeld:
		fields["card"] = ev.Card.String()
		fields["owner"] = ev.MeldOwner
		fields["meld"] = ev.MeldIndex
		if ev.Reclaimed != nil {
			fields["reclaimed"] = ev.Reclaimed.String()
		}
	case engine.EventPhaseChanged:
		fields["phase"] = ev.Phase.String()
	case engine.EventPileReshuffled:
		fields["pile_size"] = ev.PileSize
	case engine.EventGameOver:
		fields["scores"] = ev.Scores
		fields["winner"] = ev.Winner
	}
	r.log.WithFields(fields).Info("game event")
}
