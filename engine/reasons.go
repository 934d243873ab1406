package engine

import (
	"errors"
	"fmt"
)

// Reason classifies why a command was rejected. Every expected rule
// violation maps to exactly one Reason; commands never panic for them.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonGameOver
	ReasonWrongPhase
	ReasonWrongPlayer
	ReasonHandFull
	ReasonPileEmpty      // discard pile empty on a discard-draw
	ReasonPilesExhausted // both piles empty, nothing to draw
	ReasonCardNotOwned
	ReasonInvalidMeld
	ReasonBelowThreshold // opening lay-down under the opening score
	ReasonNotOpened
	ReasonNoSuchMeld
	ReasonBadReorder
)

var reasonNames = map[Reason]string{
	ReasonNone:           "none",
	ReasonGameOver:       "game_over",
	ReasonWrongPhase:     "wrong_phase",
	ReasonWrongPlayer:    "wrong_player",
	ReasonHandFull:       "hand_full",
	ReasonPileEmpty:      "pile_empty",
	ReasonPilesExhausted: "piles_exhausted",
	ReasonCardNotOwned:   "card_not_owned",
	ReasonInvalidMeld:    "invalid_meld",
	ReasonBelowThreshold: "below_threshold",
	ReasonNotOpened:      "not_opened",
	ReasonNoSuchMeld:     "no_such_meld",
	ReasonBadReorder:     "bad_reorder",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// RuleError is the structured rejection returned by engine commands.
type RuleError struct {
	Reason Reason
	msg    string
}

func (e *RuleError) Error() string {
	if e.msg == "" {
		return e.Reason.String()
	}
	return e.Reason.String() + ": " + e.msg
}

// reject builds a *RuleError with a formatted detail message.
func reject(r Reason, format string, args ...any) *RuleError {
	return &RuleError{Reason: r, msg: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the rejection reason from a command error.
// Returns ReasonNone for nil or non-rule errors.
func ReasonOf(err error) Reason {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ReasonNone
}
