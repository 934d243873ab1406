package engine

// Validation is the live-feedback result for a player's current card
// selection. Querying twice with the same selection and no intervening
// command yields identical results.
type Validation struct {
	ValidMelds           []Meld
	InvalidCards         []Card
	TotalScore           int
	MeetsOpenRequirement bool
	MinimumNeeded        int // points still missing to open; 0 once met or already opened
}

// ValidateSelection evaluates a set of selected cards against the
// player's hand: the best meld partition of the owned selection, the
// leftover (or unowned) cards, and whether laying the melds down would
// satisfy the opening rule. Side-effect free.
func (e *Engine) ValidateSelection(player int, selected []Card) Validation {
	e.checkPlayer(player)

	hand := e.players[player].hand
	owned := make([]Card, 0, len(selected))
	var result Validation
	for _, c := range selected {
		if containsCard(hand, c.ID) {
			owned = append(owned, c)
		} else {
			result.InvalidCards = append(result.InvalidCards, c)
		}
	}

	solved := Solve(owned)
	result.ValidMelds = solved.Melds
	result.InvalidCards = append(result.InvalidCards, solved.Remaining...)
	result.TotalScore = solved.TotalScore

	if e.players[player].hasOpened || result.TotalScore >= e.cfg.OpeningThreshold {
		result.MeetsOpenRequirement = true
	} else {
		result.MinimumNeeded = e.cfg.OpeningThreshold - result.TotalScore
	}
	return result
}
