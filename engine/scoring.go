package engine

// Deadwood returns the total point value of unmelded cards. Jokers in
// hand count nothing on their own.
func Deadwood(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Value()
	}
	return total
}

// FinalScores returns each player's deadwood once the game is over.
// The winner (if any) holds zero cards and therefore scores zero.
func (e *Engine) FinalScores() []int {
	scores := make([]int, len(e.players))
	for i, p := range e.players {
		scores[i] = Deadwood(p.hand)
	}
	return scores
}
