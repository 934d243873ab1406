package engine

import (
	"fmt"
	"sort"
)

// SolveResult is the best disjoint meld partition found for a hand.
type SolveResult struct {
	Melds      []Meld
	Remaining  []Card // leftover cards, original hand order
	TotalScore int    // summed meld scores
	Deadwood   int    // point value of Remaining
}

// maxSolveCards bounds the availability bitset. Hands are capped well
// below this by MaxHandSize; exceeding it is a caller contract bug.
const maxSolveCards = 64

// maxSolveNodes caps the backtracking search. Realistic hands complete
// exhaustively far under the cap; a pathological input that hits it
// still gets the best partition found so far, never an arbitrary one.
const maxSolveNodes = 200000

// jokerSlot marks a sequence position filled by a joker. Jokers are
// interchangeable, so candidates hold a count rather than identities;
// actual joker cards are bound when the winning partition is
// materialized. This keeps two joker-hungry candidates combinable as
// long as enough jokers exist.
const jokerSlot = -1

// candidate is one legal meld assembled from hand positions.
type candidate struct {
	mask   uint64 // non-joker hand indices
	idxs   []int  // hand indices in meld sequence order, jokerSlot for jokers
	kind   MeldKind
	score  int
	jokers int
	key    string // deterministic tiebreak and dedupe key
}

// Solve partitions the given cards into the highest-scoring collection
// of disjoint legal melds and reports the leftover deadwood. The input
// is never mutated; the result is deterministic for a fixed card order.
func Solve(hand []Card) SolveResult {
	if len(hand) > maxSolveCards {
		panic(fmt.Sprintf("engine: Solve called with %d cards, max %d", len(hand), maxSolveCards))
	}
	cands, jokerIdxs := generateCandidates(hand)

	s := solveSearch{cands: cands, jokersTotal: len(jokerIdxs), bestScore: -1}
	s.suffix = make([]int, len(cands)+1)
	for i := len(cands) - 1; i >= 0; i-- {
		s.suffix[i] = s.suffix[i+1] + cands[i].score
	}
	s.search(0, 0, 0, 0, nil)

	result := SolveResult{TotalScore: s.bestScore}
	var used uint64
	jokerCursor := 0
	for _, ci := range s.bestPick {
		c := cands[ci]
		cards := make([]Card, len(c.idxs))
		for i, idx := range c.idxs {
			if idx == jokerSlot {
				j := jokerIdxs[jokerCursor]
				jokerCursor++
				cards[i] = hand[j]
				used |= 1 << uint(j)
				continue
			}
			cards[i] = hand[idx]
		}
		result.Melds = append(result.Melds, Meld{Kind: c.kind, Cards: cards})
		used |= c.mask
	}
	for i, c := range hand {
		if used&(1<<uint(i)) == 0 {
			result.Remaining = append(result.Remaining, c)
		}
	}
	result.Deadwood = Deadwood(result.Remaining)
	return result
}

type solveSearch struct {
	cands       []candidate
	suffix      []int
	jokersTotal int
	bestScore   int
	bestPick    []int
	nodes       int
}

// search walks candidates in order, committing or skipping each one.
// Strict improvement keeps the first-found best, so ties resolve by
// candidate order and the result is reproducible.
func (s *solveSearch) search(i int, used uint64, jokersUsed, score int, pick []int) {
	s.nodes++
	if score > s.bestScore {
		s.bestScore = score
		s.bestPick = append([]int(nil), pick...)
	}
	if i >= len(s.cands) || s.nodes > maxSolveNodes {
		return
	}
	if score+s.suffix[i] <= s.bestScore {
		return
	}
	c := s.cands[i]
	if used&c.mask == 0 && jokersUsed+c.jokers <= s.jokersTotal {
		s.search(i+1, used|c.mask, jokersUsed+c.jokers, score+c.score, append(pick, i))
	}
	s.search(i+1, used, jokersUsed, score, pick)
}

// generateCandidates enumerates every legal set and run buildable from
// the hand, including every joker placement, ordered by point-per-card
// efficiency, then score, length, joker use, and finally a positional
// key. It also returns the hand indices of the jokers themselves.
func generateCandidates(hand []Card) ([]candidate, []int) {
	var jokerIdxs []int
	// suitSlots[suit][effective rank] -> hand indices. Aces appear at 1 and 14.
	var suitSlots [4][rankAceHigh + 1][]int
	// rankSuits[rank][suit] -> hand indices (for sets).
	var rankSuits [RankKing + 1][4][]int

	for i, c := range hand {
		if c.IsJoker() {
			jokerIdxs = append(jokerIdxs, i)
			continue
		}
		suitSlots[c.Suit][int(c.Rank)] = append(suitSlots[c.Suit][int(c.Rank)], i)
		if c.Rank == RankAce {
			suitSlots[c.Suit][rankAceHigh] = append(suitSlots[c.Suit][rankAceHigh], i)
		}
		rankSuits[c.Rank][c.Suit] = append(rankSuits[c.Rank][c.Suit], i)
	}
	jokersAvail := len(jokerIdxs)

	var cands []candidate
	dedupe := make(map[string]bool)
	add := func(idxs []int, kind MeldKind, score, jokersUsed int) {
		key := fmt.Sprint(kind, idxs)
		if dedupe[key] {
			return
		}
		dedupe[key] = true
		var mask uint64
		for _, idx := range idxs {
			if idx != jokerSlot {
				mask |= 1 << uint(idx)
			}
		}
		cands = append(cands, candidate{
			mask:   mask,
			idxs:   append([]int(nil), idxs...),
			kind:   kind,
			score:  score,
			jokers: jokersUsed,
			key:    key,
		})
	}

	generateSets(&rankSuits, jokersAvail, add)
	for suit := 0; suit < 4; suit++ {
		generateRuns(&suitSlots[suit], jokersAvail, add)
	}

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		// Efficiency compared without division: score_a/len_a vs score_b/len_b.
		ae, be := a.score*len(b.idxs), b.score*len(a.idxs)
		if ae != be {
			return ae > be
		}
		if a.score != b.score {
			return a.score > b.score
		}
		if len(a.idxs) != len(b.idxs) {
			return len(a.idxs) > len(b.idxs)
		}
		if a.jokers != b.jokers {
			return a.jokers > b.jokers
		}
		return a.key < b.key
	})
	return cands, jokerIdxs
}

// generateSets emits 3- and 4-card same-rank candidates: one card per
// distinct suit, at most one joker (trailing, per canonical order).
func generateSets(rankSuits *[RankKing + 1][4][]int, jokersAvail int, add func([]int, MeldKind, int, int)) {
	for rank := RankAce; rank <= RankKing; rank++ {
		points := rankPoints(int(rank))
		for bits := 1; bits < 16; bits++ {
			size := popcount4(bits)
			var suits []Suit
			ok := true
			for s := SuitHearts; s <= SuitSpades; s++ {
				if bits&(1<<uint(s)) == 0 {
					continue
				}
				if len(rankSuits[rank][s]) == 0 {
					ok = false
					break
				}
				suits = append(suits, s)
			}
			if !ok {
				continue
			}
			if size >= 3 {
				forEachSuitChoice(rankSuits, rank, suits, nil, func(idxs []int) {
					add(idxs, MeldSet, size*points, 0)
				})
			}
			if jokersAvail > 0 && size >= 2 && size <= 3 {
				forEachSuitChoice(rankSuits, rank, suits, nil, func(idxs []int) {
					withJoker := append(append([]int(nil), idxs...), jokerSlot)
					add(withJoker, MeldSet, (size+1)*points, 1)
				})
			}
		}
	}
}

// forEachSuitChoice walks the cartesian product of one card per suit.
func forEachSuitChoice(rankSuits *[RankKing + 1][4][]int, rank Rank, suits []Suit, prefix []int, emit func([]int)) {
	if len(suits) == 0 {
		emit(prefix)
		return
	}
	for _, idx := range rankSuits[rank][suits[0]] {
		forEachSuitChoice(rankSuits, rank, suits[1:], append(prefix, idx), emit)
	}
}

// generateRuns emits every same-suit window of length >= 3 over
// effective ranks 1–14, jokers filling missing ranks. Slots prefer real
// cards; a joker fills the earliest open gap first, so placement is
// deterministic.
func generateRuns(slots *[rankAceHigh + 1][]int, jokersAvail int, add func([]int, MeldKind, int, int)) {
	for start := 1; start <= rankAceHigh-2; start++ {
		for end := start + 2; end <= rankAceHigh; end++ {
			fillRunWindow(slots, jokersAvail, start, end, start, nil, 0, add)
		}
	}
}

// fillRunWindow assigns a card or joker to each rank slot of the window
// [start, end], recursing slot by slot.
func fillRunWindow(slots *[rankAceHigh + 1][]int, jokersAvail, start, end, rank int, picked []int, jokersUsed int, add func([]int, MeldKind, int, int)) {
	if rank > end {
		if len(picked) == jokersUsed {
			return // at least one anchor card required
		}
		score := 0
		for r := start; r <= end; r++ {
			score += rankPoints(r)
		}
		add(picked, MeldRun, score, jokersUsed)
		return
	}
	for _, idx := range slots[rank] {
		if containsInt(picked, idx) {
			continue // an ace is listed at 1 and 14; never twice in one window
		}
		fillRunWindow(slots, jokersAvail, start, end, rank+1, append(picked, idx), jokersUsed, add)
	}
	if jokersUsed < jokersAvail {
		fillRunWindow(slots, jokersAvail, start, end, rank+1, append(picked, jokerSlot), jokersUsed+1, add)
	}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func popcount4(bits int) int {
	n := 0
	for b := bits; b != 0; b >>= 1 {
		n += b & 1
	}
	return n
}
