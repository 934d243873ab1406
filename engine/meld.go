package engine

// MeldKind discriminates the two legal meld shapes.
type MeldKind uint8

const (
	MeldInvalid MeldKind = iota
	MeldSet              // 3–4 cards, same rank, distinct suits, at most one joker
	MeldRun              // 3+ cards, same suit, consecutive ranks, jokers filling gaps
)

func (k MeldKind) String() string {
	switch k {
	case MeldSet:
		return "set"
	case MeldRun:
		return "run"
	}
	return "invalid"
}

// Meld is an ordered card sequence together with its classified kind.
// Validity is always a pure function of the sequence; a Meld value is a
// classification result, never a cache to trust past the moment it was
// computed.
type Meld struct {
	Kind  MeldKind
	Cards []Card
}

// Score returns the meld's point value (0 if the sequence is no longer
// legal).
func (m Meld) Score() int { return MeldScore(m.Cards) }

// IsSet reports whether cards form a legal set: 3–4 cards, at most one
// joker, all non-jokers sharing a rank, non-joker suits pairwise
// distinct.
func IsSet(cards []Card) bool {
	if len(cards) < 3 || len(cards) > 4 {
		return false
	}
	jokers := 0
	rank := RankJoker
	var seen [4]bool
	for _, c := range cards {
		if c.IsJoker() {
			jokers++
			continue
		}
		if rank == RankJoker {
			rank = c.Rank
		} else if c.Rank != rank {
			return false
		}
		if seen[c.Suit] {
			return false
		}
		seen[c.Suit] = true
	}
	return jokers <= 1
}

// IsRun reports whether cards form a legal run: at least 3 cards, all
// non-jokers sharing an ordinary suit, and every physical slot advancing
// exactly one rank step in a single direction, jokers standing in for the
// rank their position implies. The ace may sit at rank 1 or above the
// King (14); no wraparound.
func IsRun(cards []Card) bool {
	_, ok := RunRanks(cards)
	return ok
}

// RunRanks reconstructs the effective rank (1–14) of every position in a
// run, jokers included. It returns ok=false if the sequence is not a
// legal run. Both ace interpretations and both directions are tried; the
// direction must be consistent across the whole sequence.
func RunRanks(cards []Card) ([]int, bool) {
	if len(cards) < 3 {
		return nil, false
	}
	suit := Suit(255)
	anchors := 0
	for _, c := range cards {
		if c.IsJoker() {
			continue
		}
		anchors++
		if suit == 255 {
			suit = c.Suit
		} else if c.Suit != suit {
			return nil, false
		}
	}
	if anchors == 0 {
		return nil, false
	}
	for _, dir := range [2]int{1, -1} {
		if ranks, ok := runRanksDir(cards, dir); ok {
			return ranks, true
		}
	}
	return nil, false
}

// runRanksDir tries to rank the sequence in one direction. The first
// anchor fixes the progression; every other position is then implied.
func runRanksDir(cards []Card, dir int) ([]int, bool) {
	first := -1
	for i, c := range cards {
		if !c.IsJoker() {
			first = i
			break
		}
	}
	for _, base := range rankInterpretations(cards[first].Rank) {
		ranks := make([]int, len(cards))
		ok := true
		for i, c := range cards {
			r := base + dir*(i-first)
			if r < 1 || r > rankAceHigh {
				ok = false
				break
			}
			if !c.IsJoker() && !rankMatches(c.Rank, r) {
				ok = false
				break
			}
			ranks[i] = r
		}
		if ok {
			return ranks, true
		}
	}
	return nil, false
}

// rankInterpretations returns the effective ranks a stored rank can take:
// the ace is 1 or 14, everything else only itself.
func rankInterpretations(r Rank) []int {
	if r == RankAce {
		return []int{1, rankAceHigh}
	}
	return []int{int(r)}
}

func rankMatches(stored Rank, effective int) bool {
	if stored == RankAce {
		return effective == 1 || effective == rankAceHigh
	}
	return int(stored) == effective
}

// Classify returns the meld kind of cards, or (MeldInvalid, false).
func Classify(cards []Card) (MeldKind, bool) {
	if IsSet(cards) {
		return MeldSet, true
	}
	if IsRun(cards) {
		return MeldRun, true
	}
	return MeldInvalid, false
}

// MeldScore returns the point value of a legal meld, 0 otherwise. A
// joker scores as the rank it stands in for: the common rank in a set,
// the positionally implied rank in a run.
func MeldScore(cards []Card) int {
	if IsSet(cards) {
		rank := setRank(cards)
		return len(cards) * rankPoints(int(rank))
	}
	if ranks, ok := RunRanks(cards); ok {
		total := 0
		for _, r := range ranks {
			total += rankPoints(r)
		}
		return total
	}
	return 0
}

// setRank returns the common rank of a legal set's non-joker cards.
func setRank(cards []Card) Rank {
	for _, c := range cards {
		if !c.IsJoker() {
			return c.Rank
		}
	}
	return RankJoker
}

// Canonical reorders a legal meld for display and table storage: sets
// are suit-ordered with jokers trailing, runs ascend by effective rank
// with each joker kept in the exact gap it fills. Returns ok=false for
// an illegal sequence.
func Canonical(cards []Card) (Meld, bool) {
	kind, ok := Classify(cards)
	if !ok {
		return Meld{}, false
	}
	out := make([]Card, len(cards))
	copy(out, cards)
	switch kind {
	case MeldSet:
		// Insertion sort: suit order with jokers last. Melds are <= 4 cards.
		for i := 1; i < len(out); i++ {
			for j := i; j > 0 && setLess(out[j], out[j-1]); j-- {
				out[j], out[j-1] = out[j-1], out[j]
			}
		}
	case MeldRun:
		ranks, _ := RunRanks(out)
		if len(ranks) > 1 && ranks[0] > ranks[len(ranks)-1] {
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return Meld{Kind: kind, Cards: out}, true
}

func setLess(a, b Card) bool {
	if a.IsJoker() != b.IsJoker() {
		return !a.IsJoker()
	}
	return a.Suit < b.Suit
}

// jokerRole describes the card a joker in a table meld stands in for.
type jokerRole struct {
	rank    Rank // stored rank of the replacement card (ace for 1 and 14)
	suit    Suit // exact suit in a run; missing suit in a 4-card set
	anySuit bool // 3-card set: the joker's suit is not yet pinned down
}

// jokerRoles maps each joker position in a legal meld to the identity it
// represents. Used for the joker steal/reclaim rule.
func jokerRoles(cards []Card) map[int]jokerRole {
	roles := make(map[int]jokerRole)
	kind, ok := Classify(cards)
	if !ok {
		return roles
	}
	switch kind {
	case MeldSet:
		rank := setRank(cards)
		var seen [4]bool
		jokerIdx := -1
		for i, c := range cards {
			if c.IsJoker() {
				jokerIdx = i
			} else {
				seen[c.Suit] = true
			}
		}
		if jokerIdx < 0 {
			return roles
		}
		if len(cards) == 4 {
			// Exactly one suit is missing; the joker holds it.
			for s := SuitHearts; s <= SuitSpades; s++ {
				if !seen[s] {
					roles[jokerIdx] = jokerRole{rank: rank, suit: s}
					break
				}
			}
		} else {
			roles[jokerIdx] = jokerRole{rank: rank, anySuit: true}
		}
	case MeldRun:
		ranks, _ := RunRanks(cards)
		suit := cards[0].Suit
		for _, c := range cards {
			if !c.IsJoker() {
				suit = c.Suit
				break
			}
		}
		for i, c := range cards {
			if !c.IsJoker() {
				continue
			}
			r := ranks[i]
			stored := Rank(r)
			if r == rankAceHigh {
				stored = RankAce
			}
			roles[i] = jokerRole{rank: stored, suit: suit}
		}
	}
	return roles
}

// matchesRole reports whether card can take over the joker's role.
func matchesRole(card Card, role jokerRole, meld []Card) bool {
	if card.IsJoker() || card.Rank != role.rank {
		return false
	}
	if role.anySuit {
		// 3-card set: any fourth suit works, but it must stay distinct.
		for _, c := range meld {
			if !c.IsJoker() && c.Suit == card.Suit {
				return false
			}
		}
		return true
	}
	return card.Suit == role.suit
}
