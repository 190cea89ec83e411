package league

import "sort"

// Tie-break symbols attached to standings rows. The symbol footnotes which
// criterion ordered a tied group, not who came out ahead; every member of
// the group carries the same one.
const (
	SymbolHeadToHead  = "*"
	SymbolRunDiff     = "**"
	SymbolRunsAgainst = "***"
	SymbolRunsScored  = "****"
	SymbolManual      = "†"
)

// Reason strings paired with the symbols above.
const (
	ReasonHeadToHead  = "Head-to-head record"
	ReasonRunDiff     = "Run differential"
	ReasonRunsAgainst = "Fewest runs against"
	ReasonRunsScored  = "Most runs scored"
	ReasonManual      = "Requires manual resolution"
	ReasonBeatAll     = "Beat all tied teams"
	ReasonLostAll     = "Lost to all tied teams"
	ReasonMultiTeam   = "Multi-team tie resolution"
)

// --------------------------------------------------------------------------
// Head-to-head index
// --------------------------------------------------------------------------

type h2hKey struct {
	teamID int
	oppID  int
}

type h2hLine struct {
	wins   int
	losses int
	ties   int
}

// headToHead holds each ordered pair's record over the games between them.
// Built once per resolution run from the season's completed games.
type headToHead map[h2hKey]h2hLine

func buildHeadToHead(games []Game) headToHead {
	idx := make(headToHead)
	for i := range games {
		g := &games[i]
		if !g.Completed() {
			continue
		}
		home := idx[h2hKey{g.HomeTeamID, g.AwayTeamID}]
		away := idx[h2hKey{g.AwayTeamID, g.HomeTeamID}]
		switch g.Winner() {
		case "H":
			home.wins++
			away.losses++
		case "A":
			home.losses++
			away.wins++
		default:
			home.ties++
			away.ties++
		}
		idx[h2hKey{g.HomeTeamID, g.AwayTeamID}] = home
		idx[h2hKey{g.AwayTeamID, g.HomeTeamID}] = away
	}
	return idx
}

// Percentage returns teamID's winning percentage over its games against
// oppID, counting a tie as half a win. ok is false when the pair never met;
// that undefined value is distinct from 0.5 and must never pass a strict
// greater-or-less test.
func (h headToHead) Percentage(teamID, oppID int) (float64, bool) {
	line := h[h2hKey{teamID, oppID}]
	n := line.wins + line.losses + line.ties
	if n == 0 {
		return 0, false
	}
	return (float64(line.wins) + 0.5*float64(line.ties)) / float64(n), true
}

// --------------------------------------------------------------------------
// Resolver
// --------------------------------------------------------------------------

// breakTies walks the primary-sorted standings, partitioning off each group
// of identical (wins, losses, ties) records in turn, resolving groups of
// two or more, and finally assigning contiguous 1-based ranks. Each
// iteration builds a fresh remainder slice; nothing is removed in place.
func breakTies(seeded []Standing, h2h headToHead) []Standing {
	final := make([]Standing, 0, len(seeded))
	remaining := seeded
	for len(remaining) > 0 {
		leader := remaining[0].TeamRecord
		group := make([]Standing, 0, 2)
		rest := make([]Standing, 0, len(remaining))
		for _, s := range remaining {
			if s.TeamRecord.sameRecord(&leader) {
				group = append(group, s)
			} else {
				rest = append(rest, s)
			}
		}
		if len(group) == 1 {
			final = append(final, group[0])
		} else {
			final = append(final, breakGroup(group, h2h)...)
		}
		remaining = rest
	}
	for i := range final {
		final[i].Rank = i + 1
	}
	return final
}

// breakGroup resolves one tied group. Recursive calls always receive a
// strictly smaller group, so resolution terminates.
func breakGroup(group []Standing, h2h headToHead) []Standing {
	switch {
	case len(group) <= 1:
		return group
	case len(group) == 2:
		return breakPair(group[0], group[1], h2h)
	default:
		return breakMulti(group, h2h)
	}
}

// breakPair applies the two-way rule chain in order; the first decisive
// rule fixes the order and stamps both rows.
func breakPair(a, b Standing, h2h headToHead) []Standing {
	// 1. Head-to-head winning percentage over the games between the pair.
	// The two percentages come from the same game set, so they sum to
	// exactly 1; they differ iff one side won more of the meetings.
	pctA, ok := h2h.Percentage(a.TeamID, b.TeamID)
	pctB, _ := h2h.Percentage(b.TeamID, a.TeamID)
	if ok && pctA != pctB {
		if pctA > pctB {
			return stampPair(a, b, ReasonHeadToHead, SymbolHeadToHead)
		}
		return stampPair(b, a, ReasonHeadToHead, SymbolHeadToHead)
	}

	// 2. Capped run differential.
	if a.CappedRunDiff != b.CappedRunDiff {
		if a.CappedRunDiff > b.CappedRunDiff {
			return stampPair(a, b, ReasonRunDiff, SymbolRunDiff)
		}
		return stampPair(b, a, ReasonRunDiff, SymbolRunDiff)
	}

	// 3. Fewest runs against.
	if a.RunsAgainst != b.RunsAgainst {
		if a.RunsAgainst < b.RunsAgainst {
			return stampPair(a, b, ReasonRunsAgainst, SymbolRunsAgainst)
		}
		return stampPair(b, a, ReasonRunsAgainst, SymbolRunsAgainst)
	}

	// 4. Most runs scored.
	if a.RunsScored != b.RunsScored {
		if a.RunsScored > b.RunsScored {
			return stampPair(a, b, ReasonRunsScored, SymbolRunsScored)
		}
		return stampPair(b, a, ReasonRunsScored, SymbolRunsScored)
	}

	// 5. Nothing separates them; keep input order for manual resolution.
	return stampPair(a, b, ReasonManual, SymbolManual)
}

func stampPair(first, second Standing, reason, symbol string) []Standing {
	first.Reason, first.Symbol = reason, symbol
	second.Reason, second.Symbol = reason, symbol
	return []Standing{first, second}
}

// breakMulti resolves a group of three or more.
func breakMulti(group []Standing, h2h headToHead) []Standing {
	// A team above .500 head-to-head against every other member goes
	// first. At most one can exist: two mutual dominants would each need
	// a winning record against the other.
	if i, ok := findDominant(group, h2h); ok {
		winner := group[i]
		winner.Reason, winner.Symbol = ReasonBeatAll, SymbolManual
		return append([]Standing{winner}, breakGroup(withoutIndex(group, i), h2h)...)
	}

	// A team below .500 against every other member goes last.
	if i, ok := findDominated(group, h2h); ok {
		loser := group[i]
		loser.Reason, loser.Symbol = ReasonLostAll, SymbolManual
		return append(breakGroup(withoutIndex(group, i), h2h), loser)
	}

	// No dominant or dominated team: one flat sort on the secondary
	// criteria orders the whole group, every member stamped alike.
	sorted := make([]Standing, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if a.CappedRunDiff != b.CappedRunDiff {
			return a.CappedRunDiff > b.CappedRunDiff
		}
		if a.RunsAgainst != b.RunsAgainst {
			return a.RunsAgainst < b.RunsAgainst
		}
		return a.RunsScored > b.RunsScored
	})
	for i := range sorted {
		sorted[i].Reason, sorted[i].Symbol = ReasonMultiTeam, SymbolManual
	}
	return sorted
}

// findDominant returns the index of the team whose head-to-head percentage
// is strictly above 0.5 against every other member. An undefined
// percentage (the pair never met) disqualifies the candidate.
func findDominant(group []Standing, h2h headToHead) (int, bool) {
	for i := range group {
		beatAll := true
		for j := range group {
			if j == i {
				continue
			}
			pct, ok := h2h.Percentage(group[i].TeamID, group[j].TeamID)
			if !ok || pct <= 0.5 {
				beatAll = false
				break
			}
		}
		if beatAll {
			return i, true
		}
	}
	return 0, false
}

// findDominated mirrors findDominant for a team strictly below 0.5 against
// every other member.
func findDominated(group []Standing, h2h headToHead) (int, bool) {
	for i := range group {
		lostAll := true
		for j := range group {
			if j == i {
				continue
			}
			pct, ok := h2h.Percentage(group[i].TeamID, group[j].TeamID)
			if !ok || pct >= 0.5 {
				lostAll = false
				break
			}
		}
		if lostAll {
			return i, true
		}
	}
	return 0, false
}

func withoutIndex(group []Standing, i int) []Standing {
	rest := make([]Standing, 0, len(group)-1)
	rest = append(rest, group[:i]...)
	return append(rest, group[i+1:]...)
}
