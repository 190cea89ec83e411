package league

import (
	"fmt"
	"sort"
)

// Streak reports the team's current run of consecutive wins or losses as
// "3 W" or "1 L", counted from the most recent completed game backwards.
// The run type comes from that game: a win starts a W run, anything else
// an L run, and the first game that doesn't extend the run ends the count,
// so a tie up top reads "0 L". No completed games reads "0 -".
func Streak(games []Game, teamID int) string {
	played := make([]Game, 0, len(games))
	for i := range games {
		if games[i].Completed() && games[i].Involves(teamID) {
			played = append(played, games[i])
		}
	}
	if len(played) == 0 {
		return "0 -"
	}

	sort.SliceStable(played, func(i, j int) bool {
		return played[i].StartsAt.After(played[j].StartsAt)
	})

	kind := "L"
	if own, opp := played[0].ScoreFor(teamID); own > opp {
		kind = "W"
	}

	count := 0
	for i := range played {
		own, opp := played[i].ScoreFor(teamID)
		if (own > opp && kind == "W") || (own < opp && kind == "L") {
			count++
			continue
		}
		break
	}
	return fmt.Sprintf("%d %s", count, kind)
}
