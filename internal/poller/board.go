package poller

import "github.com/riskibarqy/usopen-scoreboard/internal/domain/match"

// Board is one day's grouped matches as served by the matches endpoint.
type Board struct {
	Date        string        `json:"date"`
	Gender      string        `json:"gender"`
	Live        []match.Match `json:"live"`
	Upcoming    []match.Match `json:"upcoming"`
	Completed   []match.Match `json:"completed"`
	LastUpdated string        `json:"lastUpdated"`
}

// MergeLive folds a fresh board into the one on display. Live entries already
// shown keep their metadata and take only the score-bearing fields from next;
// the other buckets are replaced so schedule changes come through.
func MergeLive(prev *Board, next Board) Board {
	if prev == nil {
		return next
	}

	byID := make(map[string]match.Match, len(prev.Live))
	for _, m := range prev.Live {
		byID[m.ID] = m
	}

	live := make([]match.Match, 0, len(next.Live))
	for _, m := range next.Live {
		old, ok := byID[m.ID]
		if !ok {
			live = append(live, m)
			continue
		}
		old.Sets = m.Sets
		old.CurrentGame = m.CurrentGame
		old.Status = m.Status
		live = append(live, old)
	}

	return Board{
		Date:        next.Date,
		Gender:      next.Gender,
		Live:        live,
		Upcoming:    next.Upcoming,
		Completed:   next.Completed,
		LastUpdated: next.LastUpdated,
	}
}
