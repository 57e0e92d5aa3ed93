package espn

import (
	"math"
	"sort"
	"strings"

	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/scoreboard"
)

// AdvantagePoints is the numeric stand-in for a player holding advantage.
const AdvantagePoints = 50

const maxScanDepth = 4

// competitorPaths are the places summary and core documents are known to
// carry the two competitors, tried before any structural scan.
var competitorPaths = []string{
	"competitors",
	"header.competitions.0.competitors",
	"competitions.0.competitors",
	"situation.competitors",
}

var pointFields = []string{"point", "points", "currentPoint", "gamePoints", "tennisPoint"}

// ExtractCurrentGameFor reads the points of one competition from a document
// that may describe several. A document that names other competitions but not
// this one yields nothing; an anonymous document falls back to
// ExtractCurrentGame.
func ExtractCurrentGameFor(payload map[string]any, competitionID string) (match.CurrentGame, bool) {
	if competitionID == "" {
		return ExtractCurrentGame(payload)
	}
	found, sawOther := findCompetition(payload, competitionID, 0)
	if !found.IsEmpty() {
		return pointsFromCompetitors(found.Records("competitors"))
	}
	if sawOther {
		return match.CurrentGame{}, false
	}
	return ExtractCurrentGame(payload)
}

// findCompetition walks objects in key order for one carrying both the
// competition id and a competitors array. sawOther reports whether any
// identified competition with a different id was passed.
func findCompetition(node any, competitionID string, depth int) (found scoreboard.Record, sawOther bool) {
	if depth > maxScanDepth {
		return scoreboard.Record{}, false
	}

	switch typed := node.(type) {
	case map[string]any:
		rec := scoreboard.Wrap(typed)
		if rec.Has("competitors") {
			if id, ok := rec.ID("id"); ok {
				if id == competitionID {
					return rec, false
				}
				sawOther = true
			}
		}
		keys := make([]string, 0, len(typed))
		for key, value := range typed {
			switch value.(type) {
			case map[string]any, []any:
				if key != "competitors" {
					keys = append(keys, key)
				}
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			rec, other := findCompetition(typed[key], competitionID, depth+1)
			if !rec.IsEmpty() {
				return rec, sawOther || other
			}
			sawOther = sawOther || other
		}
	case []any:
		for _, item := range typed {
			rec, other := findCompetition(item, competitionID, depth+1)
			if !rec.IsEmpty() {
				return rec, sawOther || other
			}
			sawOther = sawOther || other
		}
	}
	return scoreboard.Record{}, sawOther
}

// ExtractCurrentGame finds the in-game points of both competitors.
func ExtractCurrentGame(payload map[string]any) (match.CurrentGame, bool) {
	root := scoreboard.Wrap(payload)
	for _, path := range competitorPaths {
		if game, ok := pointsFromCompetitors(root.Records(path)); ok {
			return game, true
		}
	}
	return scanForPoints(payload, 0)
}

func pointsFromCompetitors(competitors []scoreboard.Record) (match.CurrentGame, bool) {
	if len(competitors) < 2 {
		return match.CurrentGame{}, false
	}
	a, okA := pointValue(competitors[0])
	b, okB := pointValue(competitors[1])
	if !okA || !okB {
		return match.CurrentGame{}, false
	}
	return match.CurrentGame{PointsA: a, PointsB: b}, true
}

// pointValue reads the first point field present on a competitor.
func pointValue(c scoreboard.Record) (int, bool) {
	for _, field := range pointFields {
		raw, ok := c.Lookup(field)
		if !ok {
			continue
		}
		return ParsePoint(raw)
	}
	return 0, false
}

// ParsePoint converts a game score such as 0, "15", "40" or "AD".
func ParsePoint(raw any) (int, bool) {
	if text, ok := raw.(string); ok {
		switch strings.TrimSpace(text) {
		case "AD", "Ad", "Adv", "ADV":
			return AdvantagePoints, true
		}
	}
	value, ok := scoreboard.ToNumber(raw)
	if !ok {
		return 0, false
	}
	return int(math.Round(value)), true
}

// scanForPoints walks nested objects in key order looking for a competitors
// array that yields both point values.
func scanForPoints(node any, depth int) (match.CurrentGame, bool) {
	if depth > maxScanDepth {
		return match.CurrentGame{}, false
	}

	switch typed := node.(type) {
	case map[string]any:
		if items, ok := typed["competitors"].([]any); ok {
			if game, ok := pointsFromCompetitors(toRecords(items)); ok {
				return game, true
			}
		}
		keys := make([]string, 0, len(typed))
		for key, value := range typed {
			switch value.(type) {
			case map[string]any, []any:
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			if game, ok := scanForPoints(typed[key], depth+1); ok {
				return game, true
			}
		}
	case []any:
		for _, item := range typed {
			if game, ok := scanForPoints(item, depth+1); ok {
				return game, true
			}
		}
	}
	return match.CurrentGame{}, false
}

func toRecords(items []any) []scoreboard.Record {
	out := make([]scoreboard.Record, 0, len(items))
	for _, item := range items {
		fields, _ := item.(map[string]any)
		out = append(out, scoreboard.Wrap(fields))
	}
	return out
}
