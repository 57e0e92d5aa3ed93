package usecase

import (
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/scoreboard"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/id"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/timeutil"
)

// SkipReason explains why a competition did not become a match.
type SkipReason string

const (
	SkipOffDate   SkipReason = "off_date"
	SkipDuplicate SkipReason = "duplicate"
	SkipMalformed SkipReason = "malformed"
)

var SkipReasons = []SkipReason{SkipOffDate, SkipDuplicate, SkipMalformed}

const (
	defaultRound = "Round"
	defaultCourt = "Court TBD"
	unknownName  = "TBD"
)

// recordResult is the outcome of one competition: a match or a skip reason.
type recordResult struct {
	match  match.Match
	skip   SkipReason
	err    error
	compID string
}

func (r recordResult) ok() bool {
	return r.skip == ""
}

type normalizer struct {
	loc *time.Location
	ids id.Generator
	now func() time.Time
}

// competitionStart returns the raw start of a competition, falling back to the event date.
func competitionStart(event, comp scoreboard.Record) string {
	if raw, ok := comp.FirstString("startDate", "date"); ok {
		return raw
	}
	raw, _ := event.String("date")
	return raw
}

// evaluate applies the day filter and the per-call competition dedup before normalizing.
// A competition id is marked seen even when normalization fails.
func (n normalizer) evaluate(event, comp scoreboard.Record, date string, seen map[string]struct{}) recordResult {
	if !timeutil.SameDay(competitionStart(event, comp), date, n.loc) {
		return recordResult{skip: SkipOffDate}
	}

	compID, hasID := comp.ID("id")
	if hasID {
		if _, dup := seen[compID]; dup {
			return recordResult{skip: SkipDuplicate, compID: compID}
		}
		seen[compID] = struct{}{}
	}

	m, err := n.normalize(event, comp)
	if err != nil {
		return recordResult{skip: SkipMalformed, err: err, compID: compID}
	}
	return recordResult{match: m, compID: compID}
}

func (n normalizer) normalize(event, comp scoreboard.Record) (m match.Match, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Wrapf(ErrMalformedRecord, "normalize competition panicked: %v", rec)
		}
	}()

	if comp.IsEmpty() {
		return match.Match{}, errors.Wrap(ErrMalformedRecord, "competition is not an object")
	}

	competitors := comp.Records("competitors")
	var first, second scoreboard.Record
	if len(competitors) > 0 {
		first = competitors[0]
	}
	if len(competitors) > 1 {
		second = competitors[1]
	}

	startAt, ok := timeutil.ParseUpstream(competitionStart(event, comp))
	if !ok {
		startAt = n.now()
	}
	startAt = timeutil.InZone(startAt, n.loc)

	source := mapSourceStatus(comp)
	eventID, _ := event.ID("id")
	compID, _ := comp.ID("id")

	return match.Match{
		ID:           n.resolveID(event, comp),
		Round:        extractRound(comp),
		Court:        extractCourt(comp),
		StartTime:    timeutil.FormatISO(startAt),
		Status:       source.Display(),
		Players:      [2]match.Player{toPlayer(first), toPlayer(second)},
		Sets:         extractSets(first, second),
		StartAt:      startAt,
		SourceStatus: source,
		Ref:          match.Ref{EventID: eventID, CompetitionID: compID},
	}, nil
}

func (n normalizer) resolveID(event, comp scoreboard.Record) string {
	if v, ok := comp.ID("id"); ok {
		return v
	}
	if v, ok := event.ID("uid"); ok {
		return v
	}
	if v, ok := event.ID("id"); ok {
		return v
	}
	return n.ids.NewID()
}

func mapSourceStatus(comp scoreboard.Record) match.SourceStatus {
	name, _ := comp.String("status.type.name")
	switch strings.ToUpper(name) {
	case "STATUS_SCHEDULED":
		return match.SourceScheduled
	case "STATUS_IN_PROGRESS":
		return match.SourceInProgress
	case "STATUS_FINAL":
		return match.SourceFinal
	default:
		return match.SourceDelayed
	}
}

func extractRound(comp scoreboard.Record) string {
	if v, ok := comp.FirstString(
		"round.displayName",
		"round.name",
		"status.type.description",
		"status.type.detail",
	); ok {
		return v
	}
	return defaultRound
}

func extractCourt(comp scoreboard.Record) string {
	if v, ok := comp.FirstString("venue.fullName", "venue.shortName"); ok {
		return v
	}
	return defaultCourt
}

func toPlayer(c scoreboard.Record) match.Player {
	name, ok := c.FirstString("athlete.displayName", "team.displayName", "displayName")
	if !ok {
		name = unknownName
	}
	country, _ := c.FirstString("athlete.flag.alt", "athlete.country.code", "team.locationCode")
	return match.Player{
		Name:        name,
		Seed:        extractSeed(c),
		CountryCode: country,
		FlagEmoji:   match.FlagEmoji(country),
	}
}

// extractSeed takes the first populated seed field; if that value is not a
// positive integer the seed is absent.
func extractSeed(c scoreboard.Record) *int {
	for _, path := range []string{"seed", "athlete.seed", "team.seed"} {
		raw, ok := c.Lookup(path)
		if !ok || isZeroValue(raw) {
			continue
		}
		value, ok := scoreboard.ToNumber(raw)
		if !ok || value < 1 || value != math.Trunc(value) {
			return nil
		}
		seed := int(value)
		return &seed
	}
	return nil
}

func isZeroValue(raw any) bool {
	switch typed := raw.(type) {
	case string:
		return typed == ""
	case float64:
		return typed == 0
	case bool:
		return !typed
	default:
		return false
	}
}

func extractSets(first, second scoreboard.Record) []match.SetScore {
	linesA := first.Records("linescores")
	linesB := second.Records("linescores")
	count := max(len(linesA), len(linesB))

	sets := make([]match.SetScore, 0, count)
	for i := 0; i < count; i++ {
		a, okA := lineValue(linesA, i)
		b, okB := lineValue(linesB, i)
		if !okA && !okB {
			continue
		}
		sets = append(sets, match.SetScore{a, b})
	}
	return sets
}

// lineValue reads linescores[i].value; a missing entry or value counts as 0.
func lineValue(lines []scoreboard.Record, i int) (int, bool) {
	if i >= len(lines) {
		return 0, true
	}
	raw, ok := lines[i].Lookup("value")
	if !ok {
		return 0, true
	}
	if s, isString := raw.(string); isString && strings.TrimSpace(s) == "" {
		return 0, true
	}
	value, ok := scoreboard.ToNumber(raw)
	if !ok {
		return 0, false
	}
	return int(math.Round(value)), true
}
