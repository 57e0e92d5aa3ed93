package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/scoreboard"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/id"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/timeutil"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
)

// ScoreboardProvider returns one tour's scoreboard for a day. Failures come
// back as an empty scoreboard, never as an error.
type ScoreboardProvider interface {
	FetchScoreboard(ctx context.Context, tour scoreboard.Tour, date string) scoreboard.Scoreboard
}

// LivePointsProvider returns the in-game points of a live competition.
type LivePointsProvider interface {
	FetchCurrentGamePoints(ctx context.Context, ref match.Ref) (match.CurrentGame, bool)
}

type MatchMetrics interface {
	RecordsDropped(reason string, n int)
	MatchesNormalized(status string, n int)
	ObserveEnrichment(outcome string)
}

type noopMatchMetrics struct{}

func (noopMatchMetrics) RecordsDropped(string, int)    {}
func (noopMatchMetrics) MatchesNormalized(string, int) {}
func (noopMatchMetrics) ObserveEnrichment(string)      {}

const defaultEnrichmentWorkers = 16

type MatchServiceConfig struct {
	Tournament        Tournament
	EnrichmentWorkers int
}

// Report summarizes one normalization pass.
type Report struct {
	EventsFetched      int
	EventsUnique       int
	EventsInTournament int
	Competitions       int
	Normalized         int
	Skipped            map[SkipReason]int
	Delayed            int
	LiveEnriched       int
}

func (r Report) Dropped() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

type MatchService struct {
	feed    ScoreboardProvider
	points  LivePointsProvider
	cfg     MatchServiceConfig
	ids     id.Generator
	metrics MatchMetrics
	logger  *logging.Logger
	now     func() time.Time
}

func NewMatchService(
	feed ScoreboardProvider,
	points LivePointsProvider,
	cfg MatchServiceConfig,
	ids id.Generator,
	metrics MatchMetrics,
	logger *logging.Logger,
) *MatchService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if metrics == nil {
		metrics = noopMatchMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.EnrichmentWorkers <= 0 {
		cfg.EnrichmentWorkers = defaultEnrichmentWorkers
	}
	if cfg.Tournament.Location == nil {
		cfg.Tournament = DefaultTournament()
	}

	return &MatchService{
		feed:    feed,
		points:  points,
		cfg:     cfg,
		ids:     ids,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *MatchService) Tournament() Tournament {
	return s.cfg.Tournament
}

// GetMatchesByDate builds the grouped board for one draw on one home-zone day.
// Upstream failures degrade to fewer matches; only cancellation or a worker
// pool failure is returned as an error.
func (s *MatchService) GetMatchesByDate(ctx context.Context, gender match.Gender, date string) (match.Grouped, Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatchesByDate")
	defer span.End()

	report := Report{Skipped: make(map[SkipReason]int, len(SkipReasons))}

	drawSlug := gender.DrawSlug()
	if drawSlug == "" {
		return match.NewGrouped(), report, errors.Wrapf(ErrInvalidInput, "unknown gender %q", gender)
	}
	if !timeutil.IsCalendarDate(date) {
		return match.NewGrouped(), report, errors.Wrapf(ErrInvalidInput, "invalid date %q", date)
	}

	events := s.fetchEvents(ctx, date)
	report.EventsFetched = len(events)
	events = dedupeEvents(events)
	report.EventsUnique = len(events)

	norm := normalizer{loc: s.cfg.Tournament.Location, ids: s.ids, now: s.now}
	seen := make(map[string]struct{})
	matches := make([]match.Match, 0)

	for _, event := range events {
		if !s.cfg.Tournament.Includes(event) {
			continue
		}
		report.EventsInTournament++

		for _, grouping := range event.Records("groupings") {
			slug, _ := grouping.String("grouping.slug")
			if !strings.EqualFold(slug, drawSlug) {
				continue
			}
			for _, comp := range grouping.Records("competitions") {
				report.Competitions++
				result := norm.evaluate(event, comp, date, seen)
				if !result.ok() {
					report.Skipped[result.skip]++
					if result.err != nil {
						s.logger.WarnContext(ctx, "drop malformed competition",
							"competition_id", result.compID,
							"date", date,
							"error", result.err,
						)
					}
					continue
				}
				if result.match.SourceStatus == match.SourceDelayed {
					report.Delayed++
				}
				matches = append(matches, result.match)
			}
		}
	}
	report.Normalized = len(matches)

	if err := ctx.Err(); err != nil {
		return match.NewGrouped(), report, errors.Wrap(err, "normalize matches")
	}

	grouped := group(matches)
	enriched, err := s.enrichLive(ctx, grouped.Live)
	if err != nil {
		return match.NewGrouped(), report, err
	}
	report.LiveEnriched = enriched

	s.record(ctx, gender, date, grouped, report)
	span.SetAttributes(
		attribute.String("match.gender", string(gender)),
		attribute.String("match.date", date),
		attribute.Int("match.count", grouped.Len()),
		attribute.Int("match.dropped", report.Dropped()),
	)
	return grouped, report, nil
}

// fetchEvents fans out to every tour and concatenates events in tour order.
func (s *MatchService) fetchEvents(ctx context.Context, date string) []scoreboard.Record {
	boards := make([]scoreboard.Scoreboard, len(scoreboard.Tours))

	var wg conc.WaitGroup
	for i, tour := range scoreboard.Tours {
		wg.Go(func() {
			boards[i] = s.feed.FetchScoreboard(ctx, tour, date)
		})
	}
	if recovered := wg.WaitAndRecover(); recovered != nil {
		s.logger.ErrorContext(ctx, "scoreboard fetch panicked", "error", recovered.AsError())
	}

	total := 0
	for _, board := range boards {
		total += len(board.Events)
	}
	events := make([]scoreboard.Record, 0, total)
	for _, board := range boards {
		events = append(events, board.Events...)
	}
	return events
}

// dedupeEvents keys events by uid, else id. A later duplicate replaces the
// earlier one in place. Events with neither key are kept.
func dedupeEvents(events []scoreboard.Record) []scoreboard.Record {
	out := make([]scoreboard.Record, 0, len(events))
	index := make(map[string]int, len(events))
	for _, event := range events {
		key, ok := event.ID("uid")
		if !ok {
			key, ok = event.ID("id")
		}
		if !ok {
			out = append(out, event)
			continue
		}
		if i, seen := index[key]; seen {
			out[i] = event
			continue
		}
		index[key] = len(out)
		out = append(out, event)
	}
	return out
}

func group(matches []match.Match) match.Grouped {
	grouped := match.NewGrouped()
	for _, m := range matches {
		switch m.Status {
		case match.StatusLive:
			grouped.Live = append(grouped.Live, m)
		case match.StatusCompleted:
			grouped.Completed = append(grouped.Completed, m)
		default:
			grouped.Upcoming = append(grouped.Upcoming, m)
		}
	}

	sort.SliceStable(grouped.Live, func(i, j int) bool {
		return grouped.Live[i].StartAt.Before(grouped.Live[j].StartAt)
	})
	sort.SliceStable(grouped.Upcoming, func(i, j int) bool {
		return grouped.Upcoming[i].StartAt.Before(grouped.Upcoming[j].StartAt)
	})
	sort.SliceStable(grouped.Completed, func(i, j int) bool {
		return grouped.Completed[i].StartAt.After(grouped.Completed[j].StartAt)
	})
	return grouped
}

// enrichLive attaches current game points to live matches in place.
// A failed lookup leaves the match without points.
func (s *MatchService) enrichLive(ctx context.Context, live []match.Match) (int, error) {
	if len(live) == 0 || s.points == nil {
		return 0, nil
	}

	pool, err := ants.NewPool(min(s.cfg.EnrichmentWorkers, len(live)))
	if err != nil {
		return 0, errors.Wrap(err, "create enrichment pool")
	}
	defer pool.Release()

	var enriched atomic.Int32
	var workers sync.WaitGroup
	for i := range live {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			defer func() {
				if rec := recover(); rec != nil {
					s.metrics.ObserveEnrichment("panic")
					s.logger.ErrorContext(ctx, "live points lookup panicked", "match_id", live[i].ID, "panic", rec)
				}
			}()

			game, ok := s.points.FetchCurrentGamePoints(ctx, live[i].Ref)
			if !ok {
				s.metrics.ObserveEnrichment("miss")
				return
			}
			live[i].CurrentGame = &game
			enriched.Add(1)
			s.metrics.ObserveEnrichment("hit")
		}); err != nil {
			workers.Done()
			workers.Wait()
			return int(enriched.Load()), errors.Wrap(err, "submit enrichment task")
		}
	}

	workers.Wait()
	return int(enriched.Load()), nil
}

func (s *MatchService) record(ctx context.Context, gender match.Gender, date string, grouped match.Grouped, report Report) {
	s.metrics.MatchesNormalized(string(match.StatusLive), len(grouped.Live))
	s.metrics.MatchesNormalized(string(match.StatusUpcoming), len(grouped.Upcoming))
	s.metrics.MatchesNormalized(string(match.StatusCompleted), len(grouped.Completed))
	for _, reason := range SkipReasons {
		s.metrics.RecordsDropped(string(reason), report.Skipped[reason])
	}

	if report.Dropped() > 0 {
		s.logger.DebugContext(ctx, "competitions dropped during normalization",
			"gender", gender,
			"date", date,
			"off_date", report.Skipped[SkipOffDate],
			"duplicate", report.Skipped[SkipDuplicate],
			"malformed", report.Skipped[SkipMalformed],
		)
	}
	s.logger.DebugContext(ctx, "matches normalized",
		"gender", gender,
		"date", date,
		"events", report.EventsInTournament,
		"live", len(grouped.Live),
		"upcoming", len(grouped.Upcoming),
		"completed", len(grouped.Completed),
		"delayed", report.Delayed,
		"live_enriched", report.LiveEnriched,
	)
}
