package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/scoreboard"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/timeutil"
)

// Tournament scopes the feed to one event and fixes the home timezone used
// for every day comparison.
type Tournament struct {
	Name      string
	Slug      string
	Location  *time.Location
	StartDate string
	EndDate   string
}

func DefaultTournament() Tournament {
	loc, err := timeutil.LoadZone(timeutil.DefaultZone)
	if err != nil {
		loc = time.UTC
	}
	return Tournament{
		Name:      "US Open",
		Slug:      "usopen",
		Location:  loc,
		StartDate: "2025-08-25",
		EndDate:   "2025-09-07",
	}
}

// Includes reports whether the event's name, short name or league name
// contains the tournament name, ignoring case.
func (t Tournament) Includes(event scoreboard.Record) bool {
	needle := strings.ToLower(strings.TrimSpace(t.Name))
	if needle == "" {
		return true
	}
	for _, path := range []string{"name", "shortName", "league.name"} {
		value, ok := event.String(path)
		if ok && strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

func (t Tournament) Dates() ([]string, error) {
	return timeutil.DateRange(t.StartDate, t.EndDate)
}

// TournamentDay is one date picker entry. Upcoming marks today and later
// days, whose boards can still change.
type TournamentDay struct {
	Date     string `json:"date"`
	Label    string `json:"label"`
	Upcoming bool   `json:"upcoming"`
}

type TournamentInfo struct {
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Timezone  string          `json:"timezone"`
	Today     string          `json:"today"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	InSession bool            `json:"in_session"`
	Days      []TournamentDay `json:"days"`
}

type TournamentService struct {
	tournament Tournament
	now        func() time.Time
}

func NewTournamentService(tournament Tournament) *TournamentService {
	if tournament.Location == nil {
		tournament = DefaultTournament()
	}
	return &TournamentService{tournament: tournament, now: time.Now}
}

// Info describes the tournament window as the date picker needs it.
func (s *TournamentService) Info(ctx context.Context) (TournamentInfo, error) {
	_, span := startUsecaseSpan(ctx, "usecase.TournamentService.Info")
	defer span.End()

	dates, err := s.tournament.Dates()
	if err != nil {
		return TournamentInfo{}, errors.Wrap(ErrInvalidInput, err.Error())
	}

	loc := s.tournament.Location
	now := s.now()
	today := timeutil.CurrentDate(now, loc)
	days := make([]TournamentDay, 0, len(dates))
	for _, date := range dates {
		day, err := time.ParseInLocation(timeutil.DateLayout, date, loc)
		if err != nil {
			continue
		}
		days = append(days, TournamentDay{
			Date:     date,
			Label:    timeutil.FormatDate(day, loc),
			Upcoming: timeutil.IsTodayOrFuture(date, now, loc),
		})
	}

	return TournamentInfo{
		Name:      s.tournament.Name,
		Slug:      s.tournament.Slug,
		Timezone:  loc.String(),
		Today:     today,
		StartDate: s.tournament.StartDate,
		EndDate:   s.tournament.EndDate,
		InSession: today >= s.tournament.StartDate && today <= s.tournament.EndDate,
		Days:      days,
	}, nil
}
