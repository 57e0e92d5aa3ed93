package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/timeutil"
)

const tournamentEnvPrefix = "TOURNAMENT_"

// Tournament names the event the feed is filtered to and its home timezone.
type Tournament struct {
	Name      string `koanf:"name"`
	Slug      string `koanf:"slug"`
	Timezone  string `koanf:"timezone"`
	StartDate string `koanf:"start_date"`
	EndDate   string `koanf:"end_date"`
}

func DefaultTournament() Tournament {
	return Tournament{
		Name:      "US Open",
		Slug:      "usopen",
		Timezone:  timeutil.DefaultZone,
		StartDate: "2025-08-25",
		EndDate:   "2025-09-07",
	}
}

// LoadTournament layers defaults, the optional YAML file at path and
// TOURNAMENT_* env vars, in that order of precedence.
func LoadTournament(path string) (Tournament, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Tournament{}, fmt.Errorf("load tournament config %q: %w", path, err)
		}
	}

	envProvider := env.Provider(tournamentEnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(tournamentEnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Tournament{}, fmt.Errorf("load tournament env: %w", err)
	}

	out := DefaultTournament()
	if err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Tournament{}, fmt.Errorf("decode tournament config: %w", err)
	}
	out.Name = strings.TrimSpace(out.Name)
	out.Slug = strings.TrimSpace(out.Slug)
	out.Timezone = strings.TrimSpace(out.Timezone)

	if err := out.Validate(); err != nil {
		return Tournament{}, err
	}
	return out, nil
}

func (t Tournament) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tournament name must not be empty")
	}
	if _, err := timeutil.LoadZone(t.Timezone); err != nil {
		return fmt.Errorf("tournament timezone: %w", err)
	}
	if !timeutil.IsCalendarDate(t.StartDate) {
		return fmt.Errorf("tournament start_date %q is not a calendar date", t.StartDate)
	}
	if !timeutil.IsCalendarDate(t.EndDate) {
		return fmt.Errorf("tournament end_date %q is not a calendar date", t.EndDate)
	}
	if t.EndDate < t.StartDate {
		return fmt.Errorf("tournament end_date %s is before start_date %s", t.EndDate, t.StartDate)
	}
	return nil
}
