package match

import (
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// Gender selects a singles draw.
type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
)

func ParseGender(v string) (Gender, bool) {
	switch Gender(v) {
	case GenderMen, GenderWomen:
		return Gender(v), true
	default:
		return "", false
	}
}

// DrawSlug is the upstream grouping slug of the gender's singles draw.
func (g Gender) DrawSlug() string {
	switch g {
	case GenderMen:
		return "mens-singles"
	case GenderWomen:
		return "womens-singles"
	default:
		return ""
	}
}

// SourceStatus is the feed status collapsed to the four values the service understands.
type SourceStatus string

const (
	SourceScheduled  SourceStatus = "scheduled"
	SourceInProgress SourceStatus = "in_progress"
	SourceFinal      SourceStatus = "final"
	SourceDelayed    SourceStatus = "delayed"
)

// Status is the display bucket.
type Status string

const (
	StatusLive      Status = "live"
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
)

// Display maps a source status onto a bucket. Delayed and scheduled both
// land in upcoming.
func (s SourceStatus) Display() Status {
	switch s {
	case SourceInProgress:
		return StatusLive
	case SourceFinal:
		return StatusCompleted
	default:
		return StatusUpcoming
	}
}

type Player struct {
	Name        string `json:"name"`
	Seed        *int   `json:"seed,omitempty"`
	CountryCode string `json:"countryCode"`
	FlagEmoji   string `json:"flagEmoji"`
}

// SetScore is one set as (games for player A, games for player B).
// It encodes as a two element JSON array.
type SetScore [2]int

type CurrentGame struct {
	PointsA int `json:"p1Points"`
	PointsB int `json:"p2Points"`
}

// Ref identifies a competition for secondary lookups.
type Ref struct {
	EventID       string
	CompetitionID string
}

func (r Ref) CacheKey() string {
	return "lp:" + r.EventID + ":" + r.CompetitionID
}

// Match is the UI-facing representation of one singles match.
type Match struct {
	ID          string       `json:"id"`
	Round       string       `json:"round"`
	Court       string       `json:"court"`
	StartTime   string       `json:"startTime"`
	Status      Status       `json:"status"`
	Players     [2]Player    `json:"players"`
	Sets        []SetScore   `json:"sets"`
	CurrentGame *CurrentGame `json:"currentGame,omitempty"`

	StartAt      time.Time    `json:"-"`
	SourceStatus SourceStatus `json:"-"`
	Ref          Ref          `json:"-"`
}

// Grouped is the three-way partition returned to clients. Buckets are never nil.
type Grouped struct {
	Live      []Match `json:"live"`
	Upcoming  []Match `json:"upcoming"`
	Completed []Match `json:"completed"`
}

func NewGrouped() Grouped {
	return Grouped{
		Live:      []Match{},
		Upcoming:  []Match{},
		Completed: []Match{},
	}
}

func (g Grouped) Len() int {
	return len(g.Live) + len(g.Upcoming) + len(g.Completed)
}

func (s SetScore) String() string {
	return strconv.Itoa(s[0]) + "-" + strconv.Itoa(s[1])
}

// MarshalJSON keeps sets as an empty array instead of null.
func (m Match) MarshalJSON() ([]byte, error) {
	type alias Match
	out := alias(m)
	if out.Sets == nil {
		out.Sets = []SetScore{}
	}
	return sonic.Marshal(out)
}
