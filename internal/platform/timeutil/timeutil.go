// Package timeutil holds the timezone and calendar helpers used to decide which
// day a match belongs to. Every function is pure; callers pass "now" explicitly.
package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	CompactLayout = "20060102"
	ISOLayout     = "2006-01-02T15:04:05.000Z07:00"

	DefaultZone = "America/New_York"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// upstream feeds mix second and minute precision, with and without fractions.
var upstreamLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// LoadZone resolves an IANA zone name, defaulting to the tournament's home zone.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// ParseUpstream parses a feed timestamp. Values without an offset are read as UTC.
func ParseUpstream(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range upstreamLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func InZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc)
}

func DayString(t time.Time, loc *time.Location) string {
	return InZone(t, loc).Format(DateLayout)
}

// SameDay reports whether the upstream timestamp falls on date in loc.
// The comparison is on the converted civil day, never on the UTC day.
func SameDay(raw, date string, loc *time.Location) bool {
	if strings.TrimSpace(date) == "" {
		return false
	}
	parsed, ok := ParseUpstream(raw)
	if !ok {
		return false
	}
	return DayString(parsed, loc) == date
}

func IsDateString(v string) bool {
	return datePattern.MatchString(v)
}

// IsCalendarDate reports whether a pattern-valid date also names a real day.
func IsCalendarDate(v string) bool {
	if !IsDateString(v) {
		return false
	}
	_, err := time.Parse(DateLayout, v)
	return err == nil
}

func CompactDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

// DateRange enumerates every calendar day from start to end inclusive.
func DateRange(start, end string) ([]string, error) {
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("parse start date %q: %w", start, err)
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("parse end date %q: %w", end, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("end date %s is before start date %s", end, start)
	}

	out := make([]string, 0, int(to.Sub(from).Hours()/24)+1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		out = append(out, day.Format(DateLayout))
	}
	return out, nil
}

func CurrentDate(now time.Time, loc *time.Location) string {
	return DayString(now, loc)
}

func IsToday(date string, now time.Time, loc *time.Location) bool {
	return date == CurrentDate(now, loc)
}

// IsTodayOrFuture compares civil days in loc; unparseable dates are never in the future.
func IsTodayOrFuture(date string, now time.Time, loc *time.Location) bool {
	if !IsCalendarDate(date) {
		return false
	}
	return date >= CurrentDate(now, loc)
}

func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// FormatTime renders a clock time such as "2:30 PM".
func FormatTime(t time.Time, loc *time.Location) string {
	return InZone(t, loc).Format("3:04 PM")
}

// FormatDate renders a short day label such as "Mon, Aug 26".
func FormatDate(t time.Time, loc *time.Location) string {
	return InZone(t, loc).Format("Mon, Jan 2")
}

// Bucket returns the index of the fixed window containing now.
func Bucket(now time.Time, window time.Duration) int64 {
	if window <= 0 {
		return now.Unix()
	}
	if window < time.Millisecond {
		return now.UnixNano() / window.Nanoseconds()
	}
	return now.UnixMilli() / window.Milliseconds()
}
