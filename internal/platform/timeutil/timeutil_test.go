package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadZone("")
	require.NoError(t, err)
	return loc
}

func TestParseUpstream_AcceptsFeedLayouts(t *testing.T) {
	t.Parallel()

	cases := map[string]time.Time{
		"2025-08-26T15:00Z":        time.Date(2025, 8, 26, 15, 0, 0, 0, time.UTC),
		"2025-08-26T15:00:30Z":     time.Date(2025, 8, 26, 15, 0, 30, 0, time.UTC),
		"2025-08-26T15:00:30.250Z": time.Date(2025, 8, 26, 15, 0, 30, 250_000_000, time.UTC),
		"2025-08-26T11:00-04:00":   time.Date(2025, 8, 26, 15, 0, 0, 0, time.UTC),
		"2025-08-26":               time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		got, ok := ParseUpstream(raw)
		if !ok {
			t.Fatalf("expected %q to parse", raw)
		}
		if !got.Equal(want) {
			t.Fatalf("parse %q: got=%s want=%s", raw, got, want)
		}
	}

	if _, ok := ParseUpstream("not a time"); ok {
		t.Fatalf("expected garbage to be rejected")
	}
	if _, ok := ParseUpstream(""); ok {
		t.Fatalf("expected empty value to be rejected")
	}
}

func TestSameDay_UsesHomeZoneNotUTC(t *testing.T) {
	t.Parallel()

	loc := eastern(t)

	// 23:30 UTC on Aug 27 is 19:30 in New York on Aug 27.
	assert.True(t, SameDay("2025-08-27T23:30Z", "2025-08-27", loc))
	// 02:30 UTC on Aug 27 is still Aug 26 in New York.
	assert.False(t, SameDay("2025-08-27T02:30Z", "2025-08-27", loc))
	assert.True(t, SameDay("2025-08-27T02:30Z", "2025-08-26", loc))
	assert.False(t, SameDay("", "2025-08-26", loc))
	assert.False(t, SameDay("2025-08-27T02:30Z", "", loc))
}

func TestDateRange(t *testing.T) {
	t.Parallel()

	dates, err := DateRange("2025-08-30", "2025-09-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-30", "2025-08-31", "2025-09-01", "2025-09-02"}, dates)

	_, err = DateRange("2025-09-02", "2025-08-30")
	assert.Error(t, err)

	_, err = DateRange("2025-13-01", "2025-09-02")
	assert.Error(t, err)
}

func TestCalendarValidation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDateString("2025-13-45"))
	assert.False(t, IsCalendarDate("2025-13-45"))
	assert.True(t, IsCalendarDate("2025-08-26"))
	assert.False(t, IsDateString("2025-8-26"))
	assert.False(t, IsDateString("20250826"))
}

func TestTodayHelpers(t *testing.T) {
	t.Parallel()

	loc := eastern(t)
	now := time.Date(2025, 8, 27, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-08-26", CurrentDate(now, loc))
	assert.True(t, IsToday("2025-08-26", now, loc))
	assert.False(t, IsToday("2025-08-27", now, loc))
	assert.True(t, IsTodayOrFuture("2025-08-27", now, loc))
	assert.False(t, IsTodayOrFuture("2025-08-25", now, loc))
	assert.False(t, IsTodayOrFuture("garbage", now, loc))
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	loc := eastern(t)
	instant := time.Date(2025, 8, 26, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, "2:30 PM", FormatTime(instant, loc))
	assert.Equal(t, "Tue, Aug 26", FormatDate(instant, loc))
	assert.Equal(t, "2025-08-26T14:30:00.000-04:00", FormatISO(InZone(instant, loc)))
	assert.Equal(t, "20250826", CompactDate("2025-08-26"))
}

func TestBucket(t *testing.T) {
	t.Parallel()

	base := time.Unix(1_000_000, 0)
	assert.Equal(t, Bucket(base, 5*time.Second), Bucket(base.Add(4*time.Second), 5*time.Second))
	assert.NotEqual(t, Bucket(base, 5*time.Second), Bucket(base.Add(5*time.Second), 5*time.Second))

	require.NotPanics(t, func() { Bucket(base, 500*time.Microsecond) })
	assert.Equal(t, int64(2_000_000_000), Bucket(base, 500*time.Microsecond))
	assert.Equal(t, base.Unix(), Bucket(base, 0))
}
