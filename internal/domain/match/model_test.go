package match

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagEmoji(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"US":  "🇺🇸",
		"es":  "🇪🇸",
		"De":  "🇩🇪",
		"":    "",
		"USA": "",
		"U":   "",
		"1A":  "",
		"É":   "",
		"  ":  "",
	}
	for in, want := range cases {
		if got := FlagEmoji(in); got != want {
			t.Fatalf("FlagEmoji(%q): got=%q want=%q", in, got, want)
		}
	}
}

func TestSourceStatus_Display(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StatusLive, SourceInProgress.Display())
	assert.Equal(t, StatusCompleted, SourceFinal.Display())
	assert.Equal(t, StatusUpcoming, SourceScheduled.Display())
	assert.Equal(t, StatusUpcoming, SourceDelayed.Display())
}

func TestGender(t *testing.T) {
	t.Parallel()

	g, ok := ParseGender("women")
	require.True(t, ok)
	assert.Equal(t, "womens-singles", g.DrawSlug())

	_, ok = ParseGender("other")
	assert.False(t, ok)
	assert.Equal(t, "", Gender("other").DrawSlug())
}

func TestMatch_JSONShape(t *testing.T) {
	t.Parallel()

	seed := 4
	m := Match{
		ID:        "172737",
		Round:     "Round 1",
		Court:     "Arthur Ashe Stadium",
		StartTime: "2025-08-26T11:00:00.000-04:00",
		Status:    StatusLive,
		Players: [2]Player{
			{Name: "Alexander Zverev", Seed: &seed, CountryCode: "DE", FlagEmoji: FlagEmoji("DE")},
			{Name: "TBD"},
		},
		Sets:        []SetScore{{6, 2}, {6, 7}},
		CurrentGame: &CurrentGame{PointsA: 30, PointsB: 15},
		Ref:         Ref{EventID: "e1", CompetitionID: "172737"},
	}

	raw, err := sonic.Marshal(m)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &decoded))
	assert.Equal(t, []any{[]any{6.0, 2.0}, []any{6.0, 7.0}}, decoded["sets"])
	assert.Equal(t, map[string]any{"p1Points": 30.0, "p2Points": 15.0}, decoded["currentGame"])
	assert.NotContains(t, decoded, "Ref")
	assert.NotContains(t, decoded, "StartAt")

	players := decoded["players"].([]any)
	first := players[0].(map[string]any)
	second := players[1].(map[string]any)
	assert.Equal(t, 4.0, first["seed"])
	assert.NotContains(t, second, "seed")
	assert.Equal(t, "", second["countryCode"])

	bare, err := sonic.Marshal(Match{ID: "x"})
	require.NoError(t, err)
	var bareDecoded map[string]any
	require.NoError(t, sonic.Unmarshal(bare, &bareDecoded))
	assert.Equal(t, []any{}, bareDecoded["sets"])
	assert.NotContains(t, bareDecoded, "currentGame")
}

func TestRef_CacheKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "lp:e1:c1", Ref{EventID: "e1", CompetitionID: "c1"}.CacheKey())
}
