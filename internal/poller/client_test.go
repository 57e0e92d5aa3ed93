package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchBoard(t *testing.T) {
	var gotPath, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCache = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"date":"2025-08-28","gender":"men","live":[{"id":"9","round":"Round 2","court":"Court 5","startTime":"2025-08-28T11:00:00.000-04:00","status":"live","players":[{"name":"A","countryCode":"USA","flagEmoji":""},{"name":"B","countryCode":"ESP","flagEmoji":""}],"sets":[[6,3],[2,1]],"currentGame":{"p1Points":30,"p2Points":50}}],"upcoming":[],"completed":[],"lastUpdated":"2025-08-28T15:00:00.000Z"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL + "/"})
	board, err := client.FetchBoard(context.Background(), match.GenderMen, "2025-08-28")
	require.NoError(t, err)

	assert.Equal(t, "/api/usopen/men/2025-08-28", gotPath)
	assert.Equal(t, "no-store", gotCache)
	require.Len(t, board.Live, 1)
	assert.Equal(t, "9", board.Live[0].ID)
	assert.Equal(t, []match.SetScore{{6, 3}, {2, 1}}, board.Live[0].Sets)
	assert.Equal(t, &match.CurrentGame{PointsA: 30, PointsB: 50}, board.Live[0].CurrentGame)
	assert.Empty(t, board.Upcoming)
}

func TestClient_FetchBoardErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Date must be a valid calendar date"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := client.FetchBoard(context.Background(), match.GenderMen, "2025-02-30")

	require.ErrorIs(t, err, ErrBoardUnavailable)
	assert.Contains(t, err.Error(), "status=400")
	assert.Contains(t, err.Error(), "valid calendar date")
}

func TestClient_FetchBoardCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1"}).FetchBoard(ctx, match.GenderMen, "2025-08-28")
	require.ErrorIs(t, err, context.Canceled)
}
