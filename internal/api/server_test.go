package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"

	"github.com/ademuri/streaming-history-tools/internal/session"
	"github.com/ademuri/streaming-history-tools/internal/stats"
)

const export = `[
	{"ts":"2024-01-01T10:00:00Z","master_metadata_track_name":"A","master_metadata_album_artist_name":"X","master_metadata_album_album_name":"Alpha","spotify_track_uri":"spotify:track:a","ms_played":40000,"shuffle":true},
	{"ts":"2024-01-01T11:00:00Z","master_metadata_track_name":"A","master_metadata_album_artist_name":"X","master_metadata_album_album_name":"Alpha","spotify_track_uri":"spotify:track:a","ms_played":200000},
	{"ts":"2023-06-01T11:00:00Z","master_metadata_track_name":"B","master_metadata_album_artist_name":"Y","ms_played":1000,"skipped":true},
	{"ts":"2024-02-01T08:00:00Z","episode_show_name":"Show","episode_name":"Ep 1","ms_played":600000}
]`

func newTestServer(t *testing.T, cfg Config, compute session.ComputeFunc) (*httptest.Server, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "alice")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) error: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Streaming_History_Audio_2024.json"), []byte(export), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "not-a-dir"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg.DataRoot = root
	srv := httptest.NewServer(New(cfg, session.New(compute)).Router())
	t.Cleanup(srv.Close)
	return srv, root
}

func get(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s error: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decoding GET %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, nil)

	var body map[string]string
	if status := get(t, srv.URL+"/api/health", &body); status != http.StatusOK {
		t.Fatalf("GET /api/health status = %d, want 200", status)
	}
	if body["status"] != "ok" {
		t.Errorf("health body = %v", body)
	}
}

func TestGeneralStats(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, nil)

	var got stats.GeneralStats
	if status := get(t, srv.URL+"/api/sessions/alice/general-stats", &got); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if got.TotalEntries != 3 || got.TotalStreams != 2 || got.TotalSkippedTracks != 1 {
		t.Errorf("general stats = %+v", got)
	}
	if got.TotalArtistRevenue != "0.01" {
		t.Errorf("TotalArtistRevenue = %q, want 0.01", got.TotalArtistRevenue)
	}
	if got.FirstTrackEver.Track != "B" {
		t.Errorf("FirstTrackEver = %+v, want track B", got.FirstTrackEver)
	}
}

func TestTopStatsAndCalendars(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, nil)

	var top stats.TopStats
	if status := get(t, srv.URL+"/api/sessions/alice/top-stats", &top); status != http.StatusOK {
		t.Fatalf("top-stats status = %d, want 200", status)
	}
	if len(top.Tracks) == 0 || top.Tracks[0].Track != "A" || top.Tracks[0].StreamCount != 2 {
		t.Errorf("top tracks = %+v", top.Tracks)
	}
	if len(top.Podcasts) != 1 || top.Podcasts[0].Name != "Show" {
		t.Errorf("top podcasts = %+v", top.Podcasts)
	}

	var days []stats.DailyStats
	if status := get(t, srv.URL+"/api/sessions/alice/top-days?limit=1", &days); status != http.StatusOK {
		t.Fatalf("top-days status = %d, want 200", status)
	}
	if len(days) != 1 || days[0].Date != "February 1, 2024" {
		t.Errorf("top days = %+v, want February 1, 2024 first", days)
	}

	var years []stats.YearlyStats
	if status := get(t, srv.URL+"/api/sessions/alice/top-years", &years); status != http.StatusOK {
		t.Fatalf("top-years status = %d, want 200", status)
	}
	if len(years) != 1 || years[0].Year != "2024" || years[0].UniqueStreams != 1 || years[0].PodcastPlays != 1 {
		t.Errorf("top years = %+v", years)
	}

	var all map[string]json.RawMessage
	if status := get(t, srv.URL+"/api/sessions/alice/all-stats", &all); status != http.StatusOK {
		t.Fatalf("all-stats status = %d, want 200", status)
	}
	for _, key := range []string{"topStats", "generalStats", "topDays", "topYears", "run"} {
		if _, ok := all[key]; !ok {
			t.Errorf("all-stats is missing %q", key)
		}
	}
}

func TestSessionErrors(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, nil)

	tests := []struct {
		path string
		want int
	}{
		{"/api/sessions/bob/top-stats", http.StatusNotFound},
		{"/api/sessions/not-a-dir/top-stats", http.StatusNotFound},
		{"/api/sessions/.hidden/top-stats", http.StatusBadRequest},
		{"/api/sessions/alice/top-days?limit=-1", http.StatusBadRequest},
		{"/api/sessions/alice/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		if status := get(t, srv.URL+tt.path, nil); status != tt.want {
			t.Errorf("GET %s status = %d, want %d", tt.path, status, tt.want)
		}
	}
}

func TestSessionIsComputedOnce(t *testing.T) {
	var calls atomic.Int32
	srv, _ := newTestServer(t, Config{}, func(folder string) (*stats.Bundle, error) {
		calls.Add(1)
		return stats.Compute(folder)
	})

	for _, endpoint := range []string{"top-stats", "general-stats", "top-days", "top-years"} {
		if status := get(t, srv.URL+"/api/sessions/alice/"+endpoint, nil); status != http.StatusOK {
			t.Fatalf("GET %s status = %d", endpoint, status)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("computed %d times, want 1", calls.Load())
	}
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, Config{RateLimit: 0.001, Burst: 1}, nil)

	if status := get(t, srv.URL+"/api/sessions/alice/general-stats", nil); status != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", status)
	}
	if status := get(t, srv.URL+"/api/sessions/alice/general-stats", nil); status != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", status)
	}
	// Health checks are not limited.
	if status := get(t, srv.URL+"/api/health", nil); status != http.StatusOK {
		t.Errorf("health status = %d, want 200", status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, nil)
	get(t, srv.URL+"/api/health", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading /metrics: %v", err)
	}
	if !strings.Contains(string(body), "api_requests_total") {
		t.Errorf("/metrics does not expose api_requests_total")
	}
}
