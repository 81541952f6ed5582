package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mirrorcast/internal/metadata"
	"mirrorcast/internal/playback"
	"mirrorcast/internal/ratelimit"
)

// stubResolver returns a canned record per ID; unknown IDs degrade to the
// synthetic fallback like the real resolver.
type stubResolver struct {
	records map[string]metadata.Video
}

func (s *stubResolver) Resolve(ctx context.Context, id string) metadata.Video {
	if v, ok := s.records[id]; ok {
		return v
	}
	return metadata.Fallback(id)
}

func newTestServer(t *testing.T, resolver Resolver) (*httptest.Server, *playback.Relay, *ratelimit.Limiter) {
	t.Helper()
	if resolver == nil {
		resolver = &stubResolver{}
	}
	relay := playback.NewRelay(
		playback.CaptionState{Lang: "en"},
		playback.QualityState{Target: "hd1080", Floor: "large", Ceiling: "hd2160"},
		nil,
	)
	limiter := ratelimit.New(ratelimit.Config{Max: 1000, Window: time.Minute})
	t.Cleanup(limiter.Close)

	srv := NewServer(relay, resolver, limiter, nil, StatusConfig{RateLimitMax: 1000, RateLimitWindowSeconds: 60})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, relay, limiter
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestPlayEndpoint(t *testing.T) {
	ts, relay, _ := newTestServer(t, nil)

	resp, out := postJSON(t, ts.URL+"/api/play", map[string]string{
		"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["ok"])
	require.Equal(t, "embedded", out["mode"])
	require.Equal(t, "dQw4w9WgXcQ", out["videoId"])

	state := relay.Status()
	require.True(t, state.Playing)
	require.NotNil(t, state.LastVideoID)
}

func TestPlayEndpointInvalidURL(t *testing.T) {
	ts, relay, _ := newTestServer(t, nil)

	resp, out := postJSON(t, ts.URL+"/api/play", map[string]string{"url": "not a url"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, false, out["ok"])
	require.NotEmpty(t, out["error"])
	require.False(t, relay.Status().Playing)
}

func TestStopEndpoint(t *testing.T) {
	ts, relay, _ := newTestServer(t, nil)
	relay.Play("dQw4w9WgXcQ")

	resp, out := postJSON(t, ts.URL+"/api/stop", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["ok"])
	require.False(t, relay.Status().Playing)
}

func TestControlEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t, nil)

	resp, out := postJSON(t, ts.URL+"/api/control", map[string]any{"action": "rewind"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(10), out["seconds"])
	require.Equal(t, "rewind", out["action"])

	resp, out = postJSON(t, ts.URL+"/api/control", map[string]any{"action": "forward", "seconds": 30})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(30), out["seconds"])

	resp, _ = postJSON(t, ts.URL+"/api/control", map[string]any{"action": "teleport"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postJSON(t, ts.URL+"/api/control", map[string]any{"action": "rewind", "seconds": -5})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOptionsEndpoint(t *testing.T) {
	ts, relay, _ := newTestServer(t, nil)

	resp, out := postJSON(t, ts.URL+"/api/options", map[string]any{
		"quality": map[string]any{"target": "1080p"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["updated"])

	state := relay.Status()
	require.Equal(t, "1080p", state.Quality.Target)
	require.Equal(t, "large", state.Quality.Floor, "untouched fields keep defaults")
	require.Equal(t, "en", state.Caption.Lang)

	// Re-applying the same value is not an update.
	_, out = postJSON(t, ts.URL+"/api/options", map[string]any{
		"quality": map[string]any{"target": "1080p"},
	})
	require.Equal(t, false, out["updated"])
}

func TestStatusEndpoint(t *testing.T) {
	ts, relay, _ := newTestServer(t, nil)
	relay.Play("dQw4w9WgXcQ")

	resp, out := getJSON(t, ts.URL+"/api/status")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["ok"])
	require.NotNil(t, out["state"])
	require.NotNil(t, out["config"])
	require.NotZero(t, out["timestamp"])

	state := out["state"].(map[string]any)
	require.Equal(t, true, state["playing"])
}

func TestVideoInfoEndpoint(t *testing.T) {
	resolver := &stubResolver{records: map[string]metadata.Video{
		"dQw4w9WgXcQ": {Title: "Never Gonna Give You Up", Source: metadata.SourceOembed},
	}}
	ts, _, _ := newTestServer(t, resolver)

	resp, out := postJSON(t, ts.URL+"/api/video-info", map[string]string{"videoId": "dQw4w9WgXcQ"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := out["data"].(map[string]any)
	require.Equal(t, "Never Gonna Give You Up", data["title"])

	// Unknown video: all sources failed, synthetic record rides along.
	resp, out = postJSON(t, ts.URL+"/api/video-info", map[string]string{"videoId": "aaaaaaaaaaa"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, false, out["ok"])
	fallback := out["fallback"].(map[string]any)
	require.Equal(t, "YouTube Video", fallback["title"])

	// Malformed reference is a client error, not a resolver failure.
	resp, _ = postJSON(t, ts.URL+"/api/video-info", map[string]string{"videoId": "nope"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOverlayEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t, nil)

	resp, out := postJSON(t, ts.URL+"/api/overlay", map[string]string{"action": "fullscreen"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["ok"])

	resp, _ = postJSON(t, ts.URL+"/api/overlay", map[string]string{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t, nil)

	resp, out := getJSON(t, ts.URL+"/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", out["status"])
	require.NotNil(t, out["uptime"])
}

func TestRateLimitedRequest(t *testing.T) {
	relay := playback.NewRelay(playback.CaptionState{}, playback.QualityState{}, nil)
	limiter := ratelimit.New(ratelimit.Config{Max: 2, Window: time.Minute})
	defer limiter.Close()
	srv := NewServer(relay, &stubResolver{}, limiter, nil, StatusConfig{})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	for i := 0; i < 2; i++ {
		resp, _ := getJSON(t, ts.URL+"/api/status")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, out := getJSON(t, ts.URL+"/api/status")
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, false, out["ok"])
	require.NotZero(t, out["retryAfter"])
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}
