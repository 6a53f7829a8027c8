package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/2beens/fitassist/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeGeminiServer(t *testing.T, answer string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.NotEmpty(t, req.Contents[0].Parts)

		resp := geminiResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content geminiContent `json:"content"`
		}{
			Content: geminiContent{Parts: []geminiPart{{Text: answer}}},
		})
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestApi_Ask(t *testing.T) {
	var serverHits atomic.Int32
	server := newFakeGeminiServer(t, "drink more water", &serverHits)
	defer server.Close()

	metricsManager := metrics.NewTestManager()
	api := NewApi(server.URL, "gemini-1.5-flash", "test-api-key", server.Client(), metricsManager)

	answer, err := api.Ask(context.Background(), "hydration tips?")
	require.NoError(t, err)
	assert.Equal(t, "drink more water", answer)
	assert.Equal(t, int32(1), serverHits.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterCoachPrompts))
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.CounterCoachCacheHits))
}

func TestApi_Ask_CacheHit(t *testing.T) {
	var serverHits atomic.Int32
	server := newFakeGeminiServer(t, "rest between sets", &serverHits)
	defer server.Close()

	metricsManager := metrics.NewTestManager()
	api := NewApi(server.URL, "gemini-1.5-flash", "test-api-key", server.Client(), metricsManager)

	for range 3 {
		answer, err := api.Ask(context.Background(), "how long to rest?")
		require.NoError(t, err)
		assert.Equal(t, "rest between sets", answer)
	}

	// only the first call reaches the api, the rest come from cache
	assert.Equal(t, int32(1), serverHits.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterCoachPrompts))
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterCoachCacheHits))

	// a different prompt misses the cache
	_, err := api.Ask(context.Background(), "how long to sleep?")
	require.NoError(t, err)
	assert.Equal(t, int32(2), serverHits.Load())
}

func TestApi_Ask_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	api := NewApi(server.URL, "gemini-1.5-flash", "test-api-key", server.Client(), metrics.NewTestManager())

	_, err := api.Ask(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestApi_Ask_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates": []}`)
	}))
	defer server.Close()

	api := NewApi(server.URL, "gemini-1.5-flash", "test-api-key", server.Client(), metrics.NewTestManager())

	_, err := api.Ask(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestApi_Ask_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	api := NewApi(server.URL, "gemini-1.5-flash", "test-api-key", http.DefaultClient, metrics.NewTestManager())

	_, err := api.Ask(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}
