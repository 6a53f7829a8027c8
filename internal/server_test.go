package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/fitassist/internal/auth"
	"github.com/2beens/fitassist/internal/config"
	"github.com/2beens/fitassist/internal/telemetry/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	// redis client is never dialed in these tests, routes under
	// rate limiting are not exercised
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	t.Cleanup(func() {
		require.NoError(t, rdb.Close())
	})

	return &Server{
		config: &config.Config{
			LoginRateLimitAllowedPerMin: 5,
			CoachRateLimitAllowedPerMin: 5,
		},
		versionInfo:    "test-version",
		redisClient:    rdb,
		authService:    auth.NewService(auth.DefaultTTL, rdb),
		loginChecker:   auth.NewLoginChecker(auth.DefaultTTL, rdb),
		metricsManager: metrics.NewTestManager(),
	}
}

func TestServer_routerSetup_publicRoutes(t *testing.T) {
	server := newTestServer(t)
	router, err := server.routerSetup()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "I'm OK, thanks ;)", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/version", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-version", rr.Body.String())
}

func TestServer_routerSetup_protectedRoutesRequireToken(t *testing.T) {
	server := newTestServer(t)
	router, err := server.routerSetup()
	require.NoError(t, err)

	for _, path := range []struct {
		method string
		path   string
	}{
		{"GET", "/profile"},
		{"PUT", "/profile"},
		{"GET", "/profile/summary"},
		{"POST", "/workout/plan"},
		{"GET", "/workout/plans/page/1/size/10"},
		{"POST", "/meal/plan"},
		{"POST", "/progress"},
		{"GET", "/progress/projection"},
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(path.method, path.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", path.method, path.path)
	}
}

func TestServer_routerSetup_bodyfatIsPublic(t *testing.T) {
	server := newTestServer(t)
	router, err := server.routerSetup()
	require.NoError(t, err)

	body := `{"sex":"male","heightCm":180,"neckCm":38,"waistCm":85}`
	req := httptest.NewRequest("POST", "/bodyfat/estimate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	// no token needed
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"percent"`)
}

func TestServer_routerSetup_unknownPath(t *testing.T) {
	server := newTestServer(t)
	router, err := server.routerSetup()
	require.NoError(t, err)

	// unknown paths sit behind the auth check like everything else
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/nope", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
