package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/fitassist/internal/telemetry/metrics"
	"github.com/2beens/fitassist/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrServiceUnavailable = errors.New("coach service unavailable")

const (
	oneHour             = 60 * 60
	responseCacheExpire = oneHour * 1 // default expire in hours
)

type Api struct {
	geminiApiUrl   string // https://generativelanguage.googleapis.com
	geminiModel    string // e.g. gemini-1.5-flash
	geminiApiKey   string
	httpClient     *http.Client
	cache          *freecache.Cache
	metricsManager *metrics.Manager
}

func NewApi(
	geminiApiUrl string,
	geminiModel string,
	geminiApiKey string,
	httpClient *http.Client,
	metricsManager *metrics.Manager,
) *Api {
	megabyte := 1024 * 1024
	cacheSize := 20 * megabyte

	return &Api{
		geminiApiUrl:   geminiApiUrl,
		geminiModel:    geminiModel,
		geminiApiKey:   geminiApiKey,
		httpClient:     httpClient,
		cache:          freecache.NewCache(cacheSize),
		metricsManager: metricsManager,
	}
}

// generateContent request/response wire format:
// https://ai.google.dev/api/generate-content
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Ask sends the prompt to the Gemini generateContent endpoint. Responses
// for identical prompts are served from cache for an hour.
func (api *Api) Ask(ctx context.Context, prompt string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coachApi.ask")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := []byte(prompt)
	if cachedBytes, err := api.cache.Get(cacheKey); err == nil {
		log.Tracef("found coach response in cache")
		api.metricsManager.CounterCoachCacheHits.Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return string(cachedBytes), nil
	}

	reqBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf(
		"%s/v1beta/models/%s:generateContent?key=%s",
		api.geminiApiUrl, api.geminiModel, api.geminiApiKey,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	api.metricsManager.CounterCoachPrompts.Inc()
	reqStart := time.Now()
	resp, err := api.httpClient.Do(req)
	if err != nil {
		log.Errorf("coach api, gemini call: %s", err)
		return "", ErrServiceUnavailable
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Errorf("coach api, close response body: %s", err)
		}
	}()
	api.metricsManager.HistCoachResponseDuration.Observe(time.Since(reqStart).Seconds())

	if resp.StatusCode != http.StatusOK {
		log.Errorf("coach api, gemini response status: %d", resp.StatusCode)
		span.SetStatus(codes.Error, fmt.Sprintf("gemini status: %d", resp.StatusCode))
		return "", ErrServiceUnavailable
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBytes, &geminiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrServiceUnavailable
	}

	answer := geminiResp.Candidates[0].Content.Parts[0].Text

	if err := api.cache.Set(cacheKey, []byte(answer), responseCacheExpire); err != nil {
		log.Errorf("coach api, write response cache: %s", err)
	}

	return answer, nil
}
