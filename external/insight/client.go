package insight

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/form"
	"github.com/matchsight/analysis-api/internal/platform/logging"
	"github.com/matchsight/analysis-api/internal/platform/resilience"
	"github.com/matchsight/analysis-api/internal/usecase"
)

var errInsightTransient = crerr.New("insight transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the AI insight service: full match analyses, the pick
// listing the cron publishes, and speech synthesis.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         *resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.MaxFailures, breakerCfg.Cooldown, breakerCfg.MaxProbes),
		circuitEnabled: breakerCfg.Enabled,
		flight:         resilience.NewSingleFlight(),
	}
}

func (c *Client) Analyze(ctx context.Context, req usecase.AnalyzeRequest) (analysis.Report, error) {
	body := analyzeRequestBody{
		MatchID:  req.MatchID,
		HomeTeam: req.HomeTeam,
		AwayTeam: req.AwayTeam,
		League:   req.League,
	}

	var decoded analyzeResponseBody
	key := "analyze:" + req.MatchID
	if err := c.postJSON(ctx, "/v1/analyze", key, body, &decoded); err != nil {
		return analysis.Report{}, err
	}
	if !decoded.Success {
		return analysis.Report{}, fmt.Errorf("insight analyze rejected match %s", req.MatchID)
	}

	return mapReport(decoded), nil
}

func (c *Client) AIPicks(ctx context.Context, league string) (usecase.AIPicksResult, error) {
	path := "/v1/ai-picks?" + url.Values{"league": {league}}.Encode()

	var decoded aiPicksResponseBody
	if err := c.getJSON(ctx, path, &decoded); err != nil {
		return usecase.AIPicksResult{}, err
	}
	if !decoded.Success {
		return usecase.AIPicksResult{}, fmt.Errorf("insight ai-picks rejected league %s", league)
	}

	picks := make([]analysis.AIPick, 0, len(decoded.AIPicks))
	for _, item := range decoded.AIPicks {
		pickLeague := item.League
		if pickLeague == "" {
			pickLeague = league
		}
		picks = append(picks, analysis.AIPick{
			MatchID:    item.MatchID,
			League:     pickLeague,
			Reason:     item.AIReason,
			Edge:       item.ValueBetEdge,
			Conviction: item.Conviction,
		})
	}

	return usecase.AIPicksResult{
		Picks:           picks,
		FlaggedMatchIDs: decoded.FlaggedMatchIDs,
	}, nil
}

// TeamForm fetches a team's recent results and aggregate counters for the
// fatigue and form scorers.
func (c *Client) TeamForm(ctx context.Context, team string) (usecase.TeamFormData, error) {
	path := "/v1/form?" + url.Values{"team": {team}}.Encode()

	var decoded formResponseBody
	if err := c.getJSON(ctx, path, &decoded); err != nil {
		return usecase.TeamFormData{}, err
	}
	if !decoded.Success {
		return usecase.TeamFormData{}, fmt.Errorf("insight form rejected team %s", team)
	}

	data := usecase.TeamFormData{
		Entries: make([]usecase.FormEntry, 0, len(decoded.Matches)),
	}
	for _, item := range decoded.Matches {
		data.Entries = append(data.Entries, usecase.FormEntry{
			Result:   item.Result,
			Opponent: item.Opponent,
			Score:    item.Score,
			Date:     item.Date,
		})
	}
	if decoded.Stats != nil {
		data.Stats = &form.TeamStats{
			GoalsScored:     decoded.Stats.GoalsScored,
			GoalsConceded:   decoded.Stats.GoalsConceded,
			CleanSheets:     decoded.Stats.CleanSheets,
			MatchesPlayed:   decoded.Stats.MatchesPlayed,
			AvgGoalsScored:  decoded.Stats.AvgGoalsScored,
			AvgGoalsAgainst: decoded.Stats.AvgGoalsAgainst,
		}
	}
	return data, nil
}

func (c *Client) Synthesize(ctx context.Context, text string) (usecase.SpeechClip, error) {
	var decoded speechResponseBody
	if err := c.postJSON(ctx, "/v1/speech", "", speechRequestBody{Text: text}, &decoded); err != nil {
		return usecase.SpeechClip{}, err
	}
	if !decoded.Success {
		return usecase.SpeechClip{}, fmt.Errorf("insight speech synthesis rejected")
	}

	return usecase.SpeechClip{
		AudioBase64: decoded.AudioBase64,
		ContentType: decoded.ContentType,
	}, nil
}

func mapReport(body analyzeResponseBody) analysis.Report {
	report := analysis.Report{
		MatchID:  body.MatchID,
		Risk:     analysis.NormalizeRisk(body.Risk),
		Tactical: body.Tactical,
		Warnings: body.Warnings,
		Value: analysis.ValueAssessment{
			Flag:    normalizeValueFlag(body.Value.Flag),
			Outcome: body.Value.Outcome,
			Edge:    body.Value.Edge,
		},
		Meta: analysis.Meta{
			DataQuality:     body.Meta.DataQuality,
			FormSource:      body.Meta.FormSource,
			H2HSampleSize:   body.Meta.H2HSampleSize,
			MarketStability: body.Meta.MarketStability,
		},
	}

	if body.Probabilities != nil {
		report.Probabilities = &analysis.Probabilities{
			HomeWin: body.Probabilities.HomeWin,
			Draw:    body.Probabilities.Draw,
			AwayWin: body.Probabilities.AwayWin,
			Over:    body.Probabilities.Over,
			Under:   body.Probabilities.Under,
		}
	}
	if body.Momentum != nil {
		report.Momentum = &analysis.Momentum{
			Home: normalizeTrend(body.Momentum.Home),
			Away: normalizeTrend(body.Momentum.Away),
		}
	}
	if parsed, err := time.Parse(time.RFC3339, body.GeneratedAt); err == nil {
		report.GeneratedAt = parsed
	}

	return report
}

func normalizeValueFlag(value string) analysis.ValueFlag {
	switch analysis.ValueFlag(strings.ToUpper(strings.TrimSpace(value))) {
	case analysis.ValueLow:
		return analysis.ValueLow
	case analysis.ValueMedium:
		return analysis.ValueMedium
	case analysis.ValueHigh:
		return analysis.ValueHigh
	default:
		return analysis.ValueNone
	}
}

func normalizeTrend(value string) analysis.Trend {
	switch analysis.Trend(strings.ToUpper(strings.TrimSpace(value))) {
	case analysis.TrendRising:
		return analysis.TrendRising
	case analysis.TrendFalling:
		return analysis.TrendFalling
	case analysis.TrendStable:
		return analysis.TrendStable
	default:
		return analysis.TrendUnknown
	}
}

// postJSON sends a JSON body and decodes the response. A non-empty flightKey
// collapses concurrent identical calls onto one request.
func (c *Client) postJSON(ctx context.Context, path, flightKey string, payload, target any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal insight payload: %w", err)
	}
	_, _ = buf.Write(encoded)

	call := func(ctx context.Context) (any, error) {
		return c.executeRequest(ctx, http.MethodPost, path, buf.Bytes())
	}

	var raw any
	if flightKey != "" {
		raw, err = c.flight.Do(ctx, flightKey, c.guarded(call))
	} else {
		raw, err = c.guarded(call)(ctx)
	}
	if err != nil {
		return err
	}

	return decodePayload(raw, target)
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	raw, err := c.flight.Do(ctx, path, c.guarded(func(ctx context.Context) (any, error) {
		return c.executeRequest(ctx, http.MethodGet, path, nil)
	}))
	if err != nil {
		return err
	}
	return decodePayload(raw, target)
}

// guarded wraps a call with the circuit breaker's admit/record cycle.
func (c *Client) guarded(call func(ctx context.Context) (any, error)) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		if c.circuitEnabled {
			if err := c.breaker.Allow(); err != nil {
				c.logger.WarnContext(ctx, "insight circuit breaker rejected request", "state", c.breaker.State())
				return nil, fmt.Errorf("%w: insight service is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
		}

		raw, err := call(ctx)
		if c.circuitEnabled {
			if err != nil && isInsightCircuitFailure(err) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, err
	}
}

func decodePayload(raw any, target any) error {
	body, ok := raw.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", raw)
	}
	if err := sonic.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode insight payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	fullURL := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errInsightTransient, sanitizeToken(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errInsightTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: insight status=%d body=%s", errInsightTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("insight status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("insight request failed")
	}
	c.logger.WarnContext(ctx, "insight request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func sanitizeToken(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

func isInsightCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errInsightTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 512 {
		body = body[:512] + "...(truncated)"
	}
	return body
}
