package oddsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/matchsight/analysis-api/internal/domain/match"
	"github.com/matchsight/analysis-api/internal/platform/logging"
	"github.com/matchsight/analysis-api/internal/platform/resilience"
	"github.com/matchsight/analysis-api/internal/usecase"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com/v4"
	defaultRegions = "eu"
	defaultMarkets = "h2h"
)

var apiKeyParamRegex = regexp.MustCompile(`apiKey=[^&\s"']+`)
var errOddsFeedTransient = crerr.New("odds feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the odds provider. It deduplicates concurrent identical
// requests, retries transient failures with linear backoff, and trips a
// circuit breaker on sustained trouble. The API key never reaches logs or
// error strings.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
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
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.MaxFailures, breakerCfg.Cooldown, breakerCfg.MaxProbes),
		circuitEnabled: breakerCfg.Enabled,
		flight:         resilience.NewSingleFlight(),
	}
}

// ListMatches fetches the odds listing for one league key and maps it to the
// domain snapshot shape, including the heuristic hotness signals.
func (c *Client) ListMatches(ctx context.Context, league string) ([]match.Match, error) {
	league = match.NormalizeSportKey(league)
	if league == "" {
		return nil, fmt.Errorf("league is required")
	}

	var events []eventItem
	path := fmt.Sprintf("/sports/%s/odds", url.PathEscape(league))
	if err := c.doJSON(ctx, path, map[string]string{
		"regions": defaultRegions,
		"markets": defaultMarkets,
	}, &events); err != nil {
		return nil, err
	}

	now := time.Now()
	matches := make([]match.Match, 0, len(events))
	for _, item := range events {
		mapped, ok := mapEvent(item, league)
		if !ok {
			continue
		}
		mapped.Signals = deriveSignals(mapped, now)
		matches = append(matches, mapped)
	}
	return matches, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "odds feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: odds provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("apiKey", c.apiKey)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err := c.flight.Do(ctx, key, func(ctx context.Context) (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isOddsFeedCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode odds payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errOddsFeedTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errOddsFeedTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errOddsFeedTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
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
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "odds feed request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func mapEvent(item eventItem, league string) (match.Match, bool) {
	if strings.TrimSpace(item.ID) == "" || item.HomeTeam == "" || item.AwayTeam == "" {
		return match.Match{}, false
	}

	commence, err := time.Parse(time.RFC3339, item.CommenceTime)
	if err != nil {
		return match.Match{}, false
	}

	bookmakers := make([]match.Bookmaker, 0, len(item.Bookmakers))
	for _, bm := range item.Bookmakers {
		markets := make([]match.MarketOdds, 0, len(bm.Markets))
		for _, mkt := range bm.Markets {
			outcomes := make([]match.Outcome, 0, len(mkt.Outcomes))
			for _, o := range mkt.Outcomes {
				outcomes = append(outcomes, match.Outcome{Name: o.Name, Price: o.Price})
			}
			markets = append(markets, match.MarketOdds{Key: mkt.Key, Outcomes: outcomes})
		}

		lastUpdate, _ := time.Parse(time.RFC3339, bm.LastUpdate)
		bookmakers = append(bookmakers, match.Bookmaker{
			Key:        bm.Key,
			Title:      bm.Title,
			LastUpdate: lastUpdate,
			Markets:    markets,
		})
	}

	sportKey := item.SportKey
	if sportKey == "" {
		sportKey = league
	}
	if idx := strings.Index(sportKey, "_"); idx > 0 {
		sportKey = sportKey[:idx]
	}

	return match.Match{
		ID:           item.ID,
		SportKey:     match.NormalizeSportKey(sportKey),
		League:       league,
		HomeTeam:     item.HomeTeam,
		AwayTeam:     item.AwayTeam,
		CommenceTime: commence,
		Bookmakers:   bookmakers,
	}, true
}

// leagueWeights biases the heuristic fallback toward competitions users
// actually browse.
var leagueWeights = map[string]float64{
	"soccer_epl":                3,
	"soccer_spain_la_liga":      3,
	"soccer_germany_bundesliga": 2.5,
	"soccer_italy_serie_a":      2.5,
	"soccer_france_ligue_one":   2,
	"soccer_uefa_champs_league": 4,
	"basketball_nba":            3,
	"americanfootball_nfl":      3,
}

func deriveSignals(m match.Match, now time.Time) match.Signals {
	signals := match.Signals{
		LeagueScore: leagueWeights[m.League],
	}

	if sharesLocalityToken(m.HomeTeam, m.AwayTeam) {
		signals.DerbyScore = 8
	}

	if hours := m.CommenceTime.Sub(now).Hours(); hours >= 0 && hours < 48 {
		signals.ProximityScore = (48 - hours) / 8
	}

	marketCount := 0
	for _, bm := range m.Bookmakers {
		marketCount += len(bm.Markets)
	}
	signals.MarketScore = float64(minInt(marketCount, 12))
	signals.BookmakerScore = float64(minInt(len(m.Bookmakers), 10))

	return signals
}

// sharesLocalityToken treats a shared leading name token ("Manchester
// United" vs "Manchester City") as a derby hint.
func sharesLocalityToken(home, away string) bool {
	homeTok := firstToken(home)
	awayTok := firstToken(away)
	if homeTok == "" || awayTok == "" {
		return false
	}
	return strings.EqualFold(homeTok, awayTok)
}

func firstToken(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "apiKey=REDACTED")
}

func redactAPIURL(fullURL string) string {
	return apiKeyParamRegex.ReplaceAllString(fullURL, "apiKey=REDACTED")
}

func isOddsFeedCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errOddsFeedTransient)
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
