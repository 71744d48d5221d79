package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/resilience"
	"github.com/EsatCanStudent/UpdatedScores2/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	defaultTimeout = 30 * time.Second
	apiKeyHeader   = "x-apisports-key"
	maxBodyBytes   = 6 << 20
)

var errAPIFootballTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the API-Football v3 API. Failed calls are surfaced to the
// caller as-is; schedule-driven retries happen at the next tick, never here.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
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
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

func (c *Client) FetchLeagues(ctx context.Context) ([]usecase.ExternalLeague, error) {
	var items []leagueItem
	if err := c.doJSON(ctx, "/leagues", nil, &items); err != nil {
		return nil, fmt.Errorf("fetch leagues: %w", err)
	}

	out := make([]usecase.ExternalLeague, 0, len(items))
	for _, item := range items {
		if item.League.ID <= 0 {
			continue
		}
		season := 0
		for _, s := range item.Seasons {
			if s.Current {
				season = s.Year
				break
			}
			if s.Year > season {
				season = s.Year
			}
		}
		out = append(out, usecase.ExternalLeague{
			ExternalID: item.League.ID,
			Name:       item.League.Name,
			Country:    item.Country.Name,
			LogoURL:    item.League.Logo,
			FlagURL:    item.Country.Flag,
			Season:     season,
		})
	}
	return out, nil
}

func (c *Client) FetchTeams(ctx context.Context, leagueExternalID int64, season int) ([]usecase.ExternalTeam, error) {
	query := map[string]string{
		"league": strconv.FormatInt(leagueExternalID, 10),
		"season": strconv.Itoa(season),
	}
	var items []teamItem
	if err := c.doJSON(ctx, "/teams", query, &items); err != nil {
		return nil, fmt.Errorf("fetch teams league=%d season=%d: %w", leagueExternalID, season, err)
	}

	out := make([]usecase.ExternalTeam, 0, len(items))
	for _, item := range items {
		if item.Team.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalTeam{
			ExternalID: item.Team.ID,
			Name:       item.Team.Name,
			Code:       item.Team.Code,
			Country:    item.Team.Country,
			Founded:    item.Team.Founded,
			LogoURL:    item.Team.Logo,
			VenueName:  item.Venue.Name,
			VenueCity:  item.Venue.City,
		})
	}
	return out, nil
}

func (c *Client) FetchMatches(ctx context.Context, q usecase.MatchQuery) ([]usecase.ExternalMatch, error) {
	query := map[string]string{}
	if q.LeagueExternalID > 0 {
		query["league"] = strconv.FormatInt(q.LeagueExternalID, 10)
	}
	if q.Season > 0 {
		query["season"] = strconv.Itoa(q.Season)
	}
	if q.Date != "" {
		query["date"] = q.Date
	}
	// from/to bound a day range; the provider's last/next parameters count
	// fixtures, not days, and reject being combined.
	if q.FromDate != "" {
		query["from"] = q.FromDate
	}
	if q.ToDate != "" {
		query["to"] = q.ToDate
	}
	if q.MatchExternalID > 0 {
		query["id"] = strconv.FormatInt(q.MatchExternalID, 10)
	}

	var items []fixtureItem
	if err := c.doJSON(ctx, "/fixtures", query, &items); err != nil {
		return nil, fmt.Errorf("fetch fixtures: %w", err)
	}
	return mapFixtures(items), nil
}

func (c *Client) FetchLiveMatches(ctx context.Context) ([]usecase.ExternalMatch, error) {
	var items []fixtureItem
	if err := c.doJSON(ctx, "/fixtures", map[string]string{"live": "all"}, &items); err != nil {
		return nil, fmt.Errorf("fetch live fixtures: %w", err)
	}
	return mapFixtures(items), nil
}

func (c *Client) FetchEvents(ctx context.Context, matchExternalID int64) ([]usecase.ExternalEvent, error) {
	query := map[string]string{"fixture": strconv.FormatInt(matchExternalID, 10)}
	var items []eventItem
	if err := c.doJSON(ctx, "/fixtures/events", query, &items); err != nil {
		return nil, fmt.Errorf("fetch events fixture=%d: %w", matchExternalID, err)
	}

	out := make([]usecase.ExternalEvent, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.ExternalEvent{
			MatchExternalID:  matchExternalID,
			TeamExternalID:   item.Team.ID,
			PlayerExternalID: item.Player.ID,
			PlayerName:       item.Player.Name,
			AssistExternalID: item.Assist.ID,
			AssistName:       item.Assist.Name,
			Type:             item.Type,
			Detail:           item.Detail,
			Comments:         item.Comments,
			Minute:           item.Time.Elapsed,
			ExtraMinute:      item.Time.Extra,
		})
	}
	return out, nil
}

func (c *Client) FetchLineups(ctx context.Context, matchExternalID int64) ([]usecase.ExternalLineup, error) {
	query := map[string]string{"fixture": strconv.FormatInt(matchExternalID, 10)}
	var items []lineupItem
	if err := c.doJSON(ctx, "/fixtures/lineups", query, &items); err != nil {
		return nil, fmt.Errorf("fetch lineups fixture=%d: %w", matchExternalID, err)
	}

	out := make([]usecase.ExternalLineup, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.ExternalLineup{
			TeamExternalID: item.Team.ID,
			Formation:      item.Formation,
			CoachName:      item.Coach.Name,
			Starters:       mapLineupPlayers(item.StartXI),
			Substitutes:    mapLineupPlayers(item.Substitutes),
		})
	}
	return out, nil
}

func (c *Client) FetchStatistics(ctx context.Context, matchExternalID int64) ([]usecase.ExternalStatistic, error) {
	query := map[string]string{"fixture": strconv.FormatInt(matchExternalID, 10)}
	var items []statisticItem
	if err := c.doJSON(ctx, "/fixtures/statistics", query, &items); err != nil {
		return nil, fmt.Errorf("fetch statistics fixture=%d: %w", matchExternalID, err)
	}

	out := make([]usecase.ExternalStatistic, 0)
	for _, item := range items {
		for _, s := range item.Statistics {
			out = append(out, usecase.ExternalStatistic{
				TeamExternalID: item.Team.ID,
				Name:           s.Type,
				Value:          statValueToString(s.Value),
			})
		}
	}
	return out, nil
}

func mapFixtures(items []fixtureItem) []usecase.ExternalMatch {
	out := make([]usecase.ExternalMatch, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}

		kickoff, err := time.Parse(time.RFC3339, item.Fixture.Date)
		if err != nil {
			kickoff = time.Time{}
		}

		m := usecase.ExternalMatch{
			ExternalID:         item.Fixture.ID,
			LeagueExternalID:   item.League.ID,
			Season:             item.League.Season,
			Round:              item.League.Round,
			HomeTeamExternalID: item.Teams.Home.ID,
			AwayTeamExternalID: item.Teams.Away.ID,
			HomeTeamName:       item.Teams.Home.Name,
			AwayTeamName:       item.Teams.Away.Name,
			KickoffAt:          kickoff,
			Status:             item.Fixture.Status.Short,
			Elapsed:            item.Fixture.Status.Elapsed,
			Venue:              item.Fixture.Venue.Name,
			Referee:            item.Fixture.Referee,
		}
		if item.Goals.Home != nil {
			m.HomeScore = *item.Goals.Home
		}
		if item.Goals.Away != nil {
			m.AwayScore = *item.Goals.Away
		}
		out = append(out, m)
	}
	return out
}

func mapLineupPlayers(items []lineupPlayerItem) []usecase.ExternalLineupPlayer {
	out := make([]usecase.ExternalLineupPlayer, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.ExternalLineupPlayer{
			ExternalID:   item.Player.ID,
			Name:         item.Player.Name,
			Number:       item.Player.Number,
			PositionCode: item.Player.Pos,
			Grid:         item.Player.Grid,
		})
	}
	return out
}

func statValueToString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errAPIFootballTransient) {
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

	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode provider envelope: %w", err)
	}
	if msgs := parseEnvelopeErrors(env.Errors); len(msgs) > 0 {
		return fmt.Errorf("provider rejected request: %s", strings.Join(msgs, "; "))
	}
	if len(env.RawItems) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(env.RawItems, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqErr := fmt.Errorf("%w: send request: %v", errAPIFootballTransient, err)
		c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", reqErr)
		return nil, reqErr
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isTransientStatus(resp.StatusCode) {
			return nil, fmt.Errorf("%w: provider status=%d body=%s", errAPIFootballTransient, resp.StatusCode, abbreviateBody(raw))
		}
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
	return raw, nil
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

// parseEnvelopeErrors handles both error shapes the provider uses: an empty
// array when clean and a {field: message} object when not.
func parseEnvelopeErrors(raw []byte) []string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "[]" || trimmed == "{}" || trimmed == "null" {
		return nil
	}

	var asMap map[string]string
	if err := sonic.Unmarshal(raw, &asMap); err == nil {
		keys := make([]string, 0, len(asMap))
		for k := range asMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(asMap))
		for _, k := range keys {
			out = append(out, fmt.Sprintf("%s: %s", k, asMap[k]))
		}
		return out
	}

	var asList []string
	if err := sonic.Unmarshal(raw, &asList); err == nil {
		return asList
	}
	return []string{trimmed}
}
