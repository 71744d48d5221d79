package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/league"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/team"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/cache"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

// SyncSummary reports what one sync pass did. Failed counts items that were
// skipped after an error; a non-zero Failed does not fail the whole pass.
type SyncSummary struct {
	Created int
	Updated int
	Skipped int
	Failed  int
}

func (s SyncSummary) Total() int {
	return s.Created + s.Updated + s.Skipped + s.Failed
}

// MatchSyncOptions narrows which fixtures a match sync covers. The zero
// value means the default rolling window around today.
type MatchSyncOptions struct {
	Season          int
	LastDays        int
	NextDays        int
	Date            string
	MatchExternalID int64
	// Refresh deletes stored matches inside the requested window before the
	// provider data is written back. Scheduled runs leave it off; operator
	// resyncs use it to purge fixtures the provider no longer returns.
	Refresh bool
}

type SyncService struct {
	provider   SportDataProvider
	leagues    league.Repository
	teams      team.Repository
	matches    match.Repository
	cacheStore *cache.Store
	allowList  []league.AllowedPair
	logger     *logging.Logger
	now        func() time.Time
}

func NewSyncService(
	provider SportDataProvider,
	leagues league.Repository,
	teams team.Repository,
	matches match.Repository,
	cacheStore *cache.Store,
	allowList []league.AllowedPair,
	logger *logging.Logger,
	now func() time.Time,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &SyncService{
		provider:   provider,
		leagues:    leagues,
		teams:      teams,
		matches:    matches,
		cacheStore: cacheStore,
		allowList:  allowList,
		logger:     logger,
		now:        now,
	}
}

// SyncLeagues pulls the provider's league catalogue and stores the
// allow-listed competitions.
func (s *SyncService) SyncLeagues(ctx context.Context) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncLeagues")
	defer span.End()

	var summary SyncSummary

	external, err := s.provider.FetchLeagues(ctx)
	if err != nil {
		return summary, fmt.Errorf("sync leagues: %w", err)
	}

	for _, item := range external {
		if !league.Allowed(s.allowList, item.Country, item.Name) {
			summary.Skipped++
			continue
		}

		l := &league.League{
			ExternalID: item.ExternalID,
			Name:       item.Name,
			Country:    item.Country,
			LogoURL:    item.LogoURL,
			FlagURL:    item.FlagURL,
			Season:     item.Season,
		}
		created, err := s.leagues.Upsert(ctx, l)
		if err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "upsert league failed", "league_external_id", item.ExternalID, "error", err)
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	s.logger.InfoContext(ctx, "league sync finished",
		"created", summary.Created, "updated", summary.Updated,
		"skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

// SyncTeams refreshes squads for every stored league. A league whose
// current-season response comes back empty is retried against the previous
// season, since the provider lags at season boundaries.
func (s *SyncService) SyncTeams(ctx context.Context) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTeams")
	defer span.End()

	var summary SyncSummary

	stored, err := s.leagues.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("sync teams: list leagues: %w", err)
	}

	for _, l := range stored {
		external, err := s.fetchTeamsWithSeasonFallback(ctx, l.ExternalID, s.seasonFor(l))
		if err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "fetch teams failed", "league_id", l.ID, "error", err)
			continue
		}

		for _, item := range external {
			t := &team.Team{
				ExternalID: item.ExternalID,
				Name:       item.Name,
				Code:       item.Code,
				Country:    item.Country,
				Founded:    item.Founded,
				LogoURL:    item.LogoURL,
				VenueName:  item.VenueName,
				VenueCity:  item.VenueCity,
				LeagueID:   l.ID,
			}
			created, err := s.teams.Upsert(ctx, t)
			if err != nil {
				summary.Failed++
				s.logger.ErrorContext(ctx, "upsert team failed", "team_external_id", item.ExternalID, "error", err)
				continue
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
		}
	}

	s.logger.InfoContext(ctx, "team sync finished",
		"created", summary.Created, "updated", summary.Updated, "failed", summary.Failed)
	return summary, nil
}

// SyncMatches refreshes fixtures for every stored league inside the window
// the options describe. Changed matches drop their cached payloads.
func (s *SyncService) SyncMatches(ctx context.Context, opts MatchSyncOptions) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncMatches")
	defer span.End()

	if opts.MatchExternalID > 0 {
		return s.syncSingleMatch(ctx, opts.MatchExternalID)
	}

	var summary SyncSummary

	if opts.Refresh {
		if err := s.refreshDelete(ctx, opts); err != nil {
			return summary, fmt.Errorf("sync matches: %w", err)
		}
	}

	stored, err := s.leagues.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("sync matches: list leagues: %w", err)
	}

	var fromDate, toDate string
	if opts.Date == "" && (opts.LastDays > 0 || opts.NextDays > 0) {
		from, to, err := s.syncWindow(opts)
		if err != nil {
			return summary, fmt.Errorf("sync matches: %w", err)
		}
		// to is exclusive; the provider's "to" day is inclusive.
		fromDate = from.Format(dateLayout)
		toDate = to.AddDate(0, 0, -1).Format(dateLayout)
	}

	for _, l := range stored {
		season := opts.Season
		if season <= 0 {
			season = s.seasonFor(l)
		}

		query := MatchQuery{
			LeagueExternalID: l.ExternalID,
			Season:           season,
			Date:             opts.Date,
			FromDate:         fromDate,
			ToDate:           toDate,
		}
		external, err := s.fetchMatchesWithSeasonFallback(ctx, query)
		if err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "fetch matches failed", "league_id", l.ID, "error", err)
			continue
		}

		for _, item := range external {
			if err := s.upsertExternalMatch(ctx, l.ID, item, &summary); err != nil {
				summary.Failed++
				s.logger.ErrorContext(ctx, "upsert match failed", "match_external_id", item.ExternalID, "error", err)
			}
		}
	}

	s.logger.InfoContext(ctx, "match sync finished",
		"created", summary.Created, "updated", summary.Updated, "failed", summary.Failed)
	return summary, nil
}

// syncSingleMatch refreshes one fixture by provider id, for operator-driven
// repairs. The fixture's league must already be stored.
func (s *SyncService) syncSingleMatch(ctx context.Context, externalID int64) (SyncSummary, error) {
	var summary SyncSummary

	external, err := s.provider.FetchMatches(ctx, MatchQuery{MatchExternalID: externalID})
	if err != nil {
		return summary, fmt.Errorf("sync match %d: %w", externalID, err)
	}

	for _, item := range external {
		l, err := s.leagues.GetByExternalID(ctx, item.LeagueExternalID)
		if err != nil {
			summary.Skipped++
			s.logger.WarnContext(ctx, "fixture league not stored",
				"match_external_id", item.ExternalID, "league_external_id", item.LeagueExternalID)
			continue
		}
		if err := s.upsertExternalMatch(ctx, l.ID, item, &summary); err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "upsert match failed", "match_external_id", item.ExternalID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "single match sync finished", "match_external_id", externalID,
		"created", summary.Created, "updated", summary.Updated, "skipped", summary.Skipped)
	return summary, nil
}

const dateLayout = "2006-01-02"

// syncWindow resolves the options into a [from, to) kickoff range of whole
// days. The same range drives the provider query and the refresh purge, so
// a purged fixture is always inside what the refetch covers.
func (s *SyncService) syncWindow(opts MatchSyncOptions) (time.Time, time.Time, error) {
	if opts.Date != "" {
		day, err := time.Parse(dateLayout, opts.Date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: parse date %q", ErrInvalidInput, opts.Date)
		}
		return day, day.AddDate(0, 0, 1), nil
	}
	day := s.now().UTC().Truncate(24 * time.Hour)
	return day.AddDate(0, 0, -opts.LastDays), day.AddDate(0, 0, opts.NextDays+1), nil
}

// refreshDelete purges stored matches inside the window the options describe
// so the provider response becomes authoritative for it.
func (s *SyncService) refreshDelete(ctx context.Context, opts MatchSyncOptions) error {
	from, to, err := s.syncWindow(opts)
	if err != nil {
		return err
	}

	deleted, err := s.matches.DeleteByKickoffRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("refresh delete: %w", err)
	}
	if s.cacheStore != nil {
		for _, id := range deleted {
			s.cacheStore.InvalidateMatch(ctx, id)
		}
	}
	if len(deleted) > 0 {
		s.logger.InfoContext(ctx, "refresh dropped stored matches",
			"count", len(deleted), "from", from, "to", to)
	}
	return nil
}

func (s *SyncService) upsertExternalMatch(ctx context.Context, leagueID int64, item ExternalMatch, summary *SyncSummary) error {
	if item.ExternalID <= 0 {
		return fmt.Errorf("%w: match external id is required", ErrInvalidInput)
	}

	homeID, err := s.resolveTeamID(ctx, leagueID, item.HomeTeamExternalID, item.HomeTeamName)
	if err != nil {
		return err
	}
	awayID, err := s.resolveTeamID(ctx, leagueID, item.AwayTeamExternalID, item.AwayTeamName)
	if err != nil {
		return err
	}

	m := &match.Match{
		ExternalID: item.ExternalID,
		LeagueID:   leagueID,
		Season:     item.Season,
		Round:      item.Round,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		KickoffAt:  item.KickoffAt,
		Status:     item.Status,
		Elapsed:    item.Elapsed,
		HomeScore:  item.HomeScore,
		AwayScore:  item.AwayScore,
		Venue:      item.Venue,
		Referee:    item.Referee,
	}
	created, err := s.matches.Upsert(ctx, m)
	if err != nil {
		return err
	}
	if created {
		summary.Created++
	} else {
		summary.Updated++
		if s.cacheStore != nil {
			s.cacheStore.InvalidateMatch(ctx, m.ID)
		}
	}
	return nil
}

// resolveTeamID maps a provider team id to our internal one, creating a
// minimal team row when the fixture feed mentions a team we have not
// synced yet.
func (s *SyncService) resolveTeamID(ctx context.Context, leagueID, externalID int64, name string) (int64, error) {
	if externalID <= 0 {
		return 0, fmt.Errorf("%w: team external id is required", ErrInvalidInput)
	}

	existing, err := s.teams.GetByExternalID(ctx, externalID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, team.ErrNotFound) {
		return 0, fmt.Errorf("resolve team: %w", err)
	}

	stub := &team.Team{ExternalID: externalID, Name: name, LeagueID: leagueID}
	if _, err := s.teams.Upsert(ctx, stub); err != nil {
		return 0, fmt.Errorf("create team stub: %w", err)
	}
	return stub.ID, nil
}

func (s *SyncService) fetchTeamsWithSeasonFallback(ctx context.Context, leagueExternalID int64, season int) ([]ExternalTeam, error) {
	external, err := s.provider.FetchTeams(ctx, leagueExternalID, season)
	if err != nil {
		return nil, err
	}
	if len(external) > 0 || season <= 1 {
		return external, nil
	}

	s.logger.DebugContext(ctx, "empty team response, retrying previous season",
		"league_external_id", leagueExternalID, "season", season)
	return s.provider.FetchTeams(ctx, leagueExternalID, season-1)
}

func (s *SyncService) fetchMatchesWithSeasonFallback(ctx context.Context, query MatchQuery) ([]ExternalMatch, error) {
	external, err := s.provider.FetchMatches(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(external) > 0 || query.Season <= 1 {
		return external, nil
	}

	query.Season--
	s.logger.DebugContext(ctx, "empty fixture response, retrying previous season",
		"league_external_id", query.LeagueExternalID, "season", query.Season)
	return s.provider.FetchMatches(ctx, query)
}

func (s *SyncService) seasonFor(l league.League) int {
	if l.Season > 0 {
		return l.Season
	}
	// European seasons start mid-year.
	now := s.now()
	if now.Month() >= time.July {
		return now.Year()
	}
	return now.Year() - 1
}
