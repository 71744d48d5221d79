package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

var liveStatusList = []string{
	match.StatusFirstHalf, match.StatusSecondHalf, match.StatusHalfTime,
	match.StatusExtraTime, match.StatusBreakTime, match.StatusPenalties, match.StatusLive,
}

func (r *MatchRepository) Upsert(ctx context.Context, m *match.Match) (bool, error) {
	const query = `
		INSERT INTO matches (external_id, league_id, season, round, home_team_id, away_team_id,
			kickoff_at, status, elapsed, home_score, away_score, venue, referee, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			league_id = EXCLUDED.league_id,
			season = EXCLUDED.season,
			round = EXCLUDED.round,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			kickoff_at = EXCLUDED.kickoff_at,
			status = EXCLUDED.status,
			elapsed = EXCLUDED.elapsed,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			venue = EXCLUDED.venue,
			referee = EXCLUDED.referee,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS created`

	var row struct {
		ID      int64 `db:"id"`
		Created bool  `db:"created"`
	}
	err := r.db.GetContext(ctx, &row, query,
		m.ExternalID, m.LeagueID, m.Season, m.Round, m.HomeTeamID, m.AwayTeamID,
		m.KickoffAt, m.Status, m.Elapsed, m.HomeScore, m.AwayScore, m.Venue, m.Referee)
	if err != nil {
		return false, fmt.Errorf("upsert match: %w", err)
	}

	m.ID = row.ID
	return row.Created, nil
}

func (r *MatchRepository) Update(ctx context.Context, m *match.Match) error {
	const query = `
		UPDATE matches SET
			status = $2, elapsed = $3, home_score = $4, away_score = $5, updated_at = NOW()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, m.ID, m.Status, m.Elapsed, m.HomeScore, m.AwayScore)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update match rows affected: %w", err)
	}
	if affected == 0 {
		return match.ErrNotFound
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (*match.Match, error) {
	var m match.Match
	err := r.db.GetContext(ctx, &m, `SELECT * FROM matches WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return nil, match.ErrNotFound
		}
		return nil, fmt.Errorf("select match by id: %w", err)
	}
	return &m, nil
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID int64) (*match.Match, error) {
	var m match.Match
	err := r.db.GetContext(ctx, &m, `SELECT * FROM matches WHERE external_id = $1`, externalID)
	if err != nil {
		if isNotFound(err) {
			return nil, match.ErrNotFound
		}
		return nil, fmt.Errorf("select match by external id: %w", err)
	}
	return &m, nil
}

func (r *MatchRepository) ListLive(ctx context.Context) ([]match.Match, error) {
	query, args, err := sqlx.In(`SELECT * FROM matches WHERE status IN (?) ORDER BY kickoff_at, id`, liveStatusList)
	if err != nil {
		return nil, fmt.Errorf("build live matches query: %w", err)
	}
	query = r.db.Rebind(query)

	out := make([]match.Match, 0)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select live matches: %w", err)
	}
	return out, nil
}

func (r *MatchRepository) ListByKickoffRange(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	out := make([]match.Match, 0)
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM matches WHERE kickoff_at >= $1 AND kickoff_at < $2 ORDER BY kickoff_at, id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("select matches by kickoff range: %w", err)
	}
	return out, nil
}

func (r *MatchRepository) ListFinishedByTeam(ctx context.Context, teamID int64, limit int) ([]match.Match, error) {
	query, args, err := sqlx.In(`
		SELECT * FROM matches
		WHERE (home_team_id = ? OR away_team_id = ?) AND status IN (?)
		ORDER BY kickoff_at DESC
		LIMIT ?`,
		teamID, teamID, []string{match.StatusFullTime, match.StatusAfterExtra, match.StatusAfterPens}, limit)
	if err != nil {
		return nil, fmt.Errorf("build finished matches query: %w", err)
	}
	query = r.db.Rebind(query)

	out := make([]match.Match, 0)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select finished matches by team: %w", err)
	}
	return out, nil
}

func (r *MatchRepository) DeleteByKickoffRange(ctx context.Context, from, to time.Time) ([]int64, error) {
	ids := make([]int64, 0)
	err := r.db.SelectContext(ctx, &ids,
		`DELETE FROM matches WHERE kickoff_at >= $1 AND kickoff_at < $2 RETURNING id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("delete matches by kickoff range: %w", err)
	}
	return ids, nil
}

func (r *MatchRepository) ListByLeagueAndSeason(ctx context.Context, leagueID int64, season int) ([]match.Match, error) {
	out := make([]match.Match, 0)
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM matches WHERE league_id = $1 AND season = $2 ORDER BY kickoff_at, id`, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("select matches by league and season: %w", err)
	}
	return out, nil
}
