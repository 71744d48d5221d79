package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/profile"
)

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *profile.Profile) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin upsert profile: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
		INSERT INTO profiles (user_id, email, push_token, notify_goals, notify_red_cards,
			notify_lineups, notify_match_start, notify_important, delivery, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			push_token = EXCLUDED.push_token,
			notify_goals = EXCLUDED.notify_goals,
			notify_red_cards = EXCLUDED.notify_red_cards,
			notify_lineups = EXCLUDED.notify_lineups,
			notify_match_start = EXCLUDED.notify_match_start,
			notify_important = EXCLUDED.notify_important,
			delivery = EXCLUDED.delivery,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS created`

	var row struct {
		ID      int64 `db:"id"`
		Created bool  `db:"created"`
	}
	err = tx.GetContext(ctx, &row, query,
		p.UserID, p.Email, p.PushToken, p.NotifyGoals, p.NotifyRedCards,
		p.NotifyLineups, p.NotifyMatchStart, p.NotifyImportant, p.Delivery)
	if err != nil {
		return false, fmt.Errorf("upsert profile: %w", err)
	}
	p.ID = row.ID

	if _, err := tx.ExecContext(ctx, `DELETE FROM profile_teams WHERE profile_id = $1`, p.ID); err != nil {
		return false, fmt.Errorf("clear favorite teams: %w", err)
	}
	for _, teamID := range p.FavoriteTeamIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO profile_teams (profile_id, team_id) VALUES ($1, $2)`, p.ID, teamID)
		if err != nil {
			return false, fmt.Errorf("insert favorite team: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM profile_leagues WHERE profile_id = $1`, p.ID); err != nil {
		return false, fmt.Errorf("clear favorite leagues: %w", err)
	}
	for _, leagueID := range p.FavoriteLeagueIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO profile_leagues (profile_id, league_id) VALUES ($1, $2)`, p.ID, leagueID)
		if err != nil {
			return false, fmt.Errorf("insert favorite league: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM profile_players WHERE profile_id = $1`, p.ID); err != nil {
		return false, fmt.Errorf("clear favorite players: %w", err)
	}
	for _, playerID := range p.FavoritePlayerIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO profile_players (profile_id, player_id) VALUES ($1, $2)`, p.ID, playerID)
		if err != nil {
			return false, fmt.Errorf("insert favorite player: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert profile: %w", err)
	}
	return row.Created, nil
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID int64) (*profile.Profile, error) {
	var p profile.Profile
	err := r.db.GetContext(ctx, &p, `SELECT * FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, profile.ErrNotFound
		}
		return nil, fmt.Errorf("select profile by user: %w", err)
	}
	if err := r.loadFavorites(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) ListForAudience(ctx context.Context, a profile.Audience) ([]profile.Profile, error) {
	const query = `
		SELECT DISTINCT p.* FROM profiles p
		LEFT JOIN profile_teams pt ON pt.profile_id = p.id
		LEFT JOIN profile_leagues pl ON pl.profile_id = p.id
		LEFT JOIN profile_players pp ON pp.profile_id = p.id
		WHERE pt.team_id IN ($1, $2) OR pl.league_id = $3 OR ($4 > 0 AND pp.player_id = $4)
		ORDER BY p.user_id`

	out := make([]profile.Profile, 0)
	if err := r.db.SelectContext(ctx, &out, query, a.HomeTeamID, a.AwayTeamID, a.LeagueID, a.PlayerID); err != nil {
		return nil, fmt.Errorf("select profiles for audience: %w", err)
	}
	for i := range out {
		if err := r.loadFavorites(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ProfileRepository) loadFavorites(ctx context.Context, p *profile.Profile) error {
	teams := make([]int64, 0)
	err := r.db.SelectContext(ctx, &teams,
		`SELECT team_id FROM profile_teams WHERE profile_id = $1 ORDER BY team_id`, p.ID)
	if err != nil {
		return fmt.Errorf("select favorite teams: %w", err)
	}
	p.FavoriteTeamIDs = teams

	leagues := make([]int64, 0)
	err = r.db.SelectContext(ctx, &leagues,
		`SELECT league_id FROM profile_leagues WHERE profile_id = $1 ORDER BY league_id`, p.ID)
	if err != nil {
		return fmt.Errorf("select favorite leagues: %w", err)
	}
	p.FavoriteLeagueIDs = leagues

	players := make([]int64, 0)
	err = r.db.SelectContext(ctx, &players,
		`SELECT player_id FROM profile_players WHERE profile_id = $1 ORDER BY player_id`, p.ID)
	if err != nil {
		return fmt.Errorf("select favorite players: %w", err)
	}
	p.FavoritePlayerIDs = players
	return nil
}
