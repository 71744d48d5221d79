package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, t *team.Team) (bool, error) {
	const query = `
		INSERT INTO teams (external_id, name, code, country, founded, logo_url, venue_name, venue_city, league_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			code = EXCLUDED.code,
			country = EXCLUDED.country,
			founded = EXCLUDED.founded,
			logo_url = EXCLUDED.logo_url,
			venue_name = EXCLUDED.venue_name,
			venue_city = EXCLUDED.venue_city,
			league_id = EXCLUDED.league_id,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS created`

	var row struct {
		ID      int64 `db:"id"`
		Created bool  `db:"created"`
	}
	err := r.db.GetContext(ctx, &row, query,
		t.ExternalID, t.Name, t.Code, t.Country, t.Founded, t.LogoURL, t.VenueName, t.VenueCity, t.LeagueID)
	if err != nil {
		return false, fmt.Errorf("upsert team: %w", err)
	}

	t.ID = row.ID
	return row.Created, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	var t team.Team
	err := r.db.GetContext(ctx, &t, `SELECT * FROM teams WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return nil, team.ErrNotFound
		}
		return nil, fmt.Errorf("select team by id: %w", err)
	}
	return &t, nil
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID int64) (*team.Team, error) {
	var t team.Team
	err := r.db.GetContext(ctx, &t, `SELECT * FROM teams WHERE external_id = $1`, externalID)
	if err != nil {
		if isNotFound(err) {
			return nil, team.ErrNotFound
		}
		return nil, fmt.Errorf("select team by external id: %w", err)
	}
	return &t, nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64) ([]team.Team, error) {
	out := make([]team.Team, 0)
	err := r.db.SelectContext(ctx, &out, `SELECT * FROM teams WHERE league_id = $1 ORDER BY id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("select teams by league: %w", err)
	}
	return out, nil
}
