package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/league"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Upsert(ctx context.Context, l *league.League) (bool, error) {
	const query = `
		INSERT INTO leagues (external_id, name, country, logo_url, flag_url, season, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			country = EXCLUDED.country,
			logo_url = EXCLUDED.logo_url,
			flag_url = EXCLUDED.flag_url,
			season = EXCLUDED.season,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS created`

	var row struct {
		ID      int64 `db:"id"`
		Created bool  `db:"created"`
	}
	err := r.db.GetContext(ctx, &row, query,
		l.ExternalID, l.Name, l.Country, l.LogoURL, l.FlagURL, l.Season)
	if err != nil {
		return false, fmt.Errorf("upsert league: %w", err)
	}

	l.ID = row.ID
	return row.Created, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, id int64) (*league.League, error) {
	var l league.League
	err := r.db.GetContext(ctx, &l, `SELECT * FROM leagues WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return nil, league.ErrNotFound
		}
		return nil, fmt.Errorf("select league by id: %w", err)
	}
	return &l, nil
}

func (r *LeagueRepository) GetByExternalID(ctx context.Context, externalID int64) (*league.League, error) {
	var l league.League
	err := r.db.GetContext(ctx, &l, `SELECT * FROM leagues WHERE external_id = $1`, externalID)
	if err != nil {
		if isNotFound(err) {
			return nil, league.ErrNotFound
		}
		return nil, fmt.Errorf("select league by external id: %w", err)
	}
	return &l, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	out := make([]league.League, 0)
	if err := r.db.SelectContext(ctx, &out, `SELECT * FROM leagues ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}
	return out, nil
}
