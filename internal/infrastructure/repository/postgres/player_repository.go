package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/player"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Upsert(ctx context.Context, p *player.Player) (bool, error) {
	const query = `
		INSERT INTO players (external_id, name, position, number, photo_url, team_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			number = EXCLUDED.number,
			photo_url = EXCLUDED.photo_url,
			team_id = EXCLUDED.team_id,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS created`

	var row struct {
		ID      int64 `db:"id"`
		Created bool  `db:"created"`
	}
	err := r.db.GetContext(ctx, &row, query,
		p.ExternalID, p.Name, p.Position, p.Number, p.PhotoURL, p.TeamID)
	if err != nil {
		return false, fmt.Errorf("upsert player: %w", err)
	}

	p.ID = row.ID
	return row.Created, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*player.Player, error) {
	var p player.Player
	err := r.db.GetContext(ctx, &p, `SELECT * FROM players WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return nil, player.ErrNotFound
		}
		return nil, fmt.Errorf("select player by id: %w", err)
	}
	return &p, nil
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (*player.Player, error) {
	var p player.Player
	err := r.db.GetContext(ctx, &p, `SELECT * FROM players WHERE external_id = $1`, externalID)
	if err != nil {
		if isNotFound(err) {
			return nil, player.ErrNotFound
		}
		return nil, fmt.Errorf("select player by external id: %w", err)
	}
	return &p, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	out := make([]player.Player, 0)
	err := r.db.SelectContext(ctx, &out, `SELECT * FROM players WHERE team_id = $1 ORDER BY id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("select players by team: %w", err)
	}
	return out, nil
}
