package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/lineup"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) ReplaceForMatch(ctx context.Context, matchID int64, lineups []lineup.Lineup) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace lineups: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// lineup_players rows go with their lineup via ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, `DELETE FROM lineups WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete lineups for match: %w", err)
	}

	for _, l := range lineups {
		var lineupID int64
		err := tx.GetContext(ctx, &lineupID, `
			INSERT INTO lineups (match_id, team_id, formation, coach_name, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id`,
			matchID, l.TeamID, l.Formation, l.CoachName)
		if err != nil {
			return fmt.Errorf("insert lineup: %w", err)
		}

		for _, p := range l.Players {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO lineup_players (lineup_id, player_external_id, name, number, position, grid, starting)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				lineupID, p.PlayerExternalID, p.Name, p.Number, p.Position, p.Grid, p.Starting)
			if err != nil {
				return fmt.Errorf("insert lineup player: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace lineups: %w", err)
	}
	return nil
}

func (r *LineupRepository) ListByMatch(ctx context.Context, matchID int64) ([]lineup.Lineup, error) {
	out := make([]lineup.Lineup, 0)
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, match_id, team_id, formation, coach_name, created_at
		 FROM lineups WHERE match_id = $1 ORDER BY id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("select lineups by match: %w", err)
	}

	for i := range out {
		players := make([]lineup.Player, 0)
		err := r.db.SelectContext(ctx, &players,
			`SELECT * FROM lineup_players WHERE lineup_id = $1 ORDER BY starting DESC, number, id`, out[i].ID)
		if err != nil {
			return nil, fmt.Errorf("select lineup players: %w", err)
		}
		out[i].Players = players
	}
	return out, nil
}
