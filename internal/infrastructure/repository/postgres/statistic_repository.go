package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/statistic"
)

type StatisticRepository struct {
	db *sqlx.DB
}

func NewStatisticRepository(db *sqlx.DB) *StatisticRepository {
	return &StatisticRepository{db: db}
}

func (r *StatisticRepository) ReplaceForMatch(ctx context.Context, matchID int64, stats []statistic.Statistic) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace statistics: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM statistics WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete statistics for match: %w", err)
	}

	for _, s := range stats {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO statistics (match_id, team_id, name, value) VALUES ($1, $2, $3, $4)`,
			matchID, s.TeamID, s.Name, s.Value)
		if err != nil {
			return fmt.Errorf("insert statistic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace statistics: %w", err)
	}
	return nil
}

func (r *StatisticRepository) ListByMatch(ctx context.Context, matchID int64) ([]statistic.Statistic, error) {
	out := make([]statistic.Statistic, 0)
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM statistics WHERE match_id = $1 ORDER BY team_id, id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("select statistics by match: %w", err)
	}
	return out, nil
}
