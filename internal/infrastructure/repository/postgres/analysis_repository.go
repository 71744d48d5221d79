package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sqlx.DB
}

func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Upsert(ctx context.Context, p *analysis.Preview) (bool, error) {
	const query = `
		INSERT INTO previews (match_id, text, predicted_score, key_players, generated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (match_id) DO UPDATE SET
			text = EXCLUDED.text,
			predicted_score = EXCLUDED.predicted_score,
			key_players = EXCLUDED.key_players,
			generated_at = NOW()
		RETURNING id, (xmax = 0) AS created`

	var row struct {
		ID      int64 `db:"id"`
		Created bool  `db:"created"`
	}
	err := r.db.GetContext(ctx, &row, query, p.MatchID, p.Text, p.PredictedScore, p.KeyPlayers)
	if err != nil {
		return false, fmt.Errorf("upsert preview: %w", err)
	}

	p.ID = row.ID
	return row.Created, nil
}

func (r *AnalysisRepository) GetByMatch(ctx context.Context, matchID int64) (*analysis.Preview, error) {
	var p analysis.Preview
	err := r.db.GetContext(ctx, &p, `SELECT * FROM previews WHERE match_id = $1`, matchID)
	if err != nil {
		if isNotFound(err) {
			return nil, analysis.ErrNotFound
		}
		return nil, fmt.Errorf("select preview by match: %w", err)
	}
	return &p, nil
}

func (r *AnalysisRepository) ListMatchIDsWithPreview(ctx context.Context, matchIDs []int64) (map[int64]struct{}, error) {
	out := make(map[int64]struct{})
	if len(matchIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT match_id FROM previews WHERE match_id IN (?)`, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("build previews query: %w", err)
	}
	query = r.db.Rebind(query)

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select previewed match ids: %w", err)
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}
