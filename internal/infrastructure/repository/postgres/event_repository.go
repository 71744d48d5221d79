package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/event"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ReplaceForMatch deletes and reinserts inside one transaction so readers
// never observe a half-written timeline.
func (r *EventRepository) ReplaceForMatch(ctx context.Context, matchID int64, events []event.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace events: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete events for match: %w", err)
	}

	// A payload repeating the same (kind, minute, player) tuple no-ops on
	// the second row instead of failing the batch.
	const insert = `
		INSERT INTO events (match_id, team_id, player_id, player_name, assist_id, assist_name,
			kind, minute, extra_minute, detail, comments, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (match_id, kind, minute, player_id) DO NOTHING`
	for _, e := range events {
		_, err := tx.ExecContext(ctx, insert,
			matchID, e.TeamID, e.PlayerID, e.PlayerName, e.AssistID, e.AssistName,
			e.Kind, e.Minute, e.ExtraMinute, e.Detail, e.Comments)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace events: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID int64) ([]event.Event, error) {
	out := make([]event.Event, 0)
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM events WHERE match_id = $1 ORDER BY minute, extra_minute, id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("select events by match: %w", err)
	}
	return out, nil
}
