package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/analysis"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/event"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/match"
	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/team"
	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/logging"
)

const (
	previewLookahead = 48 * time.Hour
	formSampleSize   = 5
)

// PreviewService writes pre-match previews from stored form data: recent
// results, a naive score prediction, and the in-form scorers.
type PreviewService struct {
	matches  match.Repository
	events   event.Repository
	previews analysis.Repository
	teams    team.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewPreviewService(
	matches match.Repository,
	events event.Repository,
	previews analysis.Repository,
	teams team.Repository,
	logger *logging.Logger,
	now func() time.Time,
) *PreviewService {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &PreviewService{
		matches:  matches,
		events:   events,
		previews: previews,
		teams:    teams,
		logger:   logger,
		now:      now,
	}
}

// SyncPreviews generates previews for upcoming matches that lack one.
// Existing previews are left alone; regeneration would clobber better data
// with the same inputs.
func (s *PreviewService) SyncPreviews(ctx context.Context) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreviewService.SyncPreviews")
	defer span.End()

	var summary SyncSummary
	now := s.now()

	upcoming, err := s.matches.ListByKickoffRange(ctx, now, now.Add(previewLookahead))
	if err != nil {
		return summary, fmt.Errorf("sync previews: list upcoming: %w", err)
	}

	ids := make([]int64, 0, len(upcoming))
	for _, m := range upcoming {
		if m.IsScheduled() {
			ids = append(ids, m.ID)
		}
	}
	existing, err := s.previews.ListMatchIDsWithPreview(ctx, ids)
	if err != nil {
		return summary, fmt.Errorf("sync previews: list existing: %w", err)
	}

	for _, m := range upcoming {
		if !m.IsScheduled() {
			summary.Skipped++
			continue
		}
		if _, ok := existing[m.ID]; ok {
			summary.Skipped++
			continue
		}

		preview, err := s.buildPreview(ctx, m)
		if err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "build preview failed", "match_id", m.ID, "error", err)
			continue
		}
		created, err := s.previews.Upsert(ctx, preview)
		if err != nil {
			summary.Failed++
			s.logger.ErrorContext(ctx, "upsert preview failed", "match_id", m.ID, "error", err)
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	s.logger.InfoContext(ctx, "preview sync finished",
		"created", summary.Created, "skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

type teamForm struct {
	name    string
	wins    int
	draws   int
	losses  int
	scored  int
	scorers map[string]int
}

func (s *PreviewService) buildPreview(ctx context.Context, m match.Match) (*analysis.Preview, error) {
	home, err := s.teamFormFor(ctx, m.HomeTeamID)
	if err != nil {
		return nil, err
	}
	away, err := s.teamFormFor(ctx, m.AwayTeamID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s host %s.", home.name, away.name)
	if total := home.wins + home.draws + home.losses; total > 0 {
		fmt.Fprintf(&b, " %s come in with %d wins, %d draws and %d losses from their last %d matches.",
			home.name, home.wins, home.draws, home.losses, total)
	}
	if total := away.wins + away.draws + away.losses; total > 0 {
		fmt.Fprintf(&b, " %s have %d wins, %d draws and %d losses over the same stretch.",
			away.name, away.wins, away.draws, away.losses)
	}

	return &analysis.Preview{
		MatchID:        m.ID,
		Text:           b.String(),
		PredictedScore: fmt.Sprintf("%d-%d", predictGoals(home), predictGoals(away)),
		KeyPlayers:     strings.Join(topScorers(home.scorers, away.scorers), ", "),
	}, nil
}

func (s *PreviewService) teamFormFor(ctx context.Context, teamID int64) (teamForm, error) {
	form := teamForm{scorers: make(map[string]int)}

	t, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return form, fmt.Errorf("load team %d: %w", teamID, err)
	}
	form.name = t.Name

	recent, err := s.matches.ListFinishedByTeam(ctx, teamID, formSampleSize)
	if err != nil {
		return form, fmt.Errorf("load form for team %d: %w", teamID, err)
	}

	for _, m := range recent {
		forGoals, againstGoals := m.HomeScore, m.AwayScore
		if m.AwayTeamID == teamID {
			forGoals, againstGoals = againstGoals, forGoals
		}
		form.scored += forGoals
		switch {
		case forGoals > againstGoals:
			form.wins++
		case forGoals == againstGoals:
			form.draws++
		default:
			form.losses++
		}

		events, err := s.events.ListByMatch(ctx, m.ID)
		if err != nil {
			continue
		}
		for _, e := range events {
			if e.Kind == event.KindGoal && e.TeamID == teamID && e.PlayerName != "" {
				form.scorers[e.PlayerName]++
			}
		}
	}
	return form, nil
}

func predictGoals(form teamForm) int {
	total := form.wins + form.draws + form.losses
	if total == 0 {
		return 1
	}
	return int(math.Round(float64(form.scored) / float64(total)))
}

func topScorers(sides ...map[string]int) []string {
	type scorer struct {
		name  string
		goals int
	}

	out := make([]string, 0, len(sides))
	for _, side := range sides {
		best := scorer{}
		names := make([]string, 0, len(side))
		for name := range side {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if side[name] > best.goals {
				best = scorer{name: name, goals: side[name]}
			}
		}
		if best.name != "" {
			out = append(out, best.name)
		}
	}
	return out
}
