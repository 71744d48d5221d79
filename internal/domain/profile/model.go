package profile

import (
	"time"

	"github.com/EsatCanStudent/UpdatedScores2/internal/domain/notification"
)

// Profile carries a user's notification preferences and the teams, leagues
// and players they follow.
type Profile struct {
	ID                int64                 `db:"id" json:"id"`
	UserID            int64                 `db:"user_id" json:"userId"`
	Email             string                `db:"email" json:"email"`
	PushToken         string                `db:"push_token" json:"pushToken"`
	FavoriteTeamIDs   []int64               `db:"-" json:"favoriteTeamIds"`
	FavoriteLeagueIDs []int64               `db:"-" json:"favoriteLeagueIds"`
	FavoritePlayerIDs []int64               `db:"-" json:"favoritePlayerIds"`
	NotifyGoals       bool                  `db:"notify_goals" json:"notifyGoals"`
	NotifyRedCards    bool                  `db:"notify_red_cards" json:"notifyRedCards"`
	NotifyLineups     bool                  `db:"notify_lineups" json:"notifyLineups"`
	NotifyMatchStart  bool                  `db:"notify_match_start" json:"notifyMatchStart"`
	NotifyImportant   bool                  `db:"notify_important" json:"notifyImportant"`
	Delivery          notification.Delivery `db:"delivery" json:"delivery"`
	CreatedAt         time.Time             `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time             `db:"updated_at" json:"updatedAt"`
}

// Wants reports whether the profile has opted in to the given kind.
func (p *Profile) Wants(kind notification.Kind) bool {
	switch kind {
	case notification.KindGoal:
		return p.NotifyGoals
	case notification.KindRedCard:
		return p.NotifyRedCards
	case notification.KindLineup:
		return p.NotifyLineups
	case notification.KindMatchStart:
		return p.NotifyMatchStart
	case notification.KindImportant:
		return p.NotifyImportant
	default:
		return false
	}
}

func (p *Profile) FollowsTeam(teamID int64) bool {
	for _, id := range p.FavoriteTeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

func (p *Profile) FollowsLeague(leagueID int64) bool {
	for _, id := range p.FavoriteLeagueIDs {
		if id == leagueID {
			return true
		}
	}
	return false
}

func (p *Profile) FollowsPlayer(playerID int64) bool {
	for _, id := range p.FavoritePlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
