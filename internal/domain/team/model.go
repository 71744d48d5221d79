package team

import "time"

type Team struct {
	ID         int64     `db:"id" json:"id"`
	ExternalID int64     `db:"external_id" json:"externalId"`
	Name       string    `db:"name" json:"name"`
	Code       string    `db:"code" json:"code"`
	Country    string    `db:"country" json:"country"`
	Founded    int       `db:"founded" json:"founded"`
	LogoURL    string    `db:"logo_url" json:"logoUrl"`
	VenueName  string    `db:"venue_name" json:"venueName"`
	VenueCity  string    `db:"venue_city" json:"venueCity"`
	LeagueID   int64     `db:"league_id" json:"leagueId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
