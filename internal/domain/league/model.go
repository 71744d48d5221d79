package league

import "time"

// League mirrors a competition as the provider reports it. ExternalID is the
// provider's league id and the natural key for ingestion.
type League struct {
	ID         int64     `db:"id" json:"id"`
	ExternalID int64     `db:"external_id" json:"externalId"`
	Name       string    `db:"name" json:"name"`
	Country    string    `db:"country" json:"country"`
	LogoURL    string    `db:"logo_url" json:"logoUrl"`
	FlagURL    string    `db:"flag_url" json:"flagUrl"`
	Season     int       `db:"season" json:"season"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// AllowedPair is one (country, league name) entry of the ingestion
// allow-list. Matching is case-insensitive on both parts.
type AllowedPair struct {
	Country string
	Name    string
}

// DefaultAllowList covers the competitions worth syncing. Everything else
// the provider returns is skipped at ingestion time.
var DefaultAllowList = []AllowedPair{
	{"England", "Premier League"},
	{"Spain", "La Liga"},
	{"Italy", "Serie A"},
	{"Germany", "Bundesliga"},
	{"France", "Ligue 1"},
	{"Netherlands", "Eredivisie"},
	{"Portugal", "Primeira Liga"},
	{"Turkey", "Süper Lig"},
	{"World", "UEFA Champions League"},
	{"World", "UEFA Europa League"},
	{"World", "UEFA Europa Conference League"},
}
