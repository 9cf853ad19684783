package models

// Match is identified by a small user-facing sequence number ("Match 1",
// "Match 2"), distinct from any backend row id. Within a tournament the match
// list is unique on that number and kept sorted ascending by it.
type Match struct {
	ID      int           `json:"id" db:"match_id_manual"`
	Name    string        `json:"name" db:"name"`
	Results []MatchResult `json:"results" db:"-"`
}

// MatchResult records one team's outcome in a match. The three point fields
// arrive already computed by the caller and are stored as-is.
type MatchResult struct {
	TeamID      string  `json:"teamId"`
	Kills       int     `json:"kills"`
	Position    int     `json:"position"`
	KillPoints  float64 `json:"killPoints"`
	PlacePoints float64 `json:"placePoints"`
	TotalPoints float64 `json:"totalPoints"`
}
