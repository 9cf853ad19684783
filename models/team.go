package models

// Team belongs to exactly one tournament. Number is 1-based, assigned once at
// creation and never renumbered when other teams are removed. Group is set
// only for round-robin tournaments.
type Team struct {
	ID      string   `json:"id" db:"id"`
	Name    string   `json:"name" db:"name"`
	Tag     string   `json:"tag" db:"tag"`
	Logo    *string  `json:"logo" db:"logo"`
	Number  int      `json:"number" db:"number"`
	Group   *string  `json:"group" db:"group_label"`
	Players []string `json:"players" db:"-"`
}

// NewTeam carries the caller-supplied fields of a team; identifier and
// sequence number are assigned by the store.
type NewTeam struct {
	Name    string   `json:"name"`
	Tag     string   `json:"tag"`
	Logo    *string  `json:"logo"`
	Group   *string  `json:"group"`
	Players []string `json:"players"`
}
