package models

import "time"

// Tournament is the top-level entity: teams, per-match results and the scoring
// configuration live nested under it. Teams and Matches are never nil in
// memory; records loaded from older stores are normalized on load.
type Tournament struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	RoundRobin bool      `json:"roundRobin" db:"round_robin"`
	GroupCount int       `json:"groupCount" db:"group_count"`
	Teams      []Team    `json:"teams" db:"-"`
	Matches    []Match   `json:"matches" db:"-"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	Scoring    Scoring   `json:"scoring" db:"-"`
}

// Scoring holds the kill-point multiplier and the points awarded per final
// placement. The store treats computed match points as opaque payload; this
// configuration only feeds the caller's formulas.
type Scoring struct {
	KillPoints float64          `json:"killPoints" db:"kill_points"`
	Positions  []PositionPoints `json:"positions" db:"-"`
}

type PositionPoints struct {
	Place  int `json:"place"`
	Points int `json:"points"`
}

// DefaultScoringPlaces is the number of placement slots seeded when no saved
// default exists.
const DefaultScoringPlaces = 20

// DefaultScoring returns the hard-coded fallback configuration: one point per
// kill, zero placement points for every place.
func DefaultScoring() Scoring {
	positions := make([]PositionPoints, DefaultScoringPlaces)
	for i := range positions {
		positions[i] = PositionPoints{Place: i + 1, Points: 0}
	}
	return Scoring{KillPoints: 1, Positions: positions}
}
