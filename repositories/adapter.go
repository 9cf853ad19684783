package repositories

import (
	"context"
	"errors"

	"github.com/50RISHU/E-Sport-Calc/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already in use for this owner")
	ErrTeamNotFound           = errors.New("team not found")
	ErrMatchNotFound          = errors.New("match not found")
)

// Adapter is the persistence boundary of the store. Two implementations
// exist: a postgres-backed one for the shared relational backend and a local
// sqlite cache for offline use. Both surface the same sentinel errors so the
// store never cares which one it talks to.
//
// UpsertMatch is keyed by (tournament id, match sequence number): repeated
// calls with the same key overwrite the stored results, never duplicate.
type Adapter interface {
	FetchAll(ctx context.Context) ([]models.Tournament, error)

	CreateTournament(ctx context.Context, tournament *models.Tournament) error
	DeleteTournament(ctx context.Context, id string) error

	CreateTeam(ctx context.Context, tournamentID string, team *models.Team) error
	DeleteTeam(ctx context.Context, tournamentID, teamID string) error
	UpdateTeamLogo(ctx context.Context, tournamentID, teamID string, logo *string) error

	UpsertMatch(ctx context.Context, tournamentID string, match models.Match) error
	DeleteMatch(ctx context.Context, tournamentID string, matchID int) error

	UpdateKillPoints(ctx context.Context, tournamentID string, value float64) error
	UpdatePositionPoints(ctx context.Context, tournamentID string, positions []models.PositionPoints) error

	SaveDefaultScoring(ctx context.Context, scoring models.Scoring) error
	LoadDefaultScoring(ctx context.Context) (*models.Scoring, error)
}
