package store

import (
	"context"
	"errors"

	"github.com/50RISHU/E-Sport-Calc/models"
	"github.com/50RISHU/E-Sport-Calc/repositories"
	"github.com/google/uuid"
)

const defaultGroup = "A"

// AddTeam assigns the next sequence number and resolves the group label, then
// appends the team once the adapter accepts the insert. Returns the new team
// identifier.
func (s *Store) AddTeam(ctx context.Context, tournamentID string, in models.NewTeam) (string, error) {
	s.mu.Lock()
	idx := s.indexLocked(tournamentID)
	if idx < 0 {
		s.mu.Unlock()
		return "", ErrTournamentNotFound
	}
	t := s.tournaments[idx]
	number := nextTeamNumber(t.Teams)
	group := resolveGroup(t.RoundRobin, in.Group)
	s.mu.Unlock()

	players := in.Players
	if players == nil {
		players = []string{}
	}
	team := models.Team{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Tag:     in.Tag,
		Logo:    in.Logo,
		Number:  number,
		Group:   group,
		Players: players,
	}
	if err := s.adapter.CreateTeam(ctx, tournamentID, &team); err != nil {
		return "", mapAdapterError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(tournamentID); idx >= 0 {
		s.tournaments[idx].Teams = append(s.tournaments[idx].Teams, team)
		s.notifyLocked()
	}
	return team.ID, nil
}

// RemoveTeam is idempotent: an unknown tournament or team is a no-op, not an
// error.
func (s *Store) RemoveTeam(ctx context.Context, tournamentID, teamID string) error {
	s.mu.Lock()
	if s.indexLocked(tournamentID) < 0 {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	err := s.adapter.DeleteTeam(ctx, tournamentID, teamID)
	if err != nil && !errors.Is(err, repositories.ErrTeamNotFound) && !errors.Is(err, repositories.ErrTournamentNotFound) {
		return mapAdapterError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(tournamentID)
	if idx < 0 {
		return nil
	}
	teams := s.tournaments[idx].Teams
	for i := range teams {
		if teams[i].ID == teamID {
			s.tournaments[idx].Teams = append(teams[:i], teams[i+1:]...)
			s.notifyLocked()
			break
		}
	}
	return nil
}

// SetTeamLogo updates a team's logo reference, adapter-confirmed like the
// other structural mutations.
func (s *Store) SetTeamLogo(ctx context.Context, tournamentID, teamID string, logo *string) error {
	s.mu.Lock()
	if s.indexLocked(tournamentID) < 0 {
		s.mu.Unlock()
		return ErrTournamentNotFound
	}
	s.mu.Unlock()

	if err := s.adapter.UpdateTeamLogo(ctx, tournamentID, teamID, logo); err != nil {
		return mapAdapterError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(tournamentID)
	if idx < 0 {
		return nil
	}
	teams := s.tournaments[idx].Teams
	for i := range teams {
		if teams[i].ID == teamID {
			teams[i].Logo = logo
			s.notifyLocked()
			break
		}
	}
	return nil
}

// nextTeamNumber yields count+1 until a team has been removed, after which it
// keeps counting past the highest number ever assigned. Numbers are never
// reused.
func nextTeamNumber(teams []models.Team) int {
	n := len(teams) + 1
	for _, team := range teams {
		if team.Number >= n {
			n = team.Number + 1
		}
	}
	return n
}

// resolveGroup enforces the invariant that a group label exists exactly when
// the tournament is round-robin. Round-robin teams with no requested group
// land in group "A".
func resolveGroup(roundRobin bool, requested *string) *string {
	if !roundRobin {
		return nil
	}
	group := defaultGroup
	if requested != nil && *requested != "" {
		group = *requested
	}
	return &group
}
