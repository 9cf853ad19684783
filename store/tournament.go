package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/50RISHU/E-Sport-Calc/models"
	"github.com/50RISHU/E-Sport-Calc/repositories"
	"github.com/google/uuid"
)

// AddTournament creates a tournament seeded with the saved default scoring
// configuration, or the built-in fallback when none was saved. The new record
// goes to the front of the collection (most recent first). There is no
// optimistic insert: if the adapter rejects the creation, for example on a
// duplicate name, memory is untouched.
func (s *Store) AddTournament(ctx context.Context, name string, roundRobin bool, groupCount int) (string, error) {
	scoring := models.DefaultScoring()
	saved, err := s.adapter.LoadDefaultScoring(ctx)
	if err != nil {
		s.logger.Warn("falling back to built-in scoring defaults", slog.Any("error", err))
	} else if saved != nil {
		scoring = *saved
	}

	t := models.Tournament{
		ID:         uuid.NewString(),
		Name:       name,
		RoundRobin: roundRobin,
		GroupCount: groupCount,
		Teams:      []models.Team{},
		Matches:    []models.Match{},
		CreatedAt:  time.Now().UTC(),
		Scoring:    scoring,
	}
	if err := s.adapter.CreateTournament(ctx, &t); err != nil {
		return "", mapAdapterError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments = append([]models.Tournament{t}, s.tournaments...)
	s.notifyLocked()
	return t.ID, nil
}

// RemoveTournament deletes from the adapter first; memory changes only after
// the backend confirms. The backend cascades to the tournament's teams and
// matches. Removing an already-absent tournament is a no-op.
func (s *Store) RemoveTournament(ctx context.Context, id string) error {
	if err := s.adapter.DeleteTournament(ctx, id); err != nil && !errors.Is(err, repositories.ErrTournamentNotFound) {
		return mapAdapterError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil
	}
	s.tournaments = append(s.tournaments[:idx], s.tournaments[idx+1:]...)
	s.notifyLocked()
	return nil
}
