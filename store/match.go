package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/50RISHU/E-Sport-Calc/models"
	"github.com/50RISHU/E-Sport-Calc/repositories"
)

// SaveMatch upserts a match keyed by (tournament id, match sequence number).
// Saving the same number twice replaces the stored results; the match list
// stays sorted ascending by sequence number. Result payloads are opaque to
// the store: points arrive pre-computed and are persisted as-is.
func (s *Store) SaveMatch(ctx context.Context, tournamentID string, matchID int, results []models.MatchResult) error {
	if matchID <= 0 {
		return ErrInvalidMatchNumber
	}

	s.mu.Lock()
	idx := s.indexLocked(tournamentID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrTournamentNotFound
	}
	name := fmt.Sprintf("Match %d", matchID)
	for _, m := range s.tournaments[idx].Matches {
		if m.ID == matchID && m.Name != "" {
			name = m.Name
			break
		}
	}
	s.mu.Unlock()

	if results == nil {
		results = []models.MatchResult{}
	}
	match := models.Match{ID: matchID, Name: name, Results: results}
	if err := s.adapter.UpsertMatch(ctx, tournamentID, match); err != nil {
		return mapAdapterError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx = s.indexLocked(tournamentID)
	if idx < 0 {
		return nil
	}
	matches := s.tournaments[idx].Matches
	replaced := false
	for i := range matches {
		if matches[i].ID == matchID {
			matches[i] = match
			replaced = true
			break
		}
	}
	if !replaced {
		matches = append(matches, match)
	}
	sortMatches(matches)
	s.tournaments[idx].Matches = matches
	s.notifyLocked()
	return nil
}

// DeleteMatch removes the entry from memory only after the adapter confirms
// the delete. A match that is already gone is a no-op.
func (s *Store) DeleteMatch(ctx context.Context, tournamentID string, matchID int) error {
	s.mu.Lock()
	if s.indexLocked(tournamentID) < 0 {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	err := s.adapter.DeleteMatch(ctx, tournamentID, matchID)
	if err != nil && !errors.Is(err, repositories.ErrMatchNotFound) && !errors.Is(err, repositories.ErrTournamentNotFound) {
		return mapAdapterError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(tournamentID)
	if idx < 0 {
		return nil
	}
	matches := s.tournaments[idx].Matches
	for i := range matches {
		if matches[i].ID == matchID {
			s.tournaments[idx].Matches = append(matches[:i], matches[i+1:]...)
			s.notifyLocked()
			break
		}
	}
	return nil
}
