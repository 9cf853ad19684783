package store

import (
	"context"
	"log/slog"

	"github.com/50RISHU/E-Sport-Calc/models"
)

// UpdateKillPoints applies the new multiplier to memory immediately and fires
// the adapter write in the background. A failed write is logged, not
// surfaced: scoring edits are low stakes and frequently re-issued, so
// responsiveness wins over strict consistency here.
func (s *Store) UpdateKillPoints(id string, value float64) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrTournamentNotFound
	}
	s.tournaments[idx].Scoring.KillPoints = value
	s.notifyLocked()
	s.mu.Unlock()

	go func() {
		if err := s.adapter.UpdateKillPoints(context.Background(), id, value); err != nil {
			s.logger.Error("background kill points write failed",
				slog.String("tournament_id", id), slog.Any("error", err))
		}
	}()
	return nil
}

// UpdatePositionPoints replaces the placement points table, optimistically
// like UpdateKillPoints.
func (s *Store) UpdatePositionPoints(id string, positions []models.PositionPoints) error {
	if positions == nil {
		positions = []models.PositionPoints{}
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrTournamentNotFound
	}
	s.tournaments[idx].Scoring.Positions = append([]models.PositionPoints{}, positions...)
	s.notifyLocked()
	s.mu.Unlock()

	go func() {
		if err := s.adapter.UpdatePositionPoints(context.Background(), id, positions); err != nil {
			s.logger.Error("background position points write failed",
				slog.String("tournament_id", id), slog.Any("error", err))
		}
	}()
	return nil
}

// SaveDefaultScoring persists the owner-level default configuration consulted
// by AddTournament.
func (s *Store) SaveDefaultScoring(ctx context.Context, scoring models.Scoring) error {
	return mapAdapterError(s.adapter.SaveDefaultScoring(ctx, scoring))
}

// LoadDefaultScoring returns the saved default configuration, or the built-in
// fallback when none was ever saved.
func (s *Store) LoadDefaultScoring(ctx context.Context) (models.Scoring, error) {
	saved, err := s.adapter.LoadDefaultScoring(ctx)
	if err != nil {
		return models.Scoring{}, mapAdapterError(err)
	}
	if saved == nil {
		return models.DefaultScoring(), nil
	}
	return *saved, nil
}
