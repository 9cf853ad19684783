package store

import (
	"errors"

	"github.com/50RISHU/E-Sport-Calc/repositories"
)

var (
	// ErrTournamentNotFound is returned when an operation references a
	// tournament identifier the store does not hold.
	ErrTournamentNotFound = errors.New("tournament not found")

	// ErrDuplicateName is returned when the backend rejects a tournament
	// creation because the name is already taken for this owner.
	ErrDuplicateName = errors.New("tournament name already in use")

	// ErrInvalidMatchNumber is returned for non-positive match sequence
	// numbers.
	ErrInvalidMatchNumber = errors.New("match number must be a positive integer")
)

func mapAdapterError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrDuplicateName
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	default:
		return err
	}
}
