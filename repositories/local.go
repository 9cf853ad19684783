package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/50RISHU/E-Sport-Calc/models"
	_ "modernc.org/sqlite"
)

// Well-known cache keys. The whole tournament collection lives under a single
// key as one JSON blob, mirroring how the browser build keeps it in
// localStorage.
const (
	localTournamentsKey = "tournaments_v1"
	localDefaultsKey    = "scoring_defaults"
)

type localAdapter struct {
	db     *sql.DB
	logger *slog.Logger

	// Serializes read-modify-write cycles on the blob.
	mu sync.Mutex
}

// NewLocalAdapter opens (or creates) the durable local cache at path. A
// missing or corrupt blob is treated as an empty collection, never an error.
func NewLocalAdapter(path string, logger *slog.Logger) (Adapter, error) {
	if path == "" {
		return nil, errors.New("local adapter: sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cache (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}
	return &localAdapter{db: db, logger: logger}, nil
}

func (a *localAdapter) FetchAll(ctx context.Context) ([]models.Tournament, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.readCollection(ctx), nil
}

func (a *localAdapter) CreateTournament(ctx context.Context, t *models.Tournament) error {
	return a.mutate(ctx, func(list []models.Tournament) ([]models.Tournament, error) {
		for _, existing := range list {
			if existing.Name == t.Name {
				return nil, ErrTournamentNameConflict
			}
		}
		return append([]models.Tournament{*t}, list...), nil
	})
}

func (a *localAdapter) DeleteTournament(ctx context.Context, id string) error {
	return a.mutate(ctx, func(list []models.Tournament) ([]models.Tournament, error) {
		next := list[:0]
		found := false
		for _, t := range list {
			if t.ID == id {
				found = true
				continue
			}
			next = append(next, t)
		}
		if !found {
			return nil, ErrTournamentNotFound
		}
		return next, nil
	})
}

func (a *localAdapter) CreateTeam(ctx context.Context, tournamentID string, team *models.Team) error {
	return a.mutate(ctx, func(list []models.Tournament) ([]models.Tournament, error) {
		idx := indexOf(list, tournamentID)
		if idx < 0 {
			return nil, ErrTournamentNotFound
		}
		list[idx].Teams = append(list[idx].Teams, *team)
		return list, nil
	})
}

func (a *localAdapter) DeleteTeam(ctx context.Context, tournamentID, teamID string) error {
	return a.mutate(ctx, func(list []models.Tournament) ([]models.Tournament, error) {
		idx := indexOf(list, tournamentID)
		if idx < 0 {
			return nil, ErrTournamentNotFound
		}
		teams := list[idx].Teams
		next := teams[:0]
		found := false
		for _, team := range teams {
			if team.ID == teamID {
				found = true
				continue
			}
			next = append(next, team)
		}
		if !found {
			return nil, ErrTeamNotFound
		}
		list[idx].Teams = next
		return list, nil
	})
}

func (a *localAdapter) UpdateTeamLogo(ctx context.Context, tournamentID, teamID string, logo *string) error {
	return a.mutate(ctx, func(list []models.Tournament) ([]models.Tournament, error) {
		idx := indexOf(list, tournamentID)
		if idx < 0 {
			return nil, ErrTournamentNotFound
		}
		for i := range list[idx].Teams {
			if list[idx].Teams[i].ID == teamID {
				list[idx].Teams[i].Logo = logo
				return list, nil
			}
		}
		return nil, ErrTeamNotFound
	})
}

func (a *localAdapter) UpsertMatch(ctx context.Context, tournamentID string, match models.Match) error {
	return a.mutate(ctx, func(list []models.Tournament) ([]models.Tournament, error) {
		idx := indexOf(list, tournamentID)
		if idx < 0 {
			return nil, ErrTournamentNotFound
		}
		matches := list[idx].Matches
		replaced := false
		for i := range matches {
			if matches[i].ID == match.ID {
				matches[i] = match
				replaced = true
				break
			}
		}
		if !replaced {
			matches = append(matches, match)
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
		list[idx].Matches = matches
		return list, nil
	})
}

func (a *localAdapter) DeleteMatch(ctx context.Context, tournamentID string, matchID int) error {
	return a.mutate(ctx, func(list []models.Tournament) ([]models.Tournament, error) {
		idx := indexOf(list, tournamentID)
		if idx < 0 {
			return nil, ErrTournamentNotFound
		}
		matches := list[idx].Matches
		next := matches[:0]
		found := false
		for _, m := range matches {
			if m.ID == matchID {
				found = true
				continue
			}
			next = append(next, m)
		}
		if !found {
			return nil, ErrMatchNotFound
		}
		list[idx].Matches = next
		return list, nil
	})
}

func (a *localAdapter) UpdateKillPoints(ctx context.Context, tournamentID string, value float64) error {
	return a.mutate(ctx, func(list []models.Tournament) ([]models.Tournament, error) {
		idx := indexOf(list, tournamentID)
		if idx < 0 {
			return nil, ErrTournamentNotFound
		}
		list[idx].Scoring.KillPoints = value
		return list, nil
	})
}

func (a *localAdapter) UpdatePositionPoints(ctx context.Context, tournamentID string, positions []models.PositionPoints) error {
	return a.mutate(ctx, func(list []models.Tournament) ([]models.Tournament, error) {
		idx := indexOf(list, tournamentID)
		if idx < 0 {
			return nil, ErrTournamentNotFound
		}
		list[idx].Scoring.Positions = positions
		return list, nil
	})
}

func (a *localAdapter) SaveDefaultScoring(ctx context.Context, scoring models.Scoring) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	raw, err := json.Marshal(scoring)
	if err != nil {
		return fmt.Errorf("encode default scoring: %w", err)
	}
	return a.writeKey(ctx, localDefaultsKey, raw)
}

func (a *localAdapter) LoadDefaultScoring(ctx context.Context) (*models.Scoring, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	raw, ok := a.readKey(ctx, localDefaultsKey)
	if !ok {
		return nil, nil
	}
	var scoring models.Scoring
	if err := json.Unmarshal(raw, &scoring); err != nil {
		a.logger.Warn("discarding malformed default scoring blob", slog.Any("error", err))
		return nil, nil
	}
	return &scoring, nil
}

// mutate runs fn over the current collection and persists the result. fn may
// return a sentinel error to abort without writing.
func (a *localAdapter) mutate(ctx context.Context, fn func([]models.Tournament) ([]models.Tournament, error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	list, err := fn(a.readCollection(ctx))
	if err != nil {
		return err
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode tournaments: %w", err)
	}
	return a.writeKey(ctx, localTournamentsKey, raw)
}

func (a *localAdapter) readCollection(ctx context.Context) []models.Tournament {
	raw, ok := a.readKey(ctx, localTournamentsKey)
	if !ok {
		return []models.Tournament{}
	}
	var list []models.Tournament
	if err := json.Unmarshal(raw, &list); err != nil {
		a.logger.Warn("discarding malformed tournaments blob", slog.Any("error", err))
		return []models.Tournament{}
	}
	if list == nil {
		list = []models.Tournament{}
	}
	return list
}

func (a *localAdapter) readKey(ctx context.Context, key string) ([]byte, bool) {
	var value string
	err := a.db.QueryRowContext(ctx, `SELECT value FROM cache WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			a.logger.Warn("local cache read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	return []byte(value), true
}

func (a *localAdapter) writeKey(ctx context.Context, key string, value []byte) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO cache (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("write cache key %s: %w", key, err)
	}
	return nil
}

func indexOf(list []models.Tournament, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
