package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/50RISHU/E-Sport-Calc/models"
	"github.com/50RISHU/E-Sport-Calc/repositories"
)

// Subscriber receives the full tournament collection after every successful
// mutation or load.
type Subscriber func([]models.Tournament)

// Store owns the canonical in-memory tournament collection and keeps it
// consistent with a persistence adapter. Structural mutations (tournament,
// team and match existence) are adapter-confirmed: memory changes only after
// the adapter accepts the write. Scoring tweaks are optimistic: memory changes
// immediately and the adapter write runs in the background.
type Store struct {
	adapter repositories.Adapter
	logger  *slog.Logger

	mu          sync.Mutex
	tournaments []models.Tournament
	subscribers []Subscriber
}

func New(adapter repositories.Adapter, logger *slog.Logger) *Store {
	return &Store{
		adapter:     adapter,
		logger:      logger,
		tournaments: []models.Tournament{},
	}
}

// Load replaces the in-memory collection with the adapter's contents,
// normalizing legacy records on the way in. On adapter failure the current
// collection stays available.
func (s *Store) Load(ctx context.Context) error {
	list, err := s.adapter.FetchAll(ctx)
	if err != nil {
		s.logger.Error("load failed, keeping last known collection", slog.Any("error", err))
		return mapAdapterError(err)
	}
	for i := range list {
		normalize(&list[i])
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments = list
	s.notifyLocked()
	return nil
}

// Subscribe registers fn and immediately delivers the current snapshot.
// Subscribers are invoked synchronously, in registration order, under the
// store's own serialization; they must not call mutation operations.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
	fn(cloneTournaments(s.tournaments))
}

// Snapshot returns a deep copy of the current collection.
func (s *Store) Snapshot() []models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTournaments(s.tournaments)
}

// Get returns a deep copy of one tournament.
func (s *Store) Get(id string) (models.Tournament, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Tournament{}, false
	}
	return cloneTournament(s.tournaments[idx]), true
}

func (s *Store) notifyLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snapshot := cloneTournaments(s.tournaments)
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tournaments {
		if s.tournaments[i].ID == id {
			return i
		}
	}
	return -1
}

// normalize repairs records written by older versions of the app: absent team
// or match lists become empty ones, and matches come out sorted by their
// sequence number.
func normalize(t *models.Tournament) {
	if t.Teams == nil {
		t.Teams = []models.Team{}
	}
	if t.Matches == nil {
		t.Matches = []models.Match{}
	}
	if t.Scoring.Positions == nil {
		t.Scoring.Positions = []models.PositionPoints{}
	}
	sortMatches(t.Matches)
}

func sortMatches(matches []models.Match) {
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
}

func cloneTournaments(list []models.Tournament) []models.Tournament {
	out := make([]models.Tournament, len(list))
	for i := range list {
		out[i] = cloneTournament(list[i])
	}
	return out
}

func cloneTournament(t models.Tournament) models.Tournament {
	out := t
	out.Teams = make([]models.Team, len(t.Teams))
	for i, team := range t.Teams {
		out.Teams[i] = team
		out.Teams[i].Players = append([]string{}, team.Players...)
	}
	out.Matches = make([]models.Match, len(t.Matches))
	for i, match := range t.Matches {
		out.Matches[i] = match
		out.Matches[i].Results = append([]models.MatchResult{}, match.Results...)
	}
	out.Scoring.Positions = append([]models.PositionPoints{}, t.Scoring.Positions...)
	return out
}
