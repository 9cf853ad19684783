package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/50RISHU/E-Sport-Calc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalTestAdapter(t *testing.T) (Adapter, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	logger := slog.New(slog.NewTextHandler(nopWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	adapter, err := NewLocalAdapter(path, logger)
	require.NoError(t, err)
	return adapter, path
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func sampleTournament(id, name string) *models.Tournament {
	return &models.Tournament{
		ID:        id,
		Name:      name,
		Teams:     []models.Team{},
		Matches:   []models.Match{},
		CreatedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Scoring:   models.DefaultScoring(),
	}
}

func TestLocalAdapterEmptyDatabase(t *testing.T) {
	adapter, _ := newLocalTestAdapter(t)

	list, err := adapter.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	scoring, err := adapter.LoadDefaultScoring(context.Background())
	require.NoError(t, err)
	assert.Nil(t, scoring)
}

func TestLocalAdapterRoundTrip(t *testing.T) {
	adapter, path := newLocalTestAdapter(t)
	ctx := context.Background()

	tournament := sampleTournament("t1", "Cup")
	tournament.Teams = append(tournament.Teams, models.Team{ID: "team1", Name: "Alpha", Number: 1, Players: []string{"p1"}})
	require.NoError(t, adapter.CreateTournament(ctx, tournament))

	// Reopen from disk to prove durability.
	logger := slog.New(slog.NewTextHandler(nopWriter{}, nil))
	reopened, err := NewLocalAdapter(path, logger)
	require.NoError(t, err)

	list, err := reopened.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cup", list[0].Name)
	require.Len(t, list[0].Teams, 1)
	assert.Equal(t, "Alpha", list[0].Teams[0].Name)
}

func TestLocalAdapterNameConflict(t *testing.T) {
	adapter, _ := newLocalTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.CreateTournament(ctx, sampleTournament("t1", "Cup")))
	err := adapter.CreateTournament(ctx, sampleTournament("t2", "Cup"))
	require.ErrorIs(t, err, ErrTournamentNameConflict)

	list, err := adapter.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLocalAdapterDeleteRemovesChildren(t *testing.T) {
	adapter, _ := newLocalTestAdapter(t)
	ctx := context.Background()

	tournament := sampleTournament("t1", "Cup")
	require.NoError(t, adapter.CreateTournament(ctx, tournament))
	require.NoError(t, adapter.CreateTeam(ctx, "t1", &models.Team{ID: "team1", Name: "Alpha", Number: 1}))
	require.NoError(t, adapter.UpsertMatch(ctx, "t1", models.Match{ID: 1, Name: "Match 1"}))

	require.NoError(t, adapter.DeleteTournament(ctx, "t1"))
	require.ErrorIs(t, adapter.DeleteTournament(ctx, "t1"), ErrTournamentNotFound)

	list, err := adapter.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLocalAdapterUpsertMatchOverwrites(t *testing.T) {
	adapter, _ := newLocalTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.CreateTournament(ctx, sampleTournament("t1", "Cup")))
	require.NoError(t, adapter.UpsertMatch(ctx, "t1", models.Match{
		ID: 2, Name: "Match 2",
		Results: []models.MatchResult{{TeamID: "team1", Kills: 4}},
	}))
	require.NoError(t, adapter.UpsertMatch(ctx, "t1", models.Match{ID: 1, Name: "Match 1"}))
	require.NoError(t, adapter.UpsertMatch(ctx, "t1", models.Match{
		ID: 2, Name: "Match 2",
		Results: []models.MatchResult{{TeamID: "team1", Kills: 11}},
	}))

	list, err := adapter.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Matches, 2)
	assert.Equal(t, 1, list[0].Matches[0].ID)
	assert.Equal(t, 2, list[0].Matches[1].ID)
	require.Len(t, list[0].Matches[1].Results, 1)
	assert.Equal(t, 11, list[0].Matches[1].Results[0].Kills)
}

func TestLocalAdapterMissingParents(t *testing.T) {
	adapter, _ := newLocalTestAdapter(t)
	ctx := context.Background()

	require.ErrorIs(t, adapter.CreateTeam(ctx, "missing", &models.Team{ID: "team1"}), ErrTournamentNotFound)
	require.ErrorIs(t, adapter.UpsertMatch(ctx, "missing", models.Match{ID: 1}), ErrTournamentNotFound)
	require.ErrorIs(t, adapter.UpdateKillPoints(ctx, "missing", 2.0), ErrTournamentNotFound)

	require.NoError(t, adapter.CreateTournament(ctx, sampleTournament("t1", "Cup")))
	require.ErrorIs(t, adapter.DeleteTeam(ctx, "t1", "missing"), ErrTeamNotFound)
	require.ErrorIs(t, adapter.DeleteMatch(ctx, "t1", 7), ErrMatchNotFound)
}

func TestLocalAdapterScoringUpdates(t *testing.T) {
	adapter, _ := newLocalTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.CreateTournament(ctx, sampleTournament("t1", "Cup")))
	require.NoError(t, adapter.UpdateKillPoints(ctx, "t1", 2.5))
	positions := []models.PositionPoints{{Place: 1, Points: 15}}
	require.NoError(t, adapter.UpdatePositionPoints(ctx, "t1", positions))

	list, err := adapter.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2.5, list[0].Scoring.KillPoints)
	assert.Equal(t, positions, list[0].Scoring.Positions)
}

func TestLocalAdapterDefaultScoringRoundTrip(t *testing.T) {
	adapter, _ := newLocalTestAdapter(t)
	ctx := context.Background()

	scoring := models.Scoring{
		KillPoints: 1.5,
		Positions:  []models.PositionPoints{{Place: 1, Points: 10}},
	}
	require.NoError(t, adapter.SaveDefaultScoring(ctx, scoring))

	loaded, err := adapter.LoadDefaultScoring(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, scoring, *loaded)
}

func TestLocalAdapterCorruptBlobTreatedAsEmpty(t *testing.T) {
	adapter, path := newLocalTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.CreateTournament(ctx, sampleTournament("t1", "Cup")))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE cache SET value = 'not json' WHERE key = ?`, "tournaments_v1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	list, err := adapter.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
