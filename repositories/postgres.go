package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/50RISHU/E-Sport-Calc/models"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

type PostgresOptions struct {
	MigrationsDir string
}

type postgresAdapter struct {
	db     *sql.DB
	owner  string
	logger *slog.Logger
}

// NewPostgresAdapter builds the remote adapter. All queries are scoped to the
// given owner; tournament names are unique per owner, enforced by the
// tournaments_owner_id_name_key constraint.
func NewPostgresAdapter(db *sql.DB, owner string, logger *slog.Logger, opts PostgresOptions) (Adapter, error) {
	if owner == "" {
		return nil, errors.New("postgres adapter: owner id is required")
	}
	dir := opts.MigrationsDir
	if dir == "" {
		dir = "migrations/postgres"
	}
	if err := applyMigrations(db, dir); err != nil {
		return nil, err
	}
	return &postgresAdapter{db: db, owner: owner, logger: logger}, nil
}

func (a *postgresAdapter) FetchAll(ctx context.Context) ([]models.Tournament, error) {
	var (
		tournaments []models.Tournament
		teamsByID   map[string][]models.Team
		matchesByID map[string][]models.Match
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournaments, err = a.fetchTournaments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		teamsByID, err = a.fetchTeams(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		matchesByID, err = a.fetchMatches(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range tournaments {
		t := &tournaments[i]
		if teams, ok := teamsByID[t.ID]; ok {
			t.Teams = teams
		}
		if matches, ok := matchesByID[t.ID]; ok {
			t.Matches = matches
		}
	}
	return tournaments, nil
}

func (a *postgresAdapter) fetchTournaments(ctx context.Context) ([]models.Tournament, error) {
	query := `
		SELECT id, name, round_robin, group_count, kill_points, positions, created_at
		FROM tournaments
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := a.db.QueryContext(ctx, query, a.owner)
	if err != nil {
		return nil, fmt.Errorf("fetch tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var (
			t         models.Tournament
			positions []byte
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.RoundRobin, &t.GroupCount, &t.Scoring.KillPoints, &positions, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tournament: %w", err)
		}
		t.Scoring.Positions = a.decodePositions(t.ID, positions)
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (a *postgresAdapter) fetchTeams(ctx context.Context) (map[string][]models.Team, error) {
	query := `
		SELECT tm.id, tm.tournament_id, tm.name, tm.tag, tm.logo, tm.number, tm.group_label, tm.players
		FROM teams tm
		JOIN tournaments tr ON tr.id = tm.tournament_id
		WHERE tr.owner_id = $1
		ORDER BY tm.number ASC`

	rows, err := a.db.QueryContext(ctx, query, a.owner)
	if err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}
	defer rows.Close()

	teams := make(map[string][]models.Team)
	for rows.Next() {
		var (
			team         models.Team
			tournamentID string
			players      []byte
		)
		if err := rows.Scan(&team.ID, &tournamentID, &team.Name, &team.Tag, &team.Logo, &team.Number, &team.Group, &players); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		if err := json.Unmarshal(players, &team.Players); err != nil {
			a.logger.Warn("discarding malformed players payload",
				slog.String("team_id", team.ID), slog.Any("error", err))
			team.Players = []string{}
		}
		teams[tournamentID] = append(teams[tournamentID], team)
	}
	return teams, rows.Err()
}

func (a *postgresAdapter) fetchMatches(ctx context.Context) (map[string][]models.Match, error) {
	query := `
		SELECT m.tournament_id, m.match_id_manual, m.name, m.results
		FROM matches m
		JOIN tournaments tr ON tr.id = m.tournament_id
		WHERE tr.owner_id = $1
		ORDER BY m.match_id_manual ASC`

	rows, err := a.db.QueryContext(ctx, query, a.owner)
	if err != nil {
		return nil, fmt.Errorf("fetch matches: %w", err)
	}
	defer rows.Close()

	matches := make(map[string][]models.Match)
	for rows.Next() {
		var (
			match        models.Match
			tournamentID string
			results      []byte
		)
		if err := rows.Scan(&tournamentID, &match.ID, &match.Name, &results); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if err := json.Unmarshal(results, &match.Results); err != nil {
			a.logger.Warn("discarding malformed match results payload",
				slog.String("tournament_id", tournamentID), slog.Int("match_id", match.ID), slog.Any("error", err))
			match.Results = []models.MatchResult{}
		}
		matches[tournamentID] = append(matches[tournamentID], match)
	}
	return matches, rows.Err()
}

func (a *postgresAdapter) decodePositions(tournamentID string, raw []byte) []models.PositionPoints {
	positions := []models.PositionPoints{}
	if len(raw) == 0 {
		return positions
	}
	if err := json.Unmarshal(raw, &positions); err != nil {
		a.logger.Warn("discarding malformed positions payload",
			slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return []models.PositionPoints{}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Place < positions[j].Place })
	return positions
}

func (a *postgresAdapter) CreateTournament(ctx context.Context, t *models.Tournament) error {
	positions, err := json.Marshal(t.Scoring.Positions)
	if err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}

	query := `
		INSERT INTO tournaments (id, owner_id, name, round_robin, group_count, kill_points, positions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err = a.db.QueryRowContext(ctx, query,
		t.ID, a.owner, t.Name, t.RoundRobin, t.GroupCount, t.Scoring.KillPoints, positions,
	).Scan(&t.CreatedAt)

	return a.handleError(err)
}

func (a *postgresAdapter) DeleteTournament(ctx context.Context, id string) error {
	// Teams and matches go with it via ON DELETE CASCADE.
	query := `DELETE FROM tournaments WHERE id = $1 AND owner_id = $2`
	result, err := a.db.ExecContext(ctx, query, id, a.owner)
	if err != nil {
		return a.handleError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (a *postgresAdapter) CreateTeam(ctx context.Context, tournamentID string, team *models.Team) error {
	players, err := json.Marshal(team.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}

	query := `
		INSERT INTO teams (id, tournament_id, name, tag, logo, number, group_label, players)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = a.db.ExecContext(ctx, query,
		team.ID, tournamentID, team.Name, team.Tag, team.Logo, team.Number, team.Group, players,
	)
	return a.handleError(err)
}

func (a *postgresAdapter) DeleteTeam(ctx context.Context, tournamentID, teamID string) error {
	query := `DELETE FROM teams WHERE id = $1 AND tournament_id = $2`
	result, err := a.db.ExecContext(ctx, query, teamID, tournamentID)
	if err != nil {
		return a.handleError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (a *postgresAdapter) UpdateTeamLogo(ctx context.Context, tournamentID, teamID string, logo *string) error {
	query := `UPDATE teams SET logo = $1 WHERE id = $2 AND tournament_id = $3`
	result, err := a.db.ExecContext(ctx, query, logo, teamID, tournamentID)
	if err != nil {
		return a.handleError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (a *postgresAdapter) UpsertMatch(ctx context.Context, tournamentID string, match models.Match) error {
	results, err := json.Marshal(match.Results)
	if err != nil {
		return fmt.Errorf("encode match results: %w", err)
	}

	query := `
		INSERT INTO matches (tournament_id, match_id_manual, name, results)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tournament_id, match_id_manual)
		DO UPDATE SET name = EXCLUDED.name, results = EXCLUDED.results`

	_, err = a.db.ExecContext(ctx, query, tournamentID, match.ID, match.Name, results)
	return a.handleError(err)
}

func (a *postgresAdapter) DeleteMatch(ctx context.Context, tournamentID string, matchID int) error {
	query := `DELETE FROM matches WHERE tournament_id = $1 AND match_id_manual = $2`
	result, err := a.db.ExecContext(ctx, query, tournamentID, matchID)
	if err != nil {
		return a.handleError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (a *postgresAdapter) UpdateKillPoints(ctx context.Context, tournamentID string, value float64) error {
	query := `UPDATE tournaments SET kill_points = $1 WHERE id = $2 AND owner_id = $3`
	result, err := a.db.ExecContext(ctx, query, value, tournamentID, a.owner)
	if err != nil {
		return a.handleError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (a *postgresAdapter) UpdatePositionPoints(ctx context.Context, tournamentID string, positions []models.PositionPoints) error {
	raw, err := json.Marshal(positions)
	if err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}
	query := `UPDATE tournaments SET positions = $1 WHERE id = $2 AND owner_id = $3`
	result, err := a.db.ExecContext(ctx, query, raw, tournamentID, a.owner)
	if err != nil {
		return a.handleError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (a *postgresAdapter) SaveDefaultScoring(ctx context.Context, scoring models.Scoring) error {
	positions, err := json.Marshal(scoring.Positions)
	if err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}

	query := `
		INSERT INTO scoring_defaults (owner_id, kill_points, positions)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id)
		DO UPDATE SET kill_points = EXCLUDED.kill_points, positions = EXCLUDED.positions`

	_, err = a.db.ExecContext(ctx, query, a.owner, scoring.KillPoints, positions)
	return a.handleError(err)
}

func (a *postgresAdapter) LoadDefaultScoring(ctx context.Context) (*models.Scoring, error) {
	query := `SELECT kill_points, positions FROM scoring_defaults WHERE owner_id = $1`

	var (
		scoring   models.Scoring
		positions []byte
	)
	err := a.db.QueryRowContext(ctx, query, a.owner).Scan(&scoring.KillPoints, &positions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load default scoring: %w", err)
	}
	scoring.Positions = a.decodePositions("defaults", positions)
	return &scoring, nil
}

func (a *postgresAdapter) handleError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournaments_owner_id_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503":
			switch pqErr.Constraint {
			case "teams_tournament_id_fkey", "matches_tournament_id_fkey":
				return ErrTournamentNotFound
			}
		}
	}
	return err
}
