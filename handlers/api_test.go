package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/50RISHU/E-Sport-Calc/handlers"
	"github.com/50RISHU/E-Sport-Calc/live"
	"github.com/50RISHU/E-Sport-Calc/models"
	"github.com/50RISHU/E-Sport-Calc/repositories"
	"github.com/50RISHU/E-Sport-Calc/routes"
	"github.com/50RISHU/E-Sport-Calc/store"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwner  = "owner-1"
	testSecret = "test-secret"
)

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(nopWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	adapter, err := repositories.NewLocalAdapter(filepath.Join(t.TempDir(), "cache.db"), logger)
	require.NoError(t, err)

	st := store.New(adapter, logger)
	require.NoError(t, st.Load(context.Background()))

	hub := live.NewHub(logger)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		routes.Options{JWTSecret: []byte(testSecret), OwnerID: testOwner},
		handlers.NewTournamentHandler(st, logger),
		handlers.NewTeamHandler(st, nil, logger),
		handlers.NewMatchHandler(st, logger),
		handlers.NewScoringHandler(st, logger),
		handlers.NewWebSocketHandler(hub, logger),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, st
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, server *httptest.Server, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestHealthzIsPublic(t *testing.T) {
	server, _ := newTestServer(t)
	resp, err := server.Client().Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, server, http.MethodGet, "/tournaments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, server, http.MethodGet, "/tournaments", signToken(t, "someone-else"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, server, http.MethodGet, "/tournaments", signToken(t, testOwner), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateTournament(t *testing.T) {
	server, st := newTestServer(t)
	token := signToken(t, testOwner)

	resp := doRequest(t, server, http.MethodPost, "/tournaments", token,
		map[string]interface{}{"name": "Cup", "roundRobin": false, "groupCount": 0})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.ID)

	got, ok := st.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Cup", got.Name)
}

func TestCreateTournamentValidation(t *testing.T) {
	server, _ := newTestServer(t)
	token := signToken(t, testOwner)

	resp := doRequest(t, server, http.MethodPost, "/tournaments", token,
		map[string]interface{}{"name": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = doRequest(t, server, http.MethodPost, "/tournaments", token,
		map[string]interface{}{"name": "Cup", "unexpected": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateTournamentDuplicateName(t *testing.T) {
	server, _ := newTestServer(t)
	token := signToken(t, testOwner)

	resp := doRequest(t, server, http.MethodPost, "/tournaments", token, map[string]interface{}{"name": "Cup"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, server, http.MethodPost, "/tournaments", token, map[string]interface{}{"name": "Cup"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetTournamentNotFound(t *testing.T) {
	server, _ := newTestServer(t)
	resp := doRequest(t, server, http.MethodGet, "/tournaments/missing", signToken(t, testOwner), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTeamEndpoints(t *testing.T) {
	server, st := newTestServer(t)
	token := signToken(t, testOwner)

	id, err := st.AddTournament(context.Background(), "Cup", false, 0)
	require.NoError(t, err)

	resp := doRequest(t, server, http.MethodPost, "/tournaments/"+id+"/teams", token,
		map[string]interface{}{"name": "Alpha", "tag": "ALP", "players": []string{"p1"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &created)

	got, _ := st.Get(id)
	require.Len(t, got.Teams, 1)
	assert.Equal(t, 1, got.Teams[0].Number)

	resp = doRequest(t, server, http.MethodDelete, "/tournaments/"+id+"/teams/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, _ = st.Get(id)
	assert.Empty(t, got.Teams)
}

func TestMatchEndpoints(t *testing.T) {
	server, st := newTestServer(t)
	token := signToken(t, testOwner)

	id, err := st.AddTournament(context.Background(), "Cup", false, 0)
	require.NoError(t, err)

	body := map[string]interface{}{
		"results": []models.MatchResult{{TeamID: "team-a", Kills: 5, Position: 2}},
	}
	resp := doRequest(t, server, http.MethodPut, fmt.Sprintf("/tournaments/%s/matches/1", id), token, body)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, _ := st.Get(id)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "Match 1", got.Matches[0].Name)

	resp = doRequest(t, server, http.MethodPut, fmt.Sprintf("/tournaments/%s/matches/abc", id), token, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, server, http.MethodPut, fmt.Sprintf("/tournaments/%s/matches/0", id), token, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, server, http.MethodDelete, fmt.Sprintf("/tournaments/%s/matches/1", id), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, _ = st.Get(id)
	assert.Empty(t, got.Matches)
}

func TestScoringEndpoints(t *testing.T) {
	server, st := newTestServer(t)
	token := signToken(t, testOwner)

	id, err := st.AddTournament(context.Background(), "Cup", false, 0)
	require.NoError(t, err)

	resp := doRequest(t, server, http.MethodPut, "/tournaments/"+id+"/scoring/kill-points", token,
		map[string]interface{}{"value": 2.5})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, _ := st.Get(id)
	assert.Equal(t, 2.5, got.Scoring.KillPoints)

	resp = doRequest(t, server, http.MethodPut, "/tournaments/"+id+"/scoring/positions", token,
		map[string]interface{}{"positions": []models.PositionPoints{{Place: 1, Points: 10}}})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, _ = st.Get(id)
	require.Len(t, got.Scoring.Positions, 1)
	assert.Equal(t, 10, got.Scoring.Positions[0].Points)
}

func TestScoringDefaultsEndpoints(t *testing.T) {
	server, _ := newTestServer(t)
	token := signToken(t, testOwner)

	resp := doRequest(t, server, http.MethodGet, "/scoring/defaults", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var defaults models.Scoring
	decodeBody(t, resp, &defaults)
	assert.Equal(t, 1.0, defaults.KillPoints)
	assert.Len(t, defaults.Positions, models.DefaultScoringPlaces)

	resp = doRequest(t, server, http.MethodPut, "/scoring/defaults", token,
		models.Scoring{KillPoints: 3, Positions: []models.PositionPoints{{Place: 1, Points: 9}}})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, server, http.MethodGet, "/scoring/defaults", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &defaults)
	assert.Equal(t, 3.0, defaults.KillPoints)
	require.Len(t, defaults.Positions, 1)
}

func TestDeleteTournament(t *testing.T) {
	server, st := newTestServer(t)
	token := signToken(t, testOwner)

	id, err := st.AddTournament(context.Background(), "Cup", false, 0)
	require.NoError(t, err)

	resp := doRequest(t, server, http.MethodDelete, "/tournaments/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, server, http.MethodDelete, "/tournaments/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Empty(t, st.Snapshot())
}

func TestLogoUploadUnavailableWithoutStorage(t *testing.T) {
	server, st := newTestServer(t)
	token := signToken(t, testOwner)

	id, err := st.AddTournament(context.Background(), "Cup", false, 0)
	require.NoError(t, err)
	teamID, err := st.AddTeam(context.Background(), id, models.NewTeam{Name: "Alpha"})
	require.NoError(t, err)

	resp := doRequest(t, server, http.MethodPost,
		fmt.Sprintf("/tournaments/%s/teams/%s/logo", id, teamID), token, nil)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}
