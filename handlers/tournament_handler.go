package handlers

import (
	"log/slog"
	"net/http"

	"github.com/50RISHU/E-Sport-Calc/store"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewTournamentHandler(store *store.Store, logger *slog.Logger) *TournamentHandler {
	return &TournamentHandler{store: store, logger: logger}
}

// List returns the current in-memory collection without touching the backend.
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, h.store.Snapshot()); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournament, ok := h.store.Get(chi.URLParam(r, "tournamentID"))
	if !ok {
		notFoundResponse(w)
		return
	}
	if err := writeJSON(w, http.StatusOK, tournament); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}

// Reload re-fetches the whole collection from the persistence backend.
func (h *TournamentHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(r.Context()); err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, h.store.Snapshot()); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name       string `json:"name"`
		RoundRobin bool   `json:"roundRobin"`
		GroupCount int    `json:"groupCount"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if input.Name == "" {
		errorResponse(w, http.StatusUnprocessableEntity, "tournament name is required")
		return
	}

	id, err := h.store.AddTournament(r.Context(), input.Name, input.RoundRobin, input.GroupCount)
	if err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"id": id}); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveTournament(r.Context(), chi.URLParam(r, "tournamentID")); err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
