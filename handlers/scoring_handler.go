package handlers

import (
	"log/slog"
	"net/http"

	"github.com/50RISHU/E-Sport-Calc/models"
	"github.com/50RISHU/E-Sport-Calc/store"
	"github.com/go-chi/chi/v5"
)

type ScoringHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewScoringHandler(store *store.Store, logger *slog.Logger) *ScoringHandler {
	return &ScoringHandler{store: store, logger: logger}
}

// UpdateKillPoints applies optimistically; a 204 here means the in-memory
// state changed, not that the backend write has landed yet.
func (h *ScoringHandler) UpdateKillPoints(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Value float64 `json:"value"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.store.UpdateKillPoints(chi.URLParam(r, "tournamentID"), input.Value); err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScoringHandler) UpdatePositionPoints(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Positions []models.PositionPoints `json:"positions"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.store.UpdatePositionPoints(chi.URLParam(r, "tournamentID"), input.Positions); err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScoringHandler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	scoring, err := h.store.LoadDefaultScoring(r.Context())
	if err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, scoring); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}

func (h *ScoringHandler) SaveDefaults(w http.ResponseWriter, r *http.Request) {
	var input models.Scoring
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.store.SaveDefaultScoring(r.Context(), input); err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
