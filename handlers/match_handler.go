package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/50RISHU/E-Sport-Calc/models"
	"github.com/50RISHU/E-Sport-Calc/store"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewMatchHandler(store *store.Store, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{store: store, logger: logger}
}

// Save upserts the match under its user-facing sequence number. PUT twice
// with the same number, get one match with the latest results.
func (h *MatchHandler) Save(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDParam(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input struct {
		Results []models.MatchResult `json:"results"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	err = h.store.SaveMatch(r.Context(), chi.URLParam(r, "tournamentID"), matchID, input.Results)
	if err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDParam(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	err = h.store.DeleteMatch(r.Context(), chi.URLParam(r, "tournamentID"), matchID)
	if err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func matchIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "matchID"))
	if err != nil || id <= 0 {
		return 0, store.ErrInvalidMatchNumber
	}
	return id, nil
}
