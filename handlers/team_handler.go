package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/50RISHU/E-Sport-Calc/models"
	"github.com/50RISHU/E-Sport-Calc/storage"
	"github.com/50RISHU/E-Sport-Calc/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxLogoBytes = 5 << 20 // 5MB

type TeamHandler struct {
	store    *store.Store
	uploader storage.FileUploader
	logger   *slog.Logger
}

// NewTeamHandler builds the team endpoints. uploader may be nil, in which
// case logo uploads are disabled.
func NewTeamHandler(store *store.Store, uploader storage.FileUploader, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{store: store, uploader: uploader, logger: logger}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.NewTeam
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if input.Name == "" {
		errorResponse(w, http.StatusUnprocessableEntity, "team name is required")
		return
	}

	id, err := h.store.AddTeam(r.Context(), chi.URLParam(r, "tournamentID"), input)
	if err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"id": id}); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.RemoveTeam(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "teamID"))
	if err != nil {
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo stores the posted image and patches the team's logo reference.
func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		errorResponse(w, http.StatusNotImplemented, "logo storage is not configured")
		return
	}
	tournamentID := chi.URLParam(r, "tournamentID")
	teamID := chi.URLParam(r, "teamID")

	contentType := r.Header.Get("Content-Type")
	ext, err := storage.ExtensionFromContentType(contentType)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	key := fmt.Sprintf("team-logos/%s/%s-%s%s", tournamentID, teamID, uuid.NewString(), ext)
	body := http.MaxBytesReader(w, r.Body, maxLogoBytes)
	result, err := h.uploader.Upload(r.Context(), key, contentType, body)
	if err != nil {
		serverErrorResponse(w, h.logger, err)
		return
	}

	if err := h.store.SetTeamLogo(r.Context(), tournamentID, teamID, &result.Location); err != nil {
		// The object is orphaned if the store update fails; clean it up.
		if delErr := h.uploader.Delete(r.Context(), key); delErr != nil {
			h.logger.Warn("failed to delete orphaned logo object",
				slog.String("key", key), slog.Any("error", delErr))
		}
		mapStoreErrorToHTTP(w, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"logo": result.Location}); err != nil {
		serverErrorResponse(w, h.logger, err)
	}
}
