package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/alokrajg/hcp-profiling-agent/internal/application/services"
	apperrors "github.com/alokrajg/hcp-profiling-agent/pkg/errors"
)

// ProfileHandler handles profile generation HTTP requests
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

type generateProfilesRequest struct {
	NPIList             []string `json:"npi_list"`
	MaxResultsPerSource int      `json:"max_results_per_source"`
}

// GenerateProfiles handles POST /api/profiles
func (h *ProfileHandler) GenerateProfiles(w http.ResponseWriter, r *http.Request) {
	var req generateProfilesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "request body must be JSON with an npi_list array")
		return
	}

	result, err := h.profileService.GenerateBatch(r.Context(), req.NPIList, req.MaxResultsPerSource)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetProfile handles GET /api/profiles/{npi}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	npi := r.PathValue("npi")
	if npi == "" {
		respondWithError(w, http.StatusBadRequest, "provider identifier is required")
		return
	}

	profile, err := h.profileService.GenerateProfile(r.Context(), npi)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeConfiguration:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
