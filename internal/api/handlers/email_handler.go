package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/alokrajg/hcp-profiling-agent/internal/application/services"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/notifications"
)

// EmailHandler handles profile email dispatch HTTP requests
type EmailHandler struct {
	profileService *services.ProfileService
	sender         notifications.Sender
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(profileService *services.ProfileService, sender notifications.Sender) *EmailHandler {
	return &EmailHandler{
		profileService: profileService,
		sender:         sender,
	}
}

type dispatchEmailRequest struct {
	Recipient string   `json:"recipient"`
	Subject   string   `json:"subject"`
	NPIList   []string `json:"npi_list"`
}

// DispatchEmail handles POST /api/email/dispatch. It generates profiles for
// the requested identifiers and mails them as a plain-text digest.
func (h *EmailHandler) DispatchEmail(w http.ResponseWriter, r *http.Request) {
	var req dispatchEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}

	result, err := h.profileService.GenerateBatch(r.Context(), req.NPIList, 0)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := h.sender.SendProfiles(r.Context(), req.Recipient, req.Subject, result.Profiles); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"batch_id":  result.BatchID,
		"recipient": req.Recipient,
		"profiles":  result.Count,
	})
}
