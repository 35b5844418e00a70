package handlers

import (
	"net/http"

	"github.com/alokrajg/hcp-profiling-agent/internal/application/services"
)

// maxUploadBytes caps accepted CSV upload size at 10 MiB.
const maxUploadBytes = 10 << 20

// IngestHandler handles CSV upload HTTP requests
type IngestHandler struct {
	ingestionService *services.IngestionService
	profileService   *services.ProfileService
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestionService *services.IngestionService, profileService *services.ProfileService) *IngestHandler {
	return &IngestHandler{
		ingestionService: ingestionService,
		profileService:   profileService,
	}
}

// IngestCSV handles POST /api/ingest. It accepts a multipart form with a
// "file" part, extracts provider identifiers, and runs the full pipeline
// over them.
func (h *IngestHandler) IngestCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "request must be multipart form data with a file part")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	npis, err := h.ingestionService.ExtractNPIs(file)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	result, err := h.profileService.GenerateBatch(r.Context(), npis, 0)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
