package services

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/alokrajg/hcp-profiling-agent/pkg/errors"
	"github.com/alokrajg/hcp-profiling-agent/pkg/utils"
)

// identifierColumns are the header names recognized as the NPI column,
// compared case-insensitively.
var identifierColumns = map[string]struct{}{
	"npi":    {},
	"npi_id": {},
}

// IngestionService extracts provider identifiers from uploaded CSV files.
type IngestionService struct{}

// NewIngestionService creates a CSV ingestion service.
func NewIngestionService() *IngestionService {
	return &IngestionService{}
}

// ExtractNPIs reads a CSV stream and returns the normalized identifiers it
// contains, first occurrence order, duplicates removed. When no header names
// an identifier column, every cell is scanned for values that normalize.
func (s *IngestionService) ExtractNPIs(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewValidationError("file is not parseable CSV", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewValidationError("file contains no rows", nil)
	}

	column := identifierColumn(rows[0])

	seen := map[string]struct{}{}
	npis := []string{}
	appendNPI := func(raw string) {
		npi, ok := utils.NormalizeNPI(raw)
		if !ok {
			return
		}
		if _, dup := seen[npi]; dup {
			return
		}
		seen[npi] = struct{}{}
		npis = append(npis, npi)
	}

	if column >= 0 {
		for _, row := range rows[1:] {
			if column < len(row) {
				appendNPI(row[column])
			}
		}
	} else {
		for _, row := range rows {
			for _, cell := range row {
				appendNPI(cell)
			}
		}
	}

	if len(npis) == 0 {
		return nil, apperrors.NewValidationError("no usable provider identifiers found in file", nil)
	}

	log.Info().Int("identifiers", len(npis)).Bool("header_column", column >= 0).Msg("csv ingestion complete")
	return npis, nil
}

func identifierColumn(header []string) int {
	for i, name := range header {
		if _, ok := identifierColumns[strings.ToLower(strings.TrimSpace(name))]; ok {
			return i
		}
	}
	return -1
}
