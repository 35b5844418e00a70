package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alokrajg/hcp-profiling-agent/internal/application/services"
	apperrors "github.com/alokrajg/hcp-profiling-agent/pkg/errors"
)

func TestExtractNPIs_NamedColumn(t *testing.T) {
	input := "name,NPI,city\nJane Doe,1740895150,Boston\nJohn Roe,1598765432,Chicago\n"

	npis, err := services.NewIngestionService().ExtractNPIs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"1740895150", "1598765432"}, npis)
}

func TestExtractNPIs_NpiIDColumnCaseInsensitive(t *testing.T) {
	input := "Name,NPI_ID\nJane Doe,1740895150\n"

	npis, err := services.NewIngestionService().ExtractNPIs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"1740895150"}, npis)
}

func TestExtractNPIs_NormalizesMessyValues(t *testing.T) {
	input := "npi\n 1740895150.0 \n00-1598765432\n123456789\n"

	npis, err := services.NewIngestionService().ExtractNPIs(strings.NewReader(input))
	require.NoError(t, err)
	// "1740895150.0" keeps the last ten digits; "123456789" is zero-padded.
	assert.Equal(t, []string{"7408951500", "1598765432", "0123456789"}, npis)
}

func TestExtractNPIs_DeduplicatesPreservingOrder(t *testing.T) {
	input := "npi\n1740895150\n1598765432\n1740895150\n"

	npis, err := services.NewIngestionService().ExtractNPIs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"1740895150", "1598765432"}, npis)
}

func TestExtractNPIs_FallsBackToScanningAllCells(t *testing.T) {
	input := "provider,identifier\nJane Doe,1740895150\nno id here,n/a\nJohn Roe,1598765432\n"

	npis, err := services.NewIngestionService().ExtractNPIs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"1740895150", "1598765432"}, npis)
}

func TestExtractNPIs_NoIdentifiersIsValidationError(t *testing.T) {
	input := "name,city\nJane Doe,Boston\n"

	_, err := services.NewIngestionService().ExtractNPIs(strings.NewReader(input))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestExtractNPIs_EmptyFileIsValidationError(t *testing.T) {
	_, err := services.NewIngestionService().ExtractNPIs(strings.NewReader(""))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}
