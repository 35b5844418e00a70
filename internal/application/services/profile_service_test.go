package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alokrajg/hcp-profiling-agent/internal/application/services"
	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
	"github.com/alokrajg/hcp-profiling-agent/internal/domain/providers"
	apperrors "github.com/alokrajg/hcp-profiling-agent/pkg/errors"
)

type stubRegistry struct {
	mu      sync.Mutex
	records map[string]*entities.RegistryRecord
	err     error
	panics  bool
	calls   int
}

func (s *stubRegistry) Lookup(ctx context.Context, npi string) (*entities.RegistryRecord, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.panics {
		panic("registry exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.records[npi], nil
}

type stubPubMed struct {
	report *entities.PublicationReport
	calls  int
}

func (s *stubPubMed) SearchByAuthor(ctx context.Context, firstName, lastName string) (*entities.PublicationReport, error) {
	s.calls++
	if s.report != nil {
		return s.report, nil
	}
	return &entities.PublicationReport{Publications: []entities.PublicationRecord{}, Affiliations: []string{}}, nil
}

type stubWebSearch struct {
	mu      sync.Mutex
	results []entities.WebResult
	queries []string
}

func (s *stubWebSearch) Search(ctx context.Context, query string) ([]entities.WebResult, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.results, nil
}

type stubTrials struct{ summary *entities.TrialSummary }

func (s *stubTrials) SearchByInvestigator(ctx context.Context, fullName string) (*entities.TrialSummary, error) {
	if s.summary != nil {
		return s.summary, nil
	}
	return &entities.TrialSummary{}, nil
}

type memoryCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if blob, ok := c.store[key]; ok {
		return blob, nil
	}
	return nil, errors.New("key not found")
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok, nil
}

func janeRecord() *entities.RegistryRecord {
	return &entities.RegistryRecord{
		Basic: entities.RegistryBasic{FirstName: "Jane", LastName: "Doe", Credential: "MD", Gender: "F"},
		Addresses: []entities.RegistryAddress{
			{City: "Boston", State: "MA", OrganizationName: "General Hospital", AddressPurpose: "LOCATION"},
		},
		Taxonomies: []entities.RegistryTaxonomy{{Desc: "Cardiology", Primary: true}},
	}
}

func newService(registry *stubRegistry, pubmedStub *stubPubMed, cache *memoryCache, workers int) *services.ProfileService {
	var cacheProvider providers.CacheProvider
	if cache != nil {
		cacheProvider = cache
	}
	return services.NewProfileService(
		registry,
		pubmedStub,
		&stubWebSearch{},
		&stubTrials{},
		services.NewEnrichmentChain(),
		cacheProvider,
		3600,
		workers,
		nil,
	)
}

func TestGenerateProfile_HappyPath(t *testing.T) {
	registry := &stubRegistry{records: map[string]*entities.RegistryRecord{"1740895150": janeRecord()}}
	pubmedStub := &stubPubMed{report: &entities.PublicationReport{Count: 3, YearRange: "2019–2023"}}
	svc := newService(registry, pubmedStub, nil, 1)

	profile, err := svc.GenerateProfile(context.Background(), "1740895150")
	require.NoError(t, err)

	assert.Equal(t, "1740895150", profile.NPI)
	assert.Equal(t, "Jane Doe", profile.FullName)
	assert.Equal(t, "Cardiology", profile.Specialty)
	assert.Equal(t, 3, profile.PublicationCount)
	assert.Equal(t, "Research-focused", profile.EngagementStyle)
	assert.Equal(t, 60, profile.ConfidenceScore)
	assert.Equal(t, "deterministic", profile.EnrichedBy)
}

func TestGenerateProfile_NormalizesIdentifierFirst(t *testing.T) {
	registry := &stubRegistry{records: map[string]*entities.RegistryRecord{"1740895150": janeRecord()}}
	svc := newService(registry, &stubPubMed{}, nil, 1)

	profile, err := svc.GenerateProfile(context.Background(), " 1-740-895-150 ")
	require.NoError(t, err)
	assert.Equal(t, "1740895150", profile.NPI)
}

func TestGenerateProfile_InvalidIdentifierIsValidationError(t *testing.T) {
	svc := newService(&stubRegistry{}, &stubPubMed{}, nil, 1)

	_, err := svc.GenerateProfile(context.Background(), "12345")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestGenerateProfile_RegistryFailureStillYieldsCompleteProfile(t *testing.T) {
	registry := &stubRegistry{err: errors.New("registry down")}
	pubmedStub := &stubPubMed{}
	svc := newService(registry, pubmedStub, nil, 1)

	profile, err := svc.GenerateProfile(context.Background(), "1740895150")
	require.NoError(t, err)

	assert.Equal(t, "NPI 1740895150", profile.FullName)
	assert.Equal(t, 20, profile.ConfidenceScore)
	assert.Equal(t, "Healthcare provider", profile.EngagementStyle)
	// Name-keyed sources are skipped without a registry name.
	assert.Equal(t, 0, pubmedStub.calls)
}

func TestGenerateProfile_WebQueryTargetsProfilePages(t *testing.T) {
	registry := &stubRegistry{records: map[string]*entities.RegistryRecord{"1740895150": janeRecord()}}
	web := &stubWebSearch{}
	svc := services.NewProfileService(
		registry, &stubPubMed{}, web, &stubTrials{},
		services.NewEnrichmentChain(), nil, 3600, 1, nil,
	)

	_, err := svc.GenerateProfile(context.Background(), "1740895150")
	require.NoError(t, err)

	require.Len(t, web.queries, 1)
	assert.Equal(t, "Jane Doe Cardiology Boston LinkedIn Twitter profile hospital", web.queries[0])
}

func TestGenerateProfile_ReadThroughCache(t *testing.T) {
	registry := &stubRegistry{records: map[string]*entities.RegistryRecord{"1740895150": janeRecord()}}
	cache := newMemoryCache()
	svc := newService(registry, &stubPubMed{}, cache, 1)

	first, err := svc.GenerateProfile(context.Background(), "1740895150")
	require.NoError(t, err)
	require.Equal(t, 1, registry.calls)

	second, err := svc.GenerateProfile(context.Background(), "1740895150")
	require.NoError(t, err)
	assert.Equal(t, 1, registry.calls, "second call should be served from cache")
	assert.Equal(t, first.FullName, second.FullName)
}

func TestGenerateBatch_OrderPreservedAndTotal(t *testing.T) {
	registry := &stubRegistry{records: map[string]*entities.RegistryRecord{"1740895150": janeRecord()}}
	svc := newService(registry, &stubPubMed{}, nil, 4)

	result, err := svc.GenerateBatch(context.Background(), []string{
		"1740895150", // known provider
		"9999999999", // unknown but valid shape
		"bogus",      // cannot normalize
	}, 0)
	require.NoError(t, err)

	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 3, result.Count)
	require.Len(t, result.Profiles, 3)

	assert.Equal(t, "Jane Doe", result.Profiles[0].FullName)
	assert.Equal(t, "NPI 9999999999", result.Profiles[1].FullName)
	assert.Equal(t, "NPI bogus", result.Profiles[2].FullName)
	assert.Equal(t, 20, result.Profiles[2].ConfidenceScore)
}

func TestGenerateBatch_EmptyInputIsValidationError(t *testing.T) {
	svc := newService(&stubRegistry{}, &stubPubMed{}, nil, 1)

	_, err := svc.GenerateBatch(context.Background(), nil, 0)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestGenerateBatch_MaxPerSourceTrimsDetail(t *testing.T) {
	registry := &stubRegistry{records: map[string]*entities.RegistryRecord{"1740895150": janeRecord()}}
	svc := services.NewProfileService(
		registry,
		&stubPubMed{report: &entities.PublicationReport{
			Count: 3,
			Publications: []entities.PublicationRecord{
				{Title: "T1"}, {Title: "T2"}, {Title: "T3"},
			},
		}},
		&stubWebSearch{results: []entities.WebResult{{Title: "r1"}, {Title: "r2"}, {Title: "r3"}}},
		&stubTrials{},
		services.NewEnrichmentChain(), nil, 3600, 1, nil,
	)

	result, err := svc.GenerateBatch(context.Background(), []string{"1740895150"}, 1)
	require.NoError(t, err)
	require.Len(t, result.Profiles, 1)

	sources := result.Profiles[0].Sources
	require.NotNil(t, sources)
	assert.Len(t, sources.WebResults, 1)
	assert.Len(t, sources.Publications.Publications, 1)
	// Aggregate counts are untouched by the detail cap.
	assert.Equal(t, 3, result.Profiles[0].PublicationCount)
}

func TestGenerateBatch_PanicIsolatedToItem(t *testing.T) {
	registry := &stubRegistry{panics: true}
	svc := newService(registry, &stubPubMed{}, nil, 2)

	result, err := svc.GenerateBatch(context.Background(), []string{"1740895150", "1598765432"}, 0)
	require.NoError(t, err)
	require.Len(t, result.Profiles, 2)

	for _, profile := range result.Profiles {
		require.NotNil(t, profile)
		assert.Equal(t, 20, profile.ConfidenceScore)
		assert.Contains(t, profile.FullName, "NPI ")
	}
}
