package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
	"github.com/alokrajg/hcp-profiling-agent/internal/domain/providers"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/clinicaltrials"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/npiregistry"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/pubmed"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/websearch"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/observability"
	apperrors "github.com/alokrajg/hcp-profiling-agent/pkg/errors"
	"github.com/alokrajg/hcp-profiling-agent/pkg/utils"
)

const profileCachePrefix = "profile:"

// BatchResult is the outcome of one batch run. Profiles are positionally
// aligned with the submitted identifiers.
type BatchResult struct {
	BatchID  string              `json:"batch_id"`
	Profiles []*entities.Profile `json:"profiles"`
	Count    int                 `json:"count"`
}

// ProfileService drives the full pipeline for one or many identifiers:
// normalize, fetch sources, extract deterministically, refine, finalize.
type ProfileService struct {
	registry  npiregistry.Client
	pubmed    pubmed.Client
	webSearch websearch.Client
	trials    clinicaltrials.Client
	extractor *FieldExtractor
	chain     *EnrichmentChain
	cache     providers.CacheProvider
	cacheTTL  int
	workers   int
	metrics   *observability.Metrics
}

// NewProfileService creates a profile service. The cache and metrics are
// optional; a nil cache disables the read-through layer.
func NewProfileService(
	registry npiregistry.Client,
	pubmedClient pubmed.Client,
	webSearchClient websearch.Client,
	trialsClient clinicaltrials.Client,
	chain *EnrichmentChain,
	cache providers.CacheProvider,
	cacheTTLSeconds int,
	workers int,
	metrics *observability.Metrics,
) *ProfileService {
	if workers < 1 {
		workers = 1
	}
	return &ProfileService{
		registry:  registry,
		pubmed:    pubmedClient,
		webSearch: webSearchClient,
		trials:    trialsClient,
		extractor: NewFieldExtractor(),
		chain:     chain,
		cache:     cache,
		cacheTTL:  cacheTTLSeconds,
		workers:   workers,
		metrics:   metrics,
	}
}

// GenerateBatch produces one profile per submitted identifier, in submission
// order. Item failures never abort the batch: a panicking or erroring item
// yields a minimal placeholder profile in its slot. maxPerSource > 0 bounds
// how many raw records each source contributes per identifier.
func (s *ProfileService) GenerateBatch(ctx context.Context, rawIDs []string, maxPerSource int) (*BatchResult, error) {
	if len(rawIDs) == 0 {
		return nil, apperrors.NewValidationError("npi_list must not be empty", nil)
	}

	batchID := uuid.New().String()
	logger := observability.LoggerFromContext(ctx)
	logger.Info().Str("batch_id", batchID).Int("size", len(rawIDs)).Msg("starting profile batch")

	profiles := make([]*entities.Profile, len(rawIDs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	for i, rawID := range rawIDs {
		i, rawID := i, rawID
		group.Go(func() error {
			profiles[i] = s.generateSafe(groupCtx, rawID, maxPerSource)
			return nil
		})
	}
	// Workers only ever return nil; the group is used for its limit.
	_ = group.Wait()

	if s.metrics != nil {
		s.metrics.ProfilesGenerated.Add(ctx, int64(len(profiles)))
	}
	logger.Info().Str("batch_id", batchID).Int("profiles", len(profiles)).Msg("profile batch complete")

	return &BatchResult{
		BatchID:  batchID,
		Profiles: profiles,
		Count:    len(profiles),
	}, nil
}

// generateSafe guarantees a non-nil profile no matter what the pipeline does.
func (s *ProfileService) generateSafe(ctx context.Context, rawID string, maxPerSource int) (profile *entities.Profile) {
	defer func() {
		if r := recover(); r != nil {
			observability.LoggerFromContext(ctx).Error().
				Interface("panic", r).
				Str("raw_id", rawID).
				Msg("profile generation panicked, emitting placeholder")
			profile = placeholderProfile(rawID)
		}
	}()

	generated, err := s.generate(ctx, rawID, maxPerSource)
	if err != nil || generated == nil {
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("raw_id", rawID).
				Msg("profile generation failed, emitting placeholder")
		}
		return placeholderProfile(rawID)
	}
	return generated
}

// GenerateProfile runs the pipeline for one identifier. The only hard error
// is an identifier that cannot be normalized; every downstream failure
// degrades to missing data in an otherwise complete profile.
func (s *ProfileService) GenerateProfile(ctx context.Context, rawID string) (*entities.Profile, error) {
	return s.generate(ctx, rawID, 0)
}

func (s *ProfileService) generate(ctx context.Context, rawID string, maxPerSource int) (*entities.Profile, error) {
	npi, ok := utils.NormalizeNPI(rawID)
	if !ok {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("identifier %q does not normalize to a 10-digit NPI", rawID), nil)
	}

	logger := observability.LoggerFromContext(ctx)

	if cached := s.cachedProfile(ctx, npi); cached != nil {
		logger.Debug().Str("npi", npi).Msg("profile served from cache")
		return cached, nil
	}

	logger.Debug().Str("npi", npi).Str("state", entities.StatePending).Msg("pipeline state")

	bundle := s.fetchSources(ctx, npi)
	trimBundle(bundle, maxPerSource)
	logger.Debug().Str("npi", npi).Str("state", entities.StateRegistryFetched).Msg("pipeline state")

	profile := s.extractor.Extract(npi, bundle)

	if s.chain != nil {
		s.chain.Refine(ctx, profile, bundle)
	}
	logger.Debug().Str("npi", npi).Str("state", entities.StateEnriched).Msg("pipeline state")

	profile.EnsureComplete(npi)
	logger.Debug().Str("npi", npi).Str("state", entities.StateFinalized).Msg("pipeline state")

	s.storeProfile(ctx, npi, profile)
	return profile, nil
}

// fetchSources gathers all external payloads for one identifier. Each source
// failure is contained to its slot in the bundle.
func (s *ProfileService) fetchSources(ctx context.Context, npi string) *entities.SourceBundle {
	logger := observability.LoggerFromContext(ctx)
	bundle := &entities.SourceBundle{}

	if s.registry != nil {
		start := time.Now()
		record, err := s.registry.Lookup(ctx, npi)
		observability.RecordSourceFetch(ctx, s.metrics, "npi_registry", time.Since(start), err)
		if err != nil {
			logger.Warn().Err(err).Str("npi", npi).Msg("registry lookup failed")
		} else {
			bundle.Registry = record
		}
	}

	// Name-keyed sources only make sense once the registry gave us a name.
	firstName, lastName := registryName(bundle.Registry)
	if lastName == "" {
		return bundle
	}
	fullName := strings.TrimSpace(firstName + " " + lastName)

	if s.pubmed != nil {
		start := time.Now()
		report, err := s.pubmed.SearchByAuthor(ctx, firstName, lastName)
		observability.RecordSourceFetch(ctx, s.metrics, "pubmed", time.Since(start), err)
		if err != nil {
			logger.Warn().Err(err).Str("npi", npi).Msg("publication search failed")
		} else {
			bundle.Publications = report
		}
	}

	if s.webSearch != nil {
		query := webQuery(fullName, bundle.Registry)
		start := time.Now()
		results, err := s.webSearch.Search(ctx, query)
		observability.RecordSourceFetch(ctx, s.metrics, "web_search", time.Since(start), err)
		if err == nil {
			bundle.WebResults = results
		}
	}

	if s.trials != nil {
		start := time.Now()
		summary, err := s.trials.SearchByInvestigator(ctx, fullName)
		observability.RecordSourceFetch(ctx, s.metrics, "clinical_trials", time.Since(start), err)
		if err == nil {
			bundle.Trials = summary
		}
	}

	return bundle
}

func (s *ProfileService) cachedProfile(ctx context.Context, npi string) *entities.Profile {
	if s.cache == nil {
		return nil
	}
	key := profileCachePrefix + npi
	blob, err := s.cache.Get(ctx, key)
	if err != nil {
		observability.RecordCacheMiss(ctx, s.metrics, key)
		return nil
	}
	var profile entities.Profile
	if err := json.Unmarshal(blob, &profile); err != nil {
		observability.RecordCacheMiss(ctx, s.metrics, key)
		return nil
	}
	observability.RecordCacheHit(ctx, s.metrics, key)
	return &profile
}

func (s *ProfileService) storeProfile(ctx context.Context, npi string, profile *entities.Profile) {
	if s.cache == nil {
		return
	}
	blob, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, profileCachePrefix+npi, blob, s.cacheTTL); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("npi", npi).Msg("failed to cache profile")
	}
}

// trimBundle bounds per-source detail when the caller asked for less than
// the configured caps. Aggregate counts are left alone.
func trimBundle(bundle *entities.SourceBundle, maxPerSource int) {
	if bundle == nil || maxPerSource <= 0 {
		return
	}
	if bundle.Publications != nil && len(bundle.Publications.Publications) > maxPerSource {
		bundle.Publications.Publications = bundle.Publications.Publications[:maxPerSource]
	}
	if len(bundle.WebResults) > maxPerSource {
		bundle.WebResults = bundle.WebResults[:maxPerSource]
	}
	if bundle.Trials != nil && len(bundle.Trials.Trials) > maxPerSource {
		bundle.Trials.Trials = bundle.Trials.Trials[:maxPerSource]
	}
}

func registryName(record *entities.RegistryRecord) (string, string) {
	if record == nil {
		return "", ""
	}
	return strings.TrimSpace(record.Basic.FirstName), strings.TrimSpace(record.Basic.LastName)
}

// webQuery steers the open web search toward professional profile pages so
// that social handles show up in the results.
func webQuery(fullName string, record *entities.RegistryRecord) string {
	parts := []string{fullName}
	if record != nil {
		for _, taxonomy := range record.Taxonomies {
			if taxonomy.Primary && taxonomy.Desc != "" {
				parts = append(parts, taxonomy.Desc)
				break
			}
		}
		for _, address := range record.Addresses {
			if strings.EqualFold(address.AddressPurpose, "LOCATION") && address.City != "" {
				parts = append(parts, address.City)
				break
			}
		}
	}
	parts = append(parts, "LinkedIn Twitter profile hospital")
	return strings.Join(parts, " ")
}

// placeholderProfile is the slot filler for items whose pipeline run failed
// outright. Still a complete record, just an untrusted one.
func placeholderProfile(rawID string) *entities.Profile {
	npi, ok := utils.NormalizeNPI(rawID)
	if !ok {
		npi = strings.TrimSpace(rawID)
	}
	profile := &entities.Profile{ConfidenceScore: ConfidenceUnnamed}
	profile.EnsureComplete(npi)
	profile.Summary = fmt.Sprintf("%s is a healthcare provider based in an unknown location. Affiliation: Not available.", profile.FullName)
	return profile
}
