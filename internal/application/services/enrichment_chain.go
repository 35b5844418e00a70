package services

import (
	"context"

	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
	"github.com/alokrajg/hcp-profiling-agent/internal/domain/providers"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/observability"
)

// EnrichmentStrategy is one named provider in the refinement chain.
type EnrichmentStrategy struct {
	Name     string
	Provider providers.ProfileEnrichmentProvider
}

// EnrichmentChain tries each strategy in order and applies the first one
// that succeeds. Every failure is recoverable: a chain where all strategies
// fail leaves the deterministic profile untouched.
type EnrichmentChain struct {
	strategies []EnrichmentStrategy
}

// NewEnrichmentChain creates a chain over the given strategies. Strategies
// with a nil provider are skipped.
func NewEnrichmentChain(strategies ...EnrichmentStrategy) *EnrichmentChain {
	kept := make([]EnrichmentStrategy, 0, len(strategies))
	for _, s := range strategies {
		if s.Provider != nil {
			kept = append(kept, s)
		}
	}
	return &EnrichmentChain{strategies: kept}
}

// Refine applies the first successful strategy's output on top of the
// deterministic profile and records its name in EnrichedBy. Research and
// trial narratives come from the same winning provider and are each
// individually best-effort.
func (c *EnrichmentChain) Refine(ctx context.Context, profile *entities.Profile, bundle *entities.SourceBundle) {
	logger := observability.LoggerFromContext(ctx)

	for _, strategy := range c.strategies {
		enrichment, err := strategy.Provider.EnrichProfile(ctx, profile.NPI, bundle)
		if err != nil {
			logger.Warn().Err(err).
				Str("strategy", strategy.Name).
				Str("npi", profile.NPI).
				Msg("enrichment strategy failed, trying next")
			continue
		}
		if enrichment == nil {
			continue
		}

		applyEnrichment(profile, enrichment)
		profile.EnrichedBy = strategy.Name

		if impact, err := strategy.Provider.ClassifyResearch(ctx, profile); err == nil && impact != nil {
			profile.JournalClassification = impact.JournalClassification
			profile.ResearchPrestigeScore = impact.ResearchPrestigeScore
			profile.TopInfluentialPublications = impact.TopInfluentialPublications
		}
		if impact, err := strategy.Provider.SummarizeTrials(ctx, profile); err == nil && impact != nil {
			profile.TrialInvolvement = impact.TrialInvolvement
			profile.LeadershipRoles = impact.LeadershipRoles
			profile.ImpactSummary = impact.ImpactSummary
		}

		profile.EnsureComplete(profile.NPI)
		return
	}
}

// applyEnrichment copies non-zero enrichment fields onto the profile. Zero
// values mean the provider had no opinion and the deterministic value stays.
func applyEnrichment(profile *entities.Profile, enrichment *providers.ProfileEnrichment) {
	if enrichment.FullName != "" {
		profile.FullName = enrichment.FullName
	}
	if enrichment.Specialty != "" {
		profile.Specialty = enrichment.Specialty
	}
	if enrichment.Affiliation != "" {
		profile.Affiliation = enrichment.Affiliation
	}
	if enrichment.Location != "" {
		profile.Location = enrichment.Location
	}
	if enrichment.Degrees != "" {
		profile.Degrees = enrichment.Degrees
	}
	if len(enrichment.SocialHandles) > 0 {
		profile.SocialHandles = enrichment.SocialHandles
	}
	if len(enrichment.Followers) > 0 {
		profile.Followers = enrichment.Followers
	}
	if len(enrichment.TopInterests) > 0 {
		profile.TopInterests = enrichment.TopInterests
	}
	if enrichment.RecentActivity != "" {
		profile.RecentActivity = enrichment.RecentActivity
	}
	if enrichment.EngagementStyle != "" {
		profile.EngagementStyle = enrichment.EngagementStyle
	}
	if enrichment.Confidence > 0 {
		profile.ConfidenceScore = enrichment.Confidence
	}
	if enrichment.Summary != "" {
		profile.Summary = enrichment.Summary
	}
}
