package providers

import (
	"context"

	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
)

// ProfileEnrichment holds the fields an enrichment provider may override on
// the deterministic profile. Zero values mean "no opinion" and leave the
// deterministic value in place.
type ProfileEnrichment struct {
	FullName        string            `json:"fullName"`
	Specialty       string            `json:"specialty"`
	Affiliation     string            `json:"affiliation"`
	Location        string            `json:"location"`
	Degrees         string            `json:"degrees"`
	SocialHandles   map[string]string `json:"socialMediaHandles"`
	Followers       map[string]string `json:"followers"`
	TopInterests    []string          `json:"topInterests"`
	RecentActivity  string            `json:"recentActivity"`
	EngagementStyle string            `json:"engagementStyle"`
	Confidence      int               `json:"confidence"`
	Summary         string            `json:"summary"`
}

// ResearchImpact is the structured reply of the journal classification prompt.
type ResearchImpact struct {
	JournalClassification      []entities.JournalTier `json:"journal_classification"`
	ResearchPrestigeScore      int                    `json:"research_prestige_score"`
	TopInfluentialPublications []string               `json:"top_influential_publications"`
}

// TrialImpact is the structured reply of the trials involvement prompt.
type TrialImpact struct {
	TrialInvolvement string   `json:"trial_involvement"`
	LeadershipRoles  []string `json:"leadership_roles"`
	ImpactSummary    string   `json:"impact_summary"`
}

// ProfileEnrichmentProvider refines a deterministic profile using an external
// language model. Every method fails open: callers recover from any error by
// keeping the deterministic output.
type ProfileEnrichmentProvider interface {
	EnrichProfile(ctx context.Context, npi string, bundle *entities.SourceBundle) (*ProfileEnrichment, error)
	ClassifyResearch(ctx context.Context, profile *entities.Profile) (*ResearchImpact, error)
	SummarizeTrials(ctx context.Context, profile *entities.Profile) (*TrialImpact, error)
}
