package entities

import (
	"fmt"
	"strings"
)

// Pipeline states for one identifier. Transitions are strictly sequential:
// a failed fetch advances with an empty payload rather than blocking.
const (
	StatePending         = "PENDING"
	StateRegistryFetched = "REGISTRY_FETCHED"
	StateEnriched        = "ENRICHED"
	StateFinalized       = "FINALIZED"
)

// JournalTier classifies a journal by impact.
type JournalTier struct {
	Journal string `json:"journal"`
	Tier    string `json:"tier"`
}

// Profile is the canonical merged record for one NPI. Every field is present
// in the emitted record; EnsureComplete is the single point where a missing
// field becomes impossible.
type Profile struct {
	NPI              string            `json:"npi"`
	FullName         string            `json:"fullName"`
	Specialty        string            `json:"specialty"`
	Affiliation      string            `json:"affiliation"`
	Location         string            `json:"location"`
	Degrees          string            `json:"degrees"`
	Gender           string            `json:"gender"`
	SocialHandles    map[string]string `json:"socialMediaHandles"`
	Followers        map[string]string `json:"followers"`
	TopInterests     []string          `json:"topInterests"`
	RecentActivity   string            `json:"recentActivity"`
	PublicationCount int               `json:"publications"`
	EngagementStyle  string            `json:"engagementStyle"`
	ConfidenceScore  int               `json:"confidence"`
	Summary          string            `json:"summary"`

	// Research extension fields.
	PublicationYears           string        `json:"publicationYears"`
	TopPublicationJournals     []string      `json:"topPublicationJournals"`
	TopPublicationTitles       []string      `json:"topPublicationTitles"`
	JournalClassification      []JournalTier `json:"journalClassification"`
	ResearchPrestigeScore      int           `json:"researchPrestigeScore"`
	TopInfluentialPublications []string      `json:"topInfluentialPublications"`

	// Clinical trials extension fields.
	TotalTrials      int      `json:"totalTrials"`
	ActiveTrials     int      `json:"activeTrials"`
	CompletedTrials  int      `json:"completedTrials"`
	Conditions       []string `json:"conditions"`
	Interventions    []string `json:"interventions"`
	TrialInvolvement string   `json:"trialInvolvement"`
	LeadershipRoles  []string `json:"leadershipRoles"`
	ImpactSummary    string   `json:"impactSummary"`

	// EnrichedBy records which enrichment strategy produced the final
	// field values ("openai", "deterministic").
	EnrichedBy string `json:"enrichedBy"`

	// Sources carries the raw payloads for traceability. Never mutated
	// after the fetch phase.
	Sources *SourceBundle `json:"sources,omitempty"`
}

// FallbackName is the display-name label used when the registry yields no
// usable name for an identifier.
func FallbackName(npi string) string {
	return fmt.Sprintf("NPI %s", npi)
}

// EnsureComplete fills every canonical field with its documented default so
// downstream consumers never see a missing field. Also clamps the numeric
// invariants: confidence in [0,100], publication count >= 0.
func (p *Profile) EnsureComplete(npi string) {
	p.NPI = npi
	if strings.TrimSpace(p.FullName) == "" {
		p.FullName = FallbackName(npi)
	}
	if p.SocialHandles == nil {
		p.SocialHandles = map[string]string{}
	}
	if p.Followers == nil {
		p.Followers = map[string]string{}
	}
	if p.TopInterests == nil {
		p.TopInterests = []string{}
	}
	if p.TopPublicationJournals == nil {
		p.TopPublicationJournals = []string{}
	}
	if p.TopPublicationTitles == nil {
		p.TopPublicationTitles = []string{}
	}
	if p.JournalClassification == nil {
		p.JournalClassification = []JournalTier{}
	}
	if p.TopInfluentialPublications == nil {
		p.TopInfluentialPublications = []string{}
	}
	if p.Conditions == nil {
		p.Conditions = []string{}
	}
	if p.Interventions == nil {
		p.Interventions = []string{}
	}
	if p.LeadershipRoles == nil {
		p.LeadershipRoles = []string{}
	}
	if p.PublicationCount < 0 {
		p.PublicationCount = 0
	}
	if p.ConfidenceScore < 0 {
		p.ConfidenceScore = 0
	}
	if p.ConfidenceScore > 100 {
		p.ConfidenceScore = 100
	}
	if p.ResearchPrestigeScore < 0 {
		p.ResearchPrestigeScore = 0
	}
	if p.ResearchPrestigeScore > 100 {
		p.ResearchPrestigeScore = 100
	}
	if p.TotalTrials < 0 {
		p.TotalTrials = 0
	}
	if p.EngagementStyle == "" {
		p.EngagementStyle = "Healthcare provider"
	}
	if p.EnrichedBy == "" {
		p.EnrichedBy = "deterministic"
	}
}

// Flatten renders the profile as a flat record with list fields joined to
// comma-delimited text. Only serialization boundaries (CSV export, email
// bodies) call this; merge logic always works on the typed lists.
func (p *Profile) Flatten() map[string]string {
	journals := make([]string, 0, len(p.JournalClassification))
	for _, jc := range p.JournalClassification {
		journals = append(journals, fmt.Sprintf("%s (%s)", jc.Journal, jc.Tier))
	}

	return map[string]string{
		"npi":                        p.NPI,
		"fullName":                   p.FullName,
		"specialty":                  p.Specialty,
		"affiliation":                p.Affiliation,
		"location":                   p.Location,
		"degrees":                    p.Degrees,
		"gender":                     p.Gender,
		"twitter":                    p.SocialHandles["twitter"],
		"linkedin":                   p.SocialHandles["linkedin"],
		"topInterests":               strings.Join(p.TopInterests, ", "),
		"recentActivity":             p.RecentActivity,
		"publications":               fmt.Sprintf("%d", p.PublicationCount),
		"publicationYears":           p.PublicationYears,
		"topPublicationJournals":     strings.Join(p.TopPublicationJournals, ", "),
		"topPublicationTitles":       strings.Join(p.TopPublicationTitles, ", "),
		"journalClassification":      strings.Join(journals, ", "),
		"researchPrestigeScore":      fmt.Sprintf("%d", p.ResearchPrestigeScore),
		"topInfluentialPublications": strings.Join(p.TopInfluentialPublications, ", "),
		"totalTrials":                fmt.Sprintf("%d", p.TotalTrials),
		"activeTrials":               fmt.Sprintf("%d", p.ActiveTrials),
		"completedTrials":            fmt.Sprintf("%d", p.CompletedTrials),
		"conditions":                 strings.Join(p.Conditions, ", "),
		"interventions":              strings.Join(p.Interventions, ", "),
		"trialInvolvement":           p.TrialInvolvement,
		"leadershipRoles":            strings.Join(p.LeadershipRoles, ", "),
		"impactSummary":              p.ImpactSummary,
		"engagementStyle":            p.EngagementStyle,
		"confidence":                 fmt.Sprintf("%d", p.ConfidenceScore),
		"summary":                    p.Summary,
		"enrichedBy":                 p.EnrichedBy,
	}
}
