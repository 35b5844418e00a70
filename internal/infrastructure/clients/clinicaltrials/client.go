package clinicaltrials

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
	"github.com/alokrajg/hcp-profiling-agent/pkg/config"
)

const (
	// DefaultMaxRank bounds how many studies the API call requests.
	DefaultMaxRank = 50
	// DefaultMaxUsed bounds how many fetched studies feed the summary.
	DefaultMaxUsed = 5
)

// Client searches the clinical trials registry by investigator name.
type Client interface {
	SearchByInvestigator(ctx context.Context, fullName string) (*entities.TrialSummary, error)
}

// HTTPClient queries the study_fields API. Trial data is supplementary, so
// any failure collapses to an empty summary rather than an error.
type HTTPClient struct {
	baseURL    string
	maxRank    int
	maxUsed    int
	httpClient *http.Client
}

// The study_fields response wraps every field in a single-element array.
type studyFieldsResponse struct {
	StudyFieldsResponse struct {
		NStudiesFound int `json:"NStudiesFound"`
		StudyFields   []struct {
			NCTID           []string `json:"NCTId"`
			Condition       []string `json:"Condition"`
			Intervention    []string `json:"Intervention"`
			OverallStatus   []string `json:"OverallStatus"`
			LeadSponsorName []string `json:"LeadSponsorName"`
		} `json:"StudyFields"`
	} `json:"StudyFieldsResponse"`
}

// NewClient creates a clinical trials client from configuration.
func NewClient(cfg *config.ClinicalTrialsConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxRank := cfg.MaxRank
	if maxRank <= 0 {
		maxRank = DefaultMaxRank
	}
	maxUsed := cfg.MaxUsed
	if maxUsed <= 0 {
		maxUsed = DefaultMaxUsed
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		maxRank: maxRank,
		maxUsed: maxUsed,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchByInvestigator fetches up to maxRank studies mentioning the provider
// and condenses the first maxUsed of them into a TrialSummary. Never returns
// an error; a zero-valued summary stands in for any failure.
func (c *HTTPClient) SearchByInvestigator(ctx context.Context, fullName string) (*entities.TrialSummary, error) {
	summary := &entities.TrialSummary{
		Conditions:    []string{},
		Interventions: []string{},
		Trials:        []entities.TrialRecord{},
	}
	if c.baseURL == "" || strings.TrimSpace(fullName) == "" {
		return summary, nil
	}

	endpoint := fmt.Sprintf(
		"%s?expr=%s&fields=NCTId%%2CCondition%%2CIntervention%%2COverallStatus%%2CLeadSponsorName&min_rnk=1&max_rnk=%d&fmt=json",
		c.baseURL, url.QueryEscape(fullName), c.maxRank)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return summary, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("investigator", fullName).Msg("clinical trials search unavailable")
		return summary, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("investigator", fullName).Msg("clinical trials search returned non-2xx")
		return summary, nil
	}

	var parsed studyFieldsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Warn().Err(err).Str("investigator", fullName).Msg("clinical trials search returned malformed body")
		return summary, nil
	}

	// Only the first maxUsed studies feed the summary; everything, counts
	// included, derives from that trimmed set.
	studies := parsed.StudyFieldsResponse.StudyFields
	if len(studies) > c.maxUsed {
		studies = studies[:c.maxUsed]
	}

	seenConditions := map[string]struct{}{}
	seenInterventions := map[string]struct{}{}

	for _, study := range studies {
		record := entities.TrialRecord{
			NCTID:        first(study.NCTID),
			Condition:    first(study.Condition),
			Intervention: first(study.Intervention),
			Status:       first(study.OverallStatus),
			Sponsor:      first(study.LeadSponsorName),
		}

		summary.Total++
		switch record.Status {
		case "Active":
			summary.Active++
		case "Completed":
			summary.Completed++
		}

		if record.Condition != "" {
			if _, dup := seenConditions[strings.ToLower(record.Condition)]; !dup {
				seenConditions[strings.ToLower(record.Condition)] = struct{}{}
				summary.Conditions = append(summary.Conditions, record.Condition)
			}
		}
		if record.Intervention != "" {
			if _, dup := seenInterventions[strings.ToLower(record.Intervention)]; !dup {
				seenInterventions[strings.ToLower(record.Intervention)] = struct{}{}
				summary.Interventions = append(summary.Interventions, record.Intervention)
			}
		}

		summary.Trials = append(summary.Trials, record)
	}

	return summary, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
