package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
)

// Confidence levels assigned by deterministic extraction. A profile whose
// name came from the registry is trusted far more than a placeholder one.
const (
	ConfidenceNamed   = 60
	ConfidenceUnnamed = 20
)

const topPublicationDetail = 3

// FieldExtractor derives a complete profile from raw source payloads using
// fixed rules only. It is the always-available floor the AI pass refines;
// the two paths must agree on every field the AI leaves untouched.
type FieldExtractor struct{}

// NewFieldExtractor creates a deterministic field extractor.
func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{}
}

// Extract builds the deterministic profile for one identifier. Works with
// whatever subset of sources the bundle carries; a fully empty bundle still
// yields a complete profile around the fallback name.
func (e *FieldExtractor) Extract(npi string, bundle *entities.SourceBundle) *entities.Profile {
	profile := &entities.Profile{}
	if bundle == nil {
		bundle = &entities.SourceBundle{}
	}

	named := false
	if bundle.Registry != nil {
		named = e.applyRegistry(profile, bundle.Registry)
	}
	if bundle.Publications != nil {
		e.applyPublications(profile, bundle.Publications)
	}
	if len(bundle.WebResults) > 0 {
		e.applyWebResults(profile, bundle.WebResults)
	}
	if bundle.Trials != nil {
		e.applyTrials(profile, bundle.Trials)
	}

	if profile.Gender == "" && named {
		profile.Gender = InferGenderFromName(bundle.Registry.Basic.FirstName)
	}

	profile.EngagementStyle = engagementStyle(profile)
	if named {
		profile.ConfidenceScore = ConfidenceNamed
	} else {
		profile.ConfidenceScore = ConfidenceUnnamed
	}

	profile.EnsureComplete(npi)
	profile.Summary = buildSummary(profile)
	profile.Sources = bundle
	return profile
}

func (e *FieldExtractor) applyRegistry(profile *entities.Profile, record *entities.RegistryRecord) bool {
	basic := record.Basic

	nameParts := []string{}
	for _, part := range []string{basic.NamePrefix, basic.FirstName, basic.MiddleName, basic.LastName} {
		if strings.TrimSpace(part) != "" {
			nameParts = append(nameParts, strings.TrimSpace(part))
		}
	}
	named := strings.TrimSpace(basic.FirstName) != "" || strings.TrimSpace(basic.LastName) != ""
	if named {
		profile.FullName = strings.Join(nameParts, " ")
	}

	profile.Degrees = strings.TrimSpace(basic.Credential)

	switch strings.ToUpper(basic.Gender) {
	case "M":
		profile.Gender = GenderMale
	case "F":
		profile.Gender = GenderFemale
	}

	// First primary taxonomy wins; otherwise the first one listed. The
	// billing code stands in for a missing description.
	for _, taxonomy := range record.Taxonomies {
		if taxonomy.Primary {
			profile.Specialty = taxonomyLabel(taxonomy)
			break
		}
	}
	if profile.Specialty == "" && len(record.Taxonomies) > 0 {
		profile.Specialty = taxonomyLabel(record.Taxonomies[0])
	}

	// Practice addresses (purpose LOCATION) beat mailing addresses.
	var address *entities.RegistryAddress
	for i := range record.Addresses {
		if strings.EqualFold(record.Addresses[i].AddressPurpose, "LOCATION") {
			address = &record.Addresses[i]
			break
		}
	}
	if address == nil && len(record.Addresses) > 0 {
		address = &record.Addresses[0]
	}
	if address != nil {
		switch {
		case address.City != "" && address.State != "":
			profile.Location = fmt.Sprintf("%s, %s", titleCase(address.City), strings.ToUpper(address.State))
		case address.City != "":
			profile.Location = titleCase(address.City)
		case address.State != "":
			profile.Location = strings.ToUpper(address.State)
		}
		if address.OrganizationName != "" {
			profile.Affiliation = address.OrganizationName
		} else if address.Address1 != "" {
			profile.Affiliation = address.Address1
		}
	}

	// practiceLocations backfill when no address yielded an affiliation.
	if profile.Affiliation == "" {
		for _, location := range record.PracticeLocations {
			if location.OrganizationName != "" {
				profile.Affiliation = location.OrganizationName
				break
			}
			if location.Name != "" {
				profile.Affiliation = location.Name
				break
			}
		}
	}

	return named
}

func (e *FieldExtractor) applyPublications(profile *entities.Profile, report *entities.PublicationReport) {
	profile.PublicationCount = report.Count
	profile.PublicationYears = report.YearRange
	profile.TopPublicationJournals = report.TopJournals(topPublicationDetail)
	profile.TopPublicationTitles = report.TopTitles(topPublicationDetail)

	// Publication affiliations fill the gap when the registry had none.
	if profile.Affiliation == "" && len(report.Affiliations) > 0 {
		profile.Affiliation = report.Affiliations[0]
	}
}

// twitterHandlePattern matches an @handle token; matches 30 characters or
// longer are rejected as noise.
var twitterHandlePattern = regexp.MustCompile(`@[A-Za-z0-9_]+`)

// interestVocabulary is the fixed keyword list scanned in web result text.
var interestVocabulary = []string{
	"research", "clinical", "education", "surgery",
	"cardiology", "oncology", "pediatrics", "neurology",
	"dermatology", "psychiatry", "radiology", "immunology",
}

func (e *FieldExtractor) applyWebResults(profile *entities.Profile, results []entities.WebResult) {
	handles := map[string]string{}
	interests := []string{}
	seen := map[string]struct{}{}

	for _, result := range results {
		text := result.Title + " " + result.Snippet

		if _, ok := handles["linkedin"]; !ok && strings.Contains(strings.ToLower(result.URL), "linkedin") {
			handles["linkedin"] = result.URL
		}
		if _, ok := handles["twitter"]; !ok && strings.Contains(strings.ToLower(text), "twitter") {
			if token := twitterHandlePattern.FindString(text); token != "" && len(token) < 30 {
				handles["twitter"] = token
			}
		}

		lower := strings.ToLower(text)
		for _, keyword := range interestVocabulary {
			if !strings.Contains(lower, keyword) {
				continue
			}
			if _, dup := seen[keyword]; dup {
				continue
			}
			seen[keyword] = struct{}{}
			interests = append(interests, titleCase(keyword))
		}
	}

	if len(handles) > 0 {
		profile.SocialHandles = handles
	}
	if len(interests) > 5 {
		interests = interests[:5]
	}
	if len(interests) > 0 {
		profile.TopInterests = interests
	}
}

func (e *FieldExtractor) applyTrials(profile *entities.Profile, summary *entities.TrialSummary) {
	profile.TotalTrials = summary.Total
	profile.ActiveTrials = summary.Active
	profile.CompletedTrials = summary.Completed
	profile.Conditions = summary.Conditions
	profile.Interventions = summary.Interventions

	if len(profile.TopInterests) == 0 && len(summary.Conditions) > 0 {
		interests := summary.Conditions
		if len(interests) > 5 {
			interests = interests[:5]
		}
		profile.TopInterests = interests
	}
}

// engagementStyle walks the fixed ladder: research evidence first, then
// social presence, then institutional affiliation, then the generic label.
func engagementStyle(profile *entities.Profile) string {
	switch {
	case profile.PublicationCount > 0:
		return "Research-focused"
	case len(profile.SocialHandles) > 0:
		return "Social media active"
	case profile.Affiliation != "":
		return "Clinical leader"
	default:
		return "Healthcare provider"
	}
}

func buildSummary(profile *entities.Profile) string {
	specialty := profile.Specialty
	if specialty == "" {
		specialty = "healthcare provider"
	}
	location := profile.Location
	if location == "" {
		location = "an unknown location"
	}
	affiliation := profile.Affiliation
	if affiliation == "" {
		affiliation = "Not available"
	}
	return fmt.Sprintf("%s is a %s based in %s. Affiliation: %s.",
		profile.FullName, specialty, location, affiliation)
}

func taxonomyLabel(taxonomy entities.RegistryTaxonomy) string {
	if taxonomy.Desc != "" {
		return taxonomy.Desc
	}
	return taxonomy.Code
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
