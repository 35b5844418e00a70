package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alokrajg/hcp-profiling-agent/internal/application/services"
	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
)

func registryRecord() *entities.RegistryRecord {
	return &entities.RegistryRecord{
		Basic: entities.RegistryBasic{
			FirstName:  "JANE",
			LastName:   "DOE",
			NamePrefix: "Dr.",
			Credential: "MD",
			Gender:     "F",
		},
		Addresses: []entities.RegistryAddress{
			{City: "NEW YORK", State: "ny", Address1: "PO BOX 12", AddressPurpose: "MAILING"},
			{City: "BOSTON", State: "ma", OrganizationName: "General Hospital", AddressPurpose: "LOCATION"},
		},
		Taxonomies: []entities.RegistryTaxonomy{
			{Desc: "Internal Medicine", Primary: false},
			{Desc: "Cardiology", Primary: true},
		},
	}
}

func TestExtract_FullBundle(t *testing.T) {
	bundle := &entities.SourceBundle{
		Registry: registryRecord(),
		Publications: &entities.PublicationReport{
			Count:     12,
			YearRange: "2015–2023",
			Publications: []entities.PublicationRecord{
				{Title: "T1", Journal: "Circulation", Year: "2023"},
				{Title: "T2", Journal: "JACC", Year: "2020"},
				{Title: "T3", Journal: "Heart", Year: "2018"},
				{Title: "T4", Journal: "Lancet", Year: "2015"},
			},
		},
		Trials: &entities.TrialSummary{
			Total: 4, Active: 1, Completed: 2,
			Conditions:    []string{"Heart Failure", "Hypertension"},
			Interventions: []string{"Drug A"},
		},
	}

	profile := services.NewFieldExtractor().Extract("1740895150", bundle)

	assert.Equal(t, "1740895150", profile.NPI)
	assert.Equal(t, "Dr. JANE DOE", profile.FullName)
	assert.Equal(t, "Cardiology", profile.Specialty)
	assert.Equal(t, "MD", profile.Degrees)
	assert.Equal(t, "Female", profile.Gender)

	// LOCATION address wins over the mailing address.
	assert.Equal(t, "Boston, MA", profile.Location)
	assert.Equal(t, "General Hospital", profile.Affiliation)

	assert.Equal(t, 12, profile.PublicationCount)
	assert.Equal(t, "2015–2023", profile.PublicationYears)
	assert.Equal(t, []string{"Circulation", "JACC", "Heart"}, profile.TopPublicationJournals)
	assert.Equal(t, []string{"T1", "T2", "T3"}, profile.TopPublicationTitles)

	assert.Equal(t, 4, profile.TotalTrials)
	assert.Equal(t, []string{"Heart Failure", "Hypertension"}, profile.TopInterests)

	assert.Equal(t, "Research-focused", profile.EngagementStyle)
	assert.Equal(t, services.ConfidenceNamed, profile.ConfidenceScore)
	assert.Equal(t, "Dr. JANE DOE is a Cardiology based in Boston, MA. Affiliation: General Hospital.", profile.Summary)
	assert.Same(t, bundle, profile.Sources)
}

func TestExtract_EmptyBundleStillComplete(t *testing.T) {
	profile := services.NewFieldExtractor().Extract("0000000001", &entities.SourceBundle{})

	assert.Equal(t, "NPI 0000000001", profile.FullName)
	assert.Equal(t, services.ConfidenceUnnamed, profile.ConfidenceScore)
	assert.Equal(t, "Healthcare provider", profile.EngagementStyle)
	assert.Equal(t, "deterministic", profile.EnrichedBy)
	assert.NotNil(t, profile.SocialHandles)
	assert.NotNil(t, profile.TopInterests)
	assert.Equal(t, "NPI 0000000001 is a healthcare provider based in an unknown location. Affiliation: Not available.", profile.Summary)
}

func TestExtract_NilBundle(t *testing.T) {
	profile := services.NewFieldExtractor().Extract("0000000001", nil)
	require.NotNil(t, profile)
	assert.Equal(t, "NPI 0000000001", profile.FullName)
}

func TestExtract_AffiliationFallsBackToAddressLine(t *testing.T) {
	record := registryRecord()
	record.Addresses = []entities.RegistryAddress{
		{City: "BOSTON", State: "MA", Address1: "123 Main St", AddressPurpose: "LOCATION"},
	}

	profile := services.NewFieldExtractor().Extract("1740895150", &entities.SourceBundle{Registry: record})
	assert.Equal(t, "123 Main St", profile.Affiliation)
}

func TestExtract_PracticeLocationBackfill(t *testing.T) {
	record := registryRecord()
	record.Addresses = nil
	record.PracticeLocations = []entities.RegistryPracticeLocation{
		{OrganizationName: "Satellite Clinic"},
	}

	profile := services.NewFieldExtractor().Extract("1740895150", &entities.SourceBundle{Registry: record})
	assert.Equal(t, "Satellite Clinic", profile.Affiliation)
}

func TestExtract_PublicationAffiliationFillsRegistryGap(t *testing.T) {
	record := registryRecord()
	record.Addresses = nil
	record.PracticeLocations = nil

	bundle := &entities.SourceBundle{
		Registry: record,
		Publications: &entities.PublicationReport{
			Count:        1,
			Affiliations: []string{"Mayo Clinic, Rochester, MN"},
		},
	}

	profile := services.NewFieldExtractor().Extract("1740895150", bundle)
	assert.Equal(t, "Mayo Clinic, Rochester, MN", profile.Affiliation)
}

func TestExtract_SpecialtyFallsBackToBillingCode(t *testing.T) {
	record := registryRecord()
	record.Taxonomies = []entities.RegistryTaxonomy{
		{Code: "207RC0000X", Primary: true},
	}

	profile := services.NewFieldExtractor().Extract("1740895150", &entities.SourceBundle{Registry: record})
	assert.Equal(t, "207RC0000X", profile.Specialty)
}

func TestExtract_WebResultsYieldHandlesAndInterests(t *testing.T) {
	bundle := &entities.SourceBundle{
		Registry: registryRecord(),
		WebResults: []entities.WebResult{
			{
				Title:   "Dr. Jane Doe | LinkedIn",
				URL:     "https://www.linkedin.com/in/janedoemd",
				Snippet: "Cardiology researcher focused on clinical education",
			},
			{
				Title:   "Jane Doe on Twitter",
				URL:     "https://example.com/news",
				Snippet: "Follow @janedoemd on Twitter for surgery updates",
			},
		},
	}

	profile := services.NewFieldExtractor().Extract("1740895150", bundle)

	assert.Equal(t, "https://www.linkedin.com/in/janedoemd", profile.SocialHandles["linkedin"])
	assert.Equal(t, "@janedoemd", profile.SocialHandles["twitter"])
	assert.Equal(t, []string{"Research", "Clinical", "Education", "Cardiology", "Surgery"}, profile.TopInterests)
}

func TestExtract_OverlongHandleTokenIgnored(t *testing.T) {
	bundle := &entities.SourceBundle{
		WebResults: []entities.WebResult{
			{Title: "Twitter thread", Snippet: "mention of @averyveryverylongaccountnamehere in passing"},
		},
	}

	profile := services.NewFieldExtractor().Extract("1740895150", bundle)
	assert.NotContains(t, profile.SocialHandles, "twitter")
}

func TestExtract_GenderInferredFromNameWhenRegistrySilent(t *testing.T) {
	record := registryRecord()
	record.Basic.Gender = ""

	profile := services.NewFieldExtractor().Extract("1740895150", &entities.SourceBundle{Registry: record})
	assert.Equal(t, "Female", profile.Gender)
}

func TestExtract_UnknownNameLeavesGenderEmpty(t *testing.T) {
	record := registryRecord()
	record.Basic.Gender = ""
	record.Basic.FirstName = "Zyx"

	profile := services.NewFieldExtractor().Extract("1740895150", &entities.SourceBundle{Registry: record})
	assert.Empty(t, profile.Gender)
}

func TestExtract_EngagementLadder(t *testing.T) {
	extractor := services.NewFieldExtractor()

	withAffiliation := extractor.Extract("1740895150", &entities.SourceBundle{Registry: registryRecord()})
	assert.Equal(t, "Clinical leader", withAffiliation.EngagementStyle)

	withPubs := extractor.Extract("1740895150", &entities.SourceBundle{
		Registry:     registryRecord(),
		Publications: &entities.PublicationReport{Count: 3},
	})
	assert.Equal(t, "Research-focused", withPubs.EngagementStyle)

	withHandles := extractor.Extract("1740895150", &entities.SourceBundle{
		WebResults: []entities.WebResult{{URL: "https://linkedin.com/in/jdoe"}},
	})
	assert.Equal(t, "Social media active", withHandles.EngagementStyle)

	bare := extractor.Extract("1740895150", &entities.SourceBundle{})
	assert.Equal(t, "Healthcare provider", bare.EngagementStyle)
}

func TestInferGenderFromName(t *testing.T) {
	assert.Equal(t, "Male", services.InferGenderFromName("James"))
	assert.Equal(t, "Female", services.InferGenderFromName("  MARY "))
	assert.Equal(t, "Female", services.InferGenderFromName("Mary Ann"))
	assert.Empty(t, services.InferGenderFromName("Jordan"))
	assert.Empty(t, services.InferGenderFromName(""))
}
