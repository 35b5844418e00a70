package entities

// Typed intermediate structures for each external source. Extraction logic
// pattern-matches on presence of these fields instead of indexing into
// untyped maps. A bundle is owned by the single identifier iteration that
// fetched it and is read-only afterwards.

// RegistryBasic mirrors the registry "basic" block.
type RegistryBasic struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MiddleName string `json:"middle_name"`
	NamePrefix string `json:"name_prefix"`
	Credential string `json:"credential"`
	Gender     string `json:"gender"`
}

// RegistryAddress mirrors one registry address entry.
type RegistryAddress struct {
	City             string `json:"city"`
	State            string `json:"state"`
	OrganizationName string `json:"organization_name"`
	Address1         string `json:"address_1"`
	AddressPurpose   string `json:"address_purpose"`
	TelephoneNumber  string `json:"telephone_number"`
}

// RegistryTaxonomy mirrors one coded specialty classification.
type RegistryTaxonomy struct {
	Desc    string `json:"desc"`
	Code    string `json:"code"`
	Primary bool   `json:"primary"`
}

// RegistryPracticeLocation mirrors the optional practiceLocations entries.
type RegistryPracticeLocation struct {
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name"`
}

// RegistryRecord is one provider record from the NPI registry.
type RegistryRecord struct {
	Basic             RegistryBasic              `json:"basic"`
	Addresses         []RegistryAddress          `json:"addresses"`
	Taxonomies        []RegistryTaxonomy         `json:"taxonomies"`
	PracticeLocations []RegistryPracticeLocation `json:"practiceLocations"`
}

// PublicationRecord is one article from the publication index.
type PublicationRecord struct {
	PMID    string   `json:"pmid"`
	Title   string   `json:"title"`
	Journal string   `json:"journal"`
	Year    string   `json:"year"`
	Authors []string `json:"authors"`
}

// PublicationReport aggregates a publication search for one person.
type PublicationReport struct {
	Count        int                 `json:"count"`
	Publications []PublicationRecord `json:"publications"`
	// Affiliations are cleaned and capped (see pubmed.CleanAffiliations).
	Affiliations []string `json:"affiliations"`
	YearRange    string   `json:"yearRange"`
}

// TopTitles returns up to n publication titles.
func (r *PublicationReport) TopTitles(n int) []string {
	out := []string{}
	for _, p := range r.Publications {
		if p.Title == "" {
			continue
		}
		out = append(out, p.Title)
		if len(out) == n {
			break
		}
	}
	return out
}

// TopJournals returns up to n journal names.
func (r *PublicationReport) TopJournals(n int) []string {
	out := []string{}
	for _, p := range r.Publications {
		if p.Journal == "" {
			continue
		}
		out = append(out, p.Journal)
		if len(out) == n {
			break
		}
	}
	return out
}

// WebResult is one web search hit.
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"href"`
	Snippet string `json:"body"`
}

// TrialRecord is one study from the trials registry. The registry returns
// each field as an array; the first element is the operative value.
type TrialRecord struct {
	NCTID        string `json:"nctId"`
	Condition    string `json:"condition"`
	Intervention string `json:"intervention"`
	Status       string `json:"status"`
	Sponsor      string `json:"sponsor"`
}

// TrialSummary aggregates a trials search for one person.
type TrialSummary struct {
	Total         int           `json:"total"`
	Active        int           `json:"active"`
	Completed     int           `json:"completed"`
	Conditions    []string      `json:"conditions"`
	Interventions []string      `json:"interventions"`
	Trials        []TrialRecord `json:"trials"`
}

// SourceBundle carries all raw payloads fetched for one identifier. A nil
// member means the source failed or was skipped; extraction treats both the
// same way.
type SourceBundle struct {
	Registry     *RegistryRecord    `json:"registry,omitempty"`
	Publications *PublicationReport `json:"pubmed,omitempty"`
	WebResults   []WebResult        `json:"web,omitempty"`
	Trials       *TrialSummary      `json:"trials,omitempty"`
}
