package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
)

const profileSystemPrompt = `You are a healthcare provider intelligence analyst. You receive raw data gathered about one US healthcare provider: their NPI registry record, publication history, open web search results, and clinical trial involvement. Produce a refined profile as JSON with exactly these keys: fullName, specialty, affiliation, location, degrees, socialMediaHandles (object of platform to handle), followers (object of platform to count as text), topInterests (array of strings), recentActivity, engagementStyle, confidence (integer 0-100), summary. Only state facts supported by the supplied data. Leave a key as an empty string, empty object, or empty array when the data does not support it. Respond with JSON only, no prose and no markdown fences.`

const researchSystemPrompt = `You are a medical research analyst. You receive a provider's publication journals and titles. Classify each distinct journal into a tier ("High-impact", "Medium-impact", or "Low-impact") and rate the provider's overall research prestige. Respond with JSON only, exactly these keys: journal_classification (array of objects with keys journal and tier), research_prestige_score (integer 0-100), top_influential_publications (array of up to 3 title strings).`

const trialsSystemPrompt = `You are a clinical research analyst. You receive a provider's clinical trial record counts, conditions, and interventions. Summarize their trial involvement. Respond with JSON only, exactly these keys: trial_involvement (one sentence), leadership_roles (array of strings, empty if unknown), impact_summary (one or two sentences).`

func buildProfileUserPrompt(npi string, bundle *entities.SourceBundle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "NPI: %s\n", npi)

	if bundle.Registry != nil {
		if blob, err := json.Marshal(bundle.Registry); err == nil {
			fmt.Fprintf(&b, "Registry record:\n%s\n", blob)
		}
	} else {
		b.WriteString("Registry record: none found\n")
	}

	if bundle.Publications != nil && bundle.Publications.Count > 0 {
		fmt.Fprintf(&b, "Publications: %d total", bundle.Publications.Count)
		if bundle.Publications.YearRange != "" {
			fmt.Fprintf(&b, " (%s)", bundle.Publications.YearRange)
		}
		b.WriteString("\n")
		for _, pub := range bundle.Publications.Publications {
			fmt.Fprintf(&b, "- %s (%s, %s)\n", pub.Title, pub.Journal, pub.Year)
		}
		if len(bundle.Publications.Affiliations) > 0 {
			fmt.Fprintf(&b, "Affiliations from publications: %s\n", strings.Join(bundle.Publications.Affiliations, "; "))
		}
	} else {
		b.WriteString("Publications: none found\n")
	}

	if len(bundle.WebResults) > 0 {
		b.WriteString("Web search results:\n")
		for _, result := range bundle.WebResults {
			snippet := result.Snippet
			if len(snippet) > 200 {
				snippet = snippet[:200]
			}
			fmt.Fprintf(&b, "- %s | %s | %s\n", result.Title, result.URL, snippet)
		}
	}

	if bundle.Trials != nil && bundle.Trials.Total > 0 {
		fmt.Fprintf(&b, "Clinical trials: %d total, %d active, %d completed\n",
			bundle.Trials.Total, bundle.Trials.Active, bundle.Trials.Completed)
		if len(bundle.Trials.Conditions) > 0 {
			fmt.Fprintf(&b, "Trial conditions: %s\n", strings.Join(bundle.Trials.Conditions, "; "))
		}
	}

	return b.String()
}

func buildResearchUserPrompt(profile *entities.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provider: %s (%s)\n", profile.FullName, profile.Specialty)
	fmt.Fprintf(&b, "Publication count: %d\n", profile.PublicationCount)
	if len(profile.TopPublicationJournals) > 0 {
		fmt.Fprintf(&b, "Journals: %s\n", strings.Join(profile.TopPublicationJournals, "; "))
	}
	if len(profile.TopPublicationTitles) > 0 {
		fmt.Fprintf(&b, "Titles: %s\n", strings.Join(profile.TopPublicationTitles, "; "))
	}
	return b.String()
}

func buildTrialsUserPrompt(profile *entities.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provider: %s (%s)\n", profile.FullName, profile.Specialty)
	fmt.Fprintf(&b, "Trials: %d total, %d active, %d completed\n",
		profile.TotalTrials, profile.ActiveTrials, profile.CompletedTrials)
	if len(profile.Conditions) > 0 {
		fmt.Fprintf(&b, "Conditions: %s\n", strings.Join(profile.Conditions, "; "))
	}
	if len(profile.Interventions) > 0 {
		fmt.Fprintf(&b, "Interventions: %s\n", strings.Join(profile.Interventions, "; "))
	}
	return b.String()
}
