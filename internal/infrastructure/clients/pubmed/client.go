package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alokrajg/hcp-profiling-agent/internal/domain/entities"
	"github.com/alokrajg/hcp-profiling-agent/pkg/config"
	apperrors "github.com/alokrajg/hcp-profiling-agent/pkg/errors"
	"github.com/alokrajg/hcp-profiling-agent/pkg/retry"
)

// MaxAffiliations caps the cleaned affiliation list.
const MaxAffiliations = 5

// Client searches the publication index by author name.
type Client interface {
	SearchByAuthor(ctx context.Context, firstName, lastName string) (*entities.PublicationReport, error)
}

// HTTPClient is the live PubMed E-utilities client.
type HTTPClient struct {
	baseURL    string
	retMax     int
	httpClient *http.Client
	retryCfg   retry.Config
}

// NewClient creates a PubMed client from configuration.
func NewClient(cfg *config.PubMedConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	retMax := cfg.RetMax
	if retMax <= 0 {
		retMax = 20
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		retMax:  retMax,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryCfg: retry.SourceFetchConfig(),
	}
}

// WithRetry overrides the retry policy.
func (c *HTTPClient) WithRetry(cfg retry.Config) *HTTPClient {
	c.retryCfg = cfg
	return c
}

type esearchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// efetch XML shapes, trimmed to the elements we read.
type efetchEnvelope struct {
	Articles []efetchArticle `xml:"PubmedArticle"`
}

type efetchArticle struct {
	PMID    string `xml:"MedlineCitation>PMID"`
	Title   string `xml:"MedlineCitation>Article>ArticleTitle"`
	Journal string `xml:"MedlineCitation>Article>Journal>Title"`
	Year    string `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	Authors []struct {
		ForeName     string   `xml:"ForeName"`
		LastName     string   `xml:"LastName"`
		Affiliations []string `xml:"AffiliationInfo>Affiliation"`
	} `xml:"MedlineCitation>Article>AuthorList>Author"`
}

// SearchByAuthor runs an esearch for "Lastname Firstname[Author]" and, when
// results exist, an efetch for per-article metadata and affiliations. An
// empty result set is a valid zero-publication outcome, not a failure.
func (c *HTTPClient) SearchByAuthor(ctx context.Context, firstName, lastName string) (*entities.PublicationReport, error) {
	if strings.TrimSpace(lastName) == "" {
		return &entities.PublicationReport{Publications: []entities.PublicationRecord{}, Affiliations: []string{}}, nil
	}

	term := fmt.Sprintf("%s %s[Author]", strings.TrimSpace(lastName), strings.TrimSpace(firstName))
	searchURL := fmt.Sprintf("%s/esearch.fcgi?db=pubmed&term=%s&retmode=json&retmax=%d",
		c.baseURL, url.QueryEscape(term), c.retMax)

	var search esearchResponse
	err := retry.Do(ctx, c.retryCfg, func() error {
		body, fetchErr := c.get(ctx, searchURL)
		if fetchErr != nil {
			return fetchErr
		}
		return json.Unmarshal(body, &search)
	})
	if err != nil {
		return nil, apperrors.NewExternalError("pubmed search failed", err)
	}

	report := &entities.PublicationReport{
		Publications: []entities.PublicationRecord{},
		Affiliations: []string{},
	}
	if count, convErr := strconv.Atoi(search.ESearchResult.Count); convErr == nil && count > 0 {
		report.Count = count
	}

	pmids := search.ESearchResult.IDList
	if len(pmids) == 0 {
		return report, nil
	}

	fetchURL := fmt.Sprintf("%s/efetch.fcgi?db=pubmed&id=%s&retmode=xml",
		c.baseURL, url.QueryEscape(strings.Join(pmids, ",")))

	var envelope efetchEnvelope
	err = retry.Do(ctx, c.retryCfg, func() error {
		body, fetchErr := c.get(ctx, fetchURL)
		if fetchErr != nil {
			return fetchErr
		}
		return xml.Unmarshal(body, &envelope)
	})
	if err != nil {
		// The count from esearch still stands; metadata is best-effort.
		return report, nil
	}

	var rawAffiliations []string
	minYear, maxYear := 0, 0
	for _, article := range envelope.Articles {
		record := entities.PublicationRecord{
			PMID:    article.PMID,
			Title:   article.Title,
			Journal: article.Journal,
			Year:    article.Year,
		}
		for _, author := range article.Authors {
			name := strings.TrimSpace(author.ForeName + " " + author.LastName)
			if name != "" {
				record.Authors = append(record.Authors, name)
			}
			rawAffiliations = append(rawAffiliations, author.Affiliations...)
		}
		report.Publications = append(report.Publications, record)

		if year, convErr := strconv.Atoi(article.Year); convErr == nil {
			if minYear == 0 || year < minYear {
				minYear = year
			}
			if year > maxYear {
				maxYear = year
			}
		}
	}

	if report.Count == 0 {
		report.Count = len(report.Publications)
	}
	if minYear > 0 {
		report.YearRange = fmt.Sprintf("%d–%d", minYear, maxYear)
	}
	report.Affiliations = CleanAffiliations(rawAffiliations, MaxAffiliations)

	return report, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("pubmed returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

var (
	emailPattern      = regexp.MustCompile(`\S+@\S+`)
	yearTokenPattern  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanAffiliations strips embedded emails and year tokens from raw
// affiliation strings, collapses whitespace, trims trailing punctuation,
// de-duplicates case-insensitively, and caps the result at max entries.
func CleanAffiliations(raw []string, max int) []string {
	cleaned := []string{}
	seen := map[string]struct{}{}

	for _, aff := range raw {
		if aff == "" {
			continue
		}
		aff = emailPattern.ReplaceAllString(aff, "")
		aff = yearTokenPattern.ReplaceAllString(aff, "")
		aff = whitespacePattern.ReplaceAllString(aff, " ")
		aff = strings.Trim(aff, " ,.;")

		if aff == "" {
			continue
		}
		key := strings.ToLower(aff)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, aff)
		if len(cleaned) == max {
			break
		}
	}

	return cleaned
}
