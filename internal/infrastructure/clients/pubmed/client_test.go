package pubmed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/pubmed"
	"github.com/alokrajg/hcp-profiling-agent/pkg/config"
	apperrors "github.com/alokrajg/hcp-profiling-agent/pkg/errors"
	"github.com/alokrajg/hcp-profiling-agent/pkg/retry"
)

const efetchFixture = `<?xml version="1.0"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>11111111</PMID>
      <Article>
        <Journal>
          <JournalIssue><PubDate><Year>2019</Year></PubDate></JournalIssue>
          <Title>Journal of Cardiology</Title>
        </Journal>
        <ArticleTitle>Outcomes in heart failure</ArticleTitle>
        <AuthorList>
          <Author>
            <LastName>Doe</LastName>
            <ForeName>Jane</ForeName>
            <AffiliationInfo>
              <Affiliation>General Hospital, Boston, MA. jane.doe@example.org</Affiliation>
            </AffiliationInfo>
          </Author>
        </AuthorList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>22222222</PMID>
      <Article>
        <Journal>
          <JournalIssue><PubDate><Year>2022</Year></PubDate></JournalIssue>
          <Title>Circulation</Title>
        </Journal>
        <ArticleTitle>Arrhythmia screening at scale</ArticleTitle>
        <AuthorList>
          <Author>
            <LastName>Doe</LastName>
            <ForeName>Jane</ForeName>
            <AffiliationInfo>
              <Affiliation>general hospital, boston, MA</Affiliation>
            </AffiliationInfo>
          </Author>
        </AuthorList>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func newTestClient(baseURL string) *pubmed.HTTPClient {
	client := pubmed.NewClient(&config.PubMedConfig{
		BaseURL: baseURL,
		RetMax:  20,
		Timeout: 2 * time.Second,
	})
	return client.WithRetry(retry.Config{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      4 * time.Millisecond,
		BackoffFactor: 2.0,
	})
}

func TestSearchByAuthor_BuildsReportFromSearchAndFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/esearch.fcgi"):
			assert.Equal(t, "Doe Jane[Author]", r.URL.Query().Get("term"))
			assert.Equal(t, "json", r.URL.Query().Get("retmode"))
			assert.Equal(t, "20", r.URL.Query().Get("retmax"))
			_, _ = w.Write([]byte(`{"esearchresult": {"count": "2", "idlist": ["11111111", "22222222"]}}`))
		case strings.HasPrefix(r.URL.Path, "/efetch.fcgi"):
			assert.Equal(t, "11111111,22222222", r.URL.Query().Get("id"))
			_, _ = w.Write([]byte(efetchFixture))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	report, err := newTestClient(server.URL).SearchByAuthor(context.Background(), "Jane", "Doe")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.Count)
	require.Len(t, report.Publications, 2)
	assert.Equal(t, "Outcomes in heart failure", report.Publications[0].Title)
	assert.Equal(t, "Journal of Cardiology", report.Publications[0].Journal)
	assert.Equal(t, "2019", report.Publications[0].Year)
	assert.Equal(t, []string{"Jane Doe"}, report.Publications[0].Authors)
	assert.Equal(t, "2019–2022", report.YearRange)

	// Email stripped, duplicates collapsed case-insensitively.
	assert.Equal(t, []string{"General Hospital, Boston, MA"}, report.Affiliations)
}

func TestSearchByAuthor_NoMatchesYieldsEmptyReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/esearch.fcgi"), "efetch should not run without PMIDs")
		_, _ = w.Write([]byte(`{"esearchresult": {"count": "0", "idlist": []}}`))
	}))
	defer server.Close()

	report, err := newTestClient(server.URL).SearchByAuthor(context.Background(), "Jane", "Doe")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Count)
	assert.Empty(t, report.Publications)
	assert.Empty(t, report.Affiliations)
}

func TestSearchByAuthor_SearchFailureSurfacesExternalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	report, err := newTestClient(server.URL).SearchByAuthor(context.Background(), "Jane", "Doe")
	assert.Nil(t, report)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}

func TestSearchByAuthor_FetchFailureKeepsSearchCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/esearch.fcgi") {
			_, _ = w.Write([]byte(`{"esearchresult": {"count": "7", "idlist": ["11111111"]}}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	report, err := newTestClient(server.URL).SearchByAuthor(context.Background(), "Jane", "Doe")
	require.NoError(t, err)
	assert.Equal(t, 7, report.Count)
	assert.Empty(t, report.Publications)
}

func TestSearchByAuthor_MissingLastNameSkipsLookup(t *testing.T) {
	report, err := newTestClient("http://127.0.0.1:1").SearchByAuthor(context.Background(), "Jane", "  ")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Count)
}

func TestCleanAffiliations(t *testing.T) {
	raw := []string{
		"Dept of Medicine, General Hospital, Boston 2021. doc@example.com",
		"dept of medicine, general hospital, boston",
		"  ",
		"Mayo Clinic;",
		"Cleveland Clinic",
		"Johns Hopkins",
		"Stanford",
		"UCSF",
	}

	cleaned := pubmed.CleanAffiliations(raw, 5)
	assert.Equal(t, []string{
		"Dept of Medicine, General Hospital, Boston",
		"Mayo Clinic",
		"Cleveland Clinic",
		"Johns Hopkins",
		"Stanford",
	}, cleaned)
}
