package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	articleBaseURL = "https://pubmed.ncbi.nlm.nih.gov"
	userAgent      = "ResearchAgent-Scrapp/1.0 (E-utilities; contact: local)"
)

// Cache stores search payloads keyed by the full search parameters. A nil
// Cache disables caching; Get misses and errors both mean a live search.
type Cache interface {
	Get(ctx context.Context, key string) (*Payload, bool)
	Set(ctx context.Context, key string, payload *Payload)
}

// Client talks to the NCBI E-utilities endpoints (esearch + esummary).
// Requests are rate limited client-side; NCBI allows 3 req/s without an
// API key.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	cache      Cache
}

func NewClient(ratePerSec int, cache Cache) *Client {
	if ratePerSec <= 0 {
		ratePerSec = 3
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		baseURL:    defaultBaseURL,
		cache:      cache,
	}
}

type esearchEnvelope struct {
	ESearchResult struct {
		Count  json.Number `json:"count"`
		IDList []string    `json:"idlist"`
	} `json:"esearchresult"`
}

type esummaryDoc struct {
	Title       string `json:"title"`
	PubDate     string `json:"pubdate"`
	Source      string `json:"source"`
	Volume      string `json:"volume"`
	Issue       string `json:"issue"`
	Pages       string `json:"pages"`
	ELocationID string `json:"elocationid"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

type esummaryEnvelope struct {
	Result map[string]json.RawMessage `json:"result"`
}

// Search runs esearch then esummary and assembles the tool payload.
func (c *Client) Search(ctx context.Context, params SearchParams) (*Payload, error) {
	query, err := BuildQuery(params.Terms)
	if err != nil {
		return nil, err
	}

	retmax := params.MaxResults
	if retmax < 1 {
		retmax = 10
	}
	sort := params.Sort
	if sort == "" {
		sort = "relevance"
	}
	mindate := NormalizeDate(params.PubDateStart, "start")
	maxdate := NormalizeDate(params.PubDateEnd, "end")

	cacheKey := fmt.Sprintf("pubmed:%s:%d:%d:%s:%s:%s", query, retmax, params.RetStart, mindate, maxdate, sort)
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	esearchQS := url.Values{}
	esearchQS.Set("db", "pubmed")
	esearchQS.Set("term", query)
	esearchQS.Set("retmode", "json")
	esearchQS.Set("retmax", strconv.Itoa(retmax))
	esearchQS.Set("retstart", strconv.Itoa(params.RetStart))
	esearchQS.Set("sort", sort)
	if mindate != "" || maxdate != "" {
		esearchQS.Set("datetype", "pdat")
		if mindate != "" {
			esearchQS.Set("mindate", mindate)
		}
		if maxdate != "" {
			esearchQS.Set("maxdate", maxdate)
		}
	}

	var esearch esearchEnvelope
	if err := c.getJSON(ctx, c.baseURL+"/esearch.fcgi?"+esearchQS.Encode(), &esearch); err != nil {
		return nil, fmt.Errorf("esearch failed: %w", err)
	}

	count, _ := strconv.Atoi(esearch.ESearchResult.Count.String())
	var uids []string
	for _, id := range esearch.ESearchResult.IDList {
		if id != "" {
			uids = append(uids, id)
		}
	}

	pagesTotal := 0
	if count > 0 {
		pagesTotal = (count + retmax - 1) / retmax
	}

	nextPageURL := ""
	if params.RetStart+retmax < count {
		nextQS := url.Values{}
		for k, v := range esearchQS {
			nextQS[k] = v
		}
		nextQS.Set("retstart", strconv.Itoa(params.RetStart+retmax))
		nextPageURL = c.baseURL + "/esearch.fcgi?" + nextQS.Encode()
	}

	results := make([]Result, 0, len(uids))
	if len(uids) > 0 {
		docs, err := c.summaries(ctx, uids)
		if err != nil {
			return nil, fmt.Errorf("esummary failed: %w", err)
		}
		for _, pmid := range uids {
			doc := docs[pmid]
			citation := formatJournalCitation(doc)
			var authorNames []string
			for _, a := range doc.Authors {
				if name := cleanText(a.Name); name != "" {
					authorNames = append(authorNames, name)
				}
			}
			results = append(results, Result{
				PMID:                pmid,
				Title:               cleanText(doc.Title),
				URL:                 fmt.Sprintf("%s/%s/", articleBaseURL, pmid),
				Authors:             strings.Join(authorNames, ", "),
				JournalCitation:     citation,
				JournalCitationFull: citation,
				PublicationYear:     parsePublicationYear(doc.PubDate),
				PublicationDateText: cleanText(doc.PubDate),
			})
		}
	}

	payload := &Payload{
		Source:       "eutils",
		Query:        query,
		TotalResults: count,
		PagesTotal:   pagesTotal,
		NextPageURL:  nextPageURL,
		ChunkIDs:     uids,
		Results:      results,
	}

	if c.cache != nil {
		c.cache.Set(ctx, cacheKey, payload)
	}
	return payload, nil
}

func (c *Client) summaries(ctx context.Context, uids []string) (map[string]esummaryDoc, error) {
	qs := url.Values{}
	qs.Set("db", "pubmed")
	qs.Set("id", strings.Join(uids, ","))
	qs.Set("retmode", "json")

	var envelope esummaryEnvelope
	if err := c.getJSON(ctx, c.baseURL+"/esummary.fcgi?"+qs.Encode(), &envelope); err != nil {
		return nil, err
	}

	docs := make(map[string]esummaryDoc, len(uids))
	for _, pmid := range uids {
		raw, ok := envelope.Result[pmid]
		if !ok {
			continue
		}
		var doc esummaryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			// Malformed single record; keep the PMID with empty fields.
			continue
		}
		docs[pmid] = doc
	}
	return docs, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
