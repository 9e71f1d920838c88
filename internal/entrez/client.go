// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-agent/internal/httputil"
	"github.com/pdiddy/pubmed-agent/pkg/types"
)

// apiBase is the E-utilities endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

const (
	toolName = "pubmed-agent"

	// linkCitedIn and linkRelated are the elink link names for cited-by
	// and related-article lookups.
	linkCitedIn = "pubmed_pubmed_citedin"
	linkRelated = "pubmed_pubmed"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 10 << 20

	defaultMaxResults = 10
	defaultCacheTTL   = 24 * time.Hour

	// NCBI allows 3 req/s anonymously and 10 req/s with an API key.
	anonRateLimit  = 3.0
	keyedRateLimit = 10.0
)

// SearchOptions tune a single search call.
type SearchOptions struct {
	// MaxResults overrides the configured default when positive.
	MaxResults int

	// Sort selects the result order (default relevance).
	Sort Sort

	// Offset skips the first N results for pagination.
	Offset int
}

// Client queries the Entrez E-utilities with rate limiting and response
// caching.
type Client struct {
	cfg   types.EntrezConfig
	http  doer
	cache *Cache
}

// doer is the transport seam; *httputil.Client satisfies it.
type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// New creates an Entrez client from config, applying defaults.
func New(cfg types.EntrezConfig) *Client {
	applyDefaults(&cfg)
	return &Client{
		cfg: cfg,
		http: httputil.NewClient(httputil.ClientConfig{
			Timeout:    cfg.Timeout,
			RateLimit:  cfg.RateLimit,
			Burst:      cfg.Burst,
			MaxRetries: cfg.MaxRetries,
			UserAgent:  cfg.UserAgent,
		}),
		cache: NewCache(cfg.CacheTTL),
	}
}

// NewWithTransport creates a client with a custom transport. Useful for
// tests that need to count or fail requests.
func NewWithTransport(cfg types.EntrezConfig, transport doer) *Client {
	applyDefaults(&cfg)
	return &Client{cfg: cfg, http: transport, cache: NewCache(cfg.CacheTTL)}
}

func applyDefaults(cfg *types.EntrezConfig) {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = anonRateLimit
		if cfg.APIKey != "" {
			cfg.RateLimit = keyedRateLimit
		}
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
}

// Search runs esearch with the built term, then efetch for the matching
// PMIDs. An empty ID list returns no articles and no error, as does a
// phrase-not-found response.
func (c *Client) Search(ctx context.Context, f Filters, opts SearchOptions) ([]types.Article, error) {
	if f.IsEmpty() {
		return nil, fmt.Errorf("search filters are empty: provide a query, MeSH terms, or a filter")
	}

	term := BuildTerm(f)
	ids, err := c.esearch(ctx, term, opts)
	if err != nil {
		return nil, fmt.Errorf("esearch failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	articles, err := c.efetch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("efetch failed: %w", err)
	}
	return articles, nil
}

// Get retrieves a single article by PMID.
func (c *Client) Get(ctx context.Context, pmid string) (types.Article, error) {
	articles, err := c.efetch(ctx, []string{pmid})
	if err != nil {
		return types.Article{}, fmt.Errorf("efetch failed: %w", err)
	}
	if len(articles) == 0 {
		return types.Article{}, fmt.Errorf("no article found with PMID %s", pmid)
	}
	return articles[0], nil
}

// CitedBy returns articles citing the given PMID, up to max.
func (c *Client) CitedBy(ctx context.Context, pmid string, max int) ([]types.Article, error) {
	ids, err := c.elink(ctx, pmid, linkCitedIn)
	if err != nil {
		return nil, fmt.Errorf("elink failed: %w", err)
	}
	if max <= 0 {
		max = c.cfg.MaxResults
	}
	if len(ids) > max {
		ids = ids[:max]
	}
	if len(ids) == 0 {
		return nil, nil
	}
	articles, err := c.efetch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("efetch failed: %w", err)
	}
	return articles, nil
}

// Related returns Entrez's related articles for the given PMID, excluding
// the article itself, up to max.
func (c *Client) Related(ctx context.Context, pmid string, max int) ([]types.Article, error) {
	ids, err := c.elink(ctx, pmid, linkRelated)
	if err != nil {
		return nil, fmt.Errorf("elink failed: %w", err)
	}
	filtered := ids[:0]
	for _, id := range ids {
		if id != pmid {
			filtered = append(filtered, id)
		}
	}
	if max <= 0 {
		max = c.cfg.MaxResults
	}
	if len(filtered) > max {
		filtered = filtered[:max]
	}
	if len(filtered) == 0 {
		return nil, nil
	}
	articles, err := c.efetch(ctx, filtered)
	if err != nil {
		return nil, fmt.Errorf("efetch failed: %w", err)
	}
	return articles, nil
}

// Metrics assembles citation metrics for one article: the record itself,
// the cited-by count, and up to five related articles.
func (c *Client) Metrics(ctx context.Context, pmid string) (types.CitationMetrics, error) {
	article, err := c.Get(ctx, pmid)
	if err != nil {
		return types.CitationMetrics{}, err
	}

	citing, err := c.elink(ctx, pmid, linkCitedIn)
	if err != nil {
		return types.CitationMetrics{}, fmt.Errorf("elink failed: %w", err)
	}

	related, err := c.Related(ctx, pmid, 5)
	if err != nil {
		return types.CitationMetrics{}, err
	}

	return types.CitationMetrics{
		Article:       article,
		CitationCount: len(citing),
		Related:       related,
	}, nil
}

// esearch returns the PMIDs matching term. Phrase-not-found responses
// yield an empty list.
func (c *Client) esearch(ctx context.Context, term string, opts SearchOptions) ([]string, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = c.cfg.MaxResults
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(maxResults))
	params.Set("usehistory", "y")
	params.Set("sort", opts.Sort.apiParam())
	if opts.Offset > 0 {
		params.Set("retstart", strconv.Itoa(opts.Offset))
	}

	body, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var result eSearchResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	if len(result.PhraseNotFound) > 0 {
		return nil, nil
	}
	return result.IDs, nil
}

// efetch retrieves article records for the given PMIDs.
func (c *Client) efetch(ctx context.Context, pmids []string) ([]types.Article, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}
	return parseArticles(set), nil
}

// elink returns the PMIDs linked to pmid under the given link name.
func (c *Client) elink(ctx context.Context, pmid, linkName string) ([]string, error) {
	params := url.Values{}
	params.Set("dbfrom", "pubmed")
	params.Set("db", "pubmed")
	params.Set("id", pmid)
	params.Set("linkname", linkName)
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "elink.fcgi", params)
	if err != nil {
		return nil, err
	}

	var result eLinkResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing elink response: %w", err)
	}

	var ids []string
	for _, ls := range result.LinkSets {
		for _, db := range ls.LinkSetDbs {
			if db.LinkName != "" && db.LinkName != linkName {
				continue
			}
			ids = append(ids, db.IDs...)
		}
	}
	return ids, nil
}

// get executes one E-utilities request, consulting the cache first.
// tool, email, and api_key parameters ride on every request, as NCBI asks.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("tool", toolName)
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	key := CacheKey(endpoint, params)
	if body, ok := c.cache.Get(key); ok {
		return body, nil
	}

	u := apiBase + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("entrez returned HTTP %d: %s", resp.StatusCode, firstLine(body))
	}

	c.cache.Put(key, body)
	return body, nil
}

func firstLine(body []byte) string {
	s := strings.TrimSpace(string(body))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
