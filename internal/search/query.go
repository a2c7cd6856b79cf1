package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string   // User's search query
	Types []string // Document types to include (empty = all)

	// Filters
	Category   string   // Filter by exact category
	Tags       []string // Filter by tags (OR across values)
	Visibility string   // Filter by visibility; the public site passes "public"

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "recent"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool     // Include facet counts in results
	FacetFields   []string // Which fields to facet on
	Highlight     bool     // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		FacetFields:   []string{"type", "category", "tags"},
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"tookMs"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitzero"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID          string            `json:"id"`
	Type        DocType           `json:"type"`
	Score       float64           `json:"score"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Author      string            `json:"author,omitempty"`
	Category    string            `json:"category,omitempty"`
	Slug        string            `json:"slug,omitempty"`
	Duration    int               `json:"duration,omitempty"`
	TrackCount  int               `json:"trackCount,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Types      []FacetCount `json:"types,omitempty"`
	Categories []FacetCount `json:"categories,omitempty"`
	Tags       []FacetCount `json:"tags,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		addFacets(searchRequest, params)
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("name")
		searchRequest.Highlight.AddField("author")
		searchRequest.Highlight.AddField("description")
	}

	// Request stored fields
	searchRequest.Fields = []string{
		"id", "type", "name", "description", "author", "category",
		"slug", "duration", "track_count",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		// Extract stored fields
		if t, ok := hit.Fields["type"].(string); ok {
			searchHit.Type = DocType(t)
		}
		if n, ok := hit.Fields["name"].(string); ok {
			searchHit.Name = n
		}
		if d, ok := hit.Fields["description"].(string); ok {
			searchHit.Description = d
		}
		if a, ok := hit.Fields["author"].(string); ok {
			searchHit.Author = a
		}
		if c, ok := hit.Fields["category"].(string); ok {
			searchHit.Category = c
		}
		if sl, ok := hit.Fields["slug"].(string); ok {
			searchHit.Slug = sl
		}
		if d, ok := hit.Fields["duration"].(float64); ok {
			searchHit.Duration = int(d)
		}
		if tc, ok := hit.Fields["track_count"].(float64); ok {
			searchHit.TrackCount = int(tc)
		}

		// Extract highlights
		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	// Main text query. Titles rank highest, then the artist name (a visitor
	// typing a band name wants that band's tracks near the top), then the
	// longer description and body text. Fuzzy and prefix variants on the
	// title pick up typos and partial words.
	if params.Query != "" {
		textQueries := []query.Query{}

		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(2.0)
		textQueries = append(textQueries, authorMatch)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		textQueries = append(textQueries, descMatch)

		bodyMatch := bleve.NewMatchQuery(params.Query)
		bodyMatch.SetField("body")
		textQueries = append(textQueries, bodyMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		// Combine with OR (match any field)
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Type filter
	if len(params.Types) > 0 {
		typeQueries := make([]query.Query, len(params.Types))
		for i, t := range params.Types {
			tq := bleve.NewTermQuery(t)
			tq.SetField("type")
			typeQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(typeQueries...))
	}

	// Category filter (exact match)
	if params.Category != "" {
		cq := bleve.NewTermQuery(params.Category)
		cq.SetField("category")
		queries = append(queries, cq)
	}

	// Tag filter (exact match, OR across tags)
	if len(params.Tags) > 0 {
		tagQueries := make([]query.Query, len(params.Tags))
		for i, tag := range params.Tags {
			tq := bleve.NewTermQuery(tag)
			tq.SetField("tags")
			tagQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(tagQueries...))
	}

	// Visibility filter (the public endpoint always passes "public")
	if params.Visibility != "" {
		vq := bleve.NewTermQuery(params.Visibility)
		vq.SetField("visibility")
		queries = append(queries, vq)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "title", "name":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-name"})
		} else {
			req.SortBy([]string{"name"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	default:
		// Relevance (score) is default - Bleve handles this
		req.SortBy([]string{"-_score"})
	}
}

// addFacets configures facet requests.
func addFacets(req *bleve.SearchRequest, params SearchParams) {
	for _, field := range params.FacetFields {
		facetReq := bleve.NewFacetRequest(field, 20) // Top 20 values
		req.AddFacet(field, facetReq)
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if typeFacet, ok := result.Facets["type"]; ok {
		for _, term := range typeFacet.Terms.Terms() {
			facets.Types = append(facets.Types, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if categoryFacet, ok := result.Facets["category"]; ok {
		for _, term := range categoryFacet.Terms.Terms() {
			facets.Categories = append(facets.Categories, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if tagFacet, ok := result.Facets["tags"]; ok {
		for _, term := range tagFacet.Terms.Terms() {
			facets.Tags = append(facets.Tags, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
