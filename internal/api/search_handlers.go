package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/soundfolio/soundfolio-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search catalog",
		Description: "Full-text search across pages, tracks, and playlists. Anonymous callers only see public content.",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains the catalog search parameters.
type SearchInput struct {
	Query    string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Search query"`
	Types    string `query:"type" validate:"omitempty,max=100" doc:"Comma-separated types to search (page,track,playlist). Omit for all."`
	Category string `query:"category" validate:"omitempty,max=100" doc:"Exact category filter"`
	Tag      string `query:"tag" validate:"omitempty,max=50" doc:"Tag filter"`
	Page     int    `query:"page" doc:"Page number (default 1)"`
	Limit    int    `query:"limit" doc:"Items per page (default 10, max 100)"`
	Sort     string `query:"sort" doc:"Result order: relevance (default), title, or recent"`
	Facets   bool   `query:"facets" doc:"Include facet counts in the response"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.services.Search == nil {
		return nil, domainerrors.NotFound("search is not enabled")
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.Category = input.Category
	params.Limit = limit
	params.Offset = (page - 1) * limit
	params.IncludeFacets = input.Facets

	if input.Tag != "" {
		params.Tags = []string{input.Tag}
	}

	switch input.Sort {
	case "title", "recent":
		params.SortBy = input.Sort
	}

	// Parse types - comma-separated string to slice
	if input.Types != "" {
		for t := range strings.SplitSeq(input.Types, ",") {
			switch strings.TrimSpace(t) {
			case "page":
				params.Types = append(params.Types, string(search.DocTypePage))
			case "track":
				params.Types = append(params.Types, string(search.DocTypeTrack))
			case "playlist":
				params.Types = append(params.Types, string(search.DocTypePlaylist))
			}
		}
	}

	// Anonymous callers search the public catalog only. Authenticated
	// editors see private content too.
	if _, err := GetUserID(ctx); err != nil {
		params.Visibility = string(domain.VisibilityPublic)
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		s.logger.Error("Search failed", "error", err, "query", input.Query)
		return nil, err
	}

	s.logger.Debug("Search completed",
		"query", input.Query,
		"total", result.Total,
		"hits", len(result.Hits),
		"took_ms", result.TookMs,
	)

	return &SearchOutput{Body: result}, nil
}
