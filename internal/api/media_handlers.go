package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/soundfolio/soundfolio-server/internal/media"
)

func (s *Server) registerMediaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-media-assets",
		Method:      http.MethodGet,
		Path:        "/api/v1/media",
		Summary:     "List media assets",
		Description: "Returns one cursor-delimited page of assets from the media host. Admin only.",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMediaAssets)
}

// === DTOs ===

// ListMediaAssetsInput carries the asset listing parameters.
type ListMediaAssetsInput struct {
	Type   string `query:"type" enum:"image,video,raw" doc:"Asset class (default image; the host files audio under video)"`
	Prefix string `query:"prefix" validate:"omitempty,max=200" doc:"Public ID prefix filter"`
	Cursor string `query:"cursor" validate:"omitempty,max=500" doc:"Continuation cursor from a previous page"`
	Limit  int    `query:"limit" doc:"Page size (default 30, max 100)"`
}

// MediaAssetsOutput wraps an asset page for Huma.
type MediaAssetsOutput struct {
	Body *media.AssetPage
}

// === Handlers ===

func (s *Server) handleListMediaAssets(ctx context.Context, input *ListMediaAssetsInput) (*MediaAssetsOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if s.media == nil {
		return nil, domainerrors.NotFound("media host is not configured")
	}

	page, err := s.media.ListAssets(ctx, media.ListParams{
		ResourceType: input.Type,
		Prefix:       input.Prefix,
		NextCursor:   input.Cursor,
		MaxResults:   input.Limit,
	})
	if err != nil {
		s.logger.Error("Media asset listing failed", "error", err)
		return nil, err
	}

	return &MediaAssetsOutput{Body: page}, nil
}
