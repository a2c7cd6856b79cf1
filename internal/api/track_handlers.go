package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/service"
)

func (s *Server) registerTrackRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-tracks",
		Method:      http.MethodGet,
		Path:        "/api/v1/tracks",
		Summary:     "List tracks",
		Description: "Returns a filtered, paginated track listing, newest first",
		Tags:        []string{"Tracks"},
	}, s.handleListTracks)

	huma.Register(s.api, huma.Operation{
		OperationID: "create-track",
		Method:      http.MethodPost,
		Path:        "/api/v1/tracks",
		Summary:     "Create track",
		Description: "Creates a track. Supplying playlistId also registers the track with that playlist.",
		Tags:        []string{"Tracks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTrack)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-track",
		Method:      http.MethodGet,
		Path:        "/api/v1/tracks/{id}",
		Summary:     "Get track",
		Description: "Returns a single track. With expand=playlists the playlist id array is replaced by the full playlists.",
		Tags:        []string{"Tracks"},
	}, s.handleGetTrack)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-track",
		Method:      http.MethodPut,
		Path:        "/api/v1/tracks/{id}",
		Summary:     "Update track",
		Description: "Applies the supplied fields to a track. playlistId reassigns membership: omit to keep, empty to detach, id to move.",
		Tags:        []string{"Tracks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTrack)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-track",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tracks/{id}",
		Summary:     "Delete track",
		Description: "Deletes a track. Playlists referencing it are left untouched and skip the missing id on expansion.",
		Tags:        []string{"Tracks"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTrack)
}

// === DTOs ===

// ListTracksInput carries the track listing query parameters.
type ListTracksInput struct {
	Page     int    `query:"page" doc:"Page number (default 1)"`
	Limit    int    `query:"limit" doc:"Items per page (default 10, max 100)"`
	Search   string `query:"search" validate:"omitempty,max=200" doc:"Case-insensitive substring match on title, author, description and category"`
	Category string `query:"category" validate:"omitempty,max=100" doc:"Exact category filter"`
	Author   string `query:"author" validate:"omitempty,max=200" doc:"Exact author filter"`
}

// ListTracksOutput wraps a track listing for Huma.
type ListTracksOutput struct {
	Body ListResponse[*domain.Track]
}

// CreateTrackInput wraps the create request for Huma.
type CreateTrackInput struct {
	Body service.CreateTrackRequest
}

// GetTrackInput identifies a track and optionally asks for expansion.
type GetTrackInput struct {
	ID     string `path:"id" doc:"Track ID"`
	Expand string `query:"expand" doc:"Set to playlists to populate playlist references; other values are ignored"`
}

// UpdateTrackInput wraps the update request for Huma.
type UpdateTrackInput struct {
	ID   string `path:"id" doc:"Track ID"`
	Body service.UpdateTrackRequest
}

// TrackIDInput identifies a track by ID.
type TrackIDInput struct {
	ID string `path:"id" doc:"Track ID"`
}

// TrackOutput wraps a single track for Huma.
type TrackOutput struct {
	Body *domain.Track
}

// TrackReadOutput wraps a track read for Huma. The body is a bare track, or
// a track with playlists populated when expansion was requested.
type TrackReadOutput struct {
	Body any
}

// === Handlers ===

func (s *Server) handleListTracks(ctx context.Context, input *ListTracksInput) (*ListTracksOutput, error) {
	result, err := s.services.Track.List(ctx, service.ListTracksParams{
		Page:     input.Page,
		Limit:    input.Limit,
		Search:   input.Search,
		Category: input.Category,
		Author:   input.Author,
	})
	if err != nil {
		return nil, err
	}

	return &ListTracksOutput{Body: ListResponse[*domain.Track]{
		Items:      result.Items,
		Pagination: result.Pagination,
	}}, nil
}

func (s *Server) handleCreateTrack(ctx context.Context, input *CreateTrackInput) (*TrackOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	track, err := s.services.Track.Create(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &TrackOutput{Body: track}, nil
}

func (s *Server) handleGetTrack(ctx context.Context, input *GetTrackInput) (*TrackReadOutput, error) {
	if input.Expand == "playlists" {
		expanded, err := s.services.Track.GetExpanded(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		return &TrackReadOutput{Body: expanded}, nil
	}

	track, err := s.services.Track.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &TrackReadOutput{Body: track}, nil
}

func (s *Server) handleUpdateTrack(ctx context.Context, input *UpdateTrackInput) (*TrackOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	track, err := s.services.Track.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &TrackOutput{Body: track}, nil
}

func (s *Server) handleDeleteTrack(ctx context.Context, input *TrackIDInput) (*MessageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Track.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Track deleted"}}, nil
}
