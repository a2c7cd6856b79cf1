package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/service"
)

func (s *Server) registerPlaylistRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-playlists",
		Method:      http.MethodGet,
		Path:        "/api/v1/playlists",
		Summary:     "List playlists",
		Description: "Returns a filtered, paginated playlist listing, newest first",
		Tags:        []string{"Playlists"},
	}, s.handleListPlaylists)

	huma.Register(s.api, huma.Operation{
		OperationID: "create-playlist",
		Method:      http.MethodPost,
		Path:        "/api/v1/playlists",
		Summary:     "Create playlist",
		Description: "Creates a playlist owned by the authenticated user",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-playlist",
		Method:      http.MethodGet,
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Get playlist",
		Description: "Returns a single playlist. With expand=tracks the track id array is replaced by the full tracks.",
		Tags:        []string{"Playlists"},
	}, s.handleGetPlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-playlist",
		Method:      http.MethodPut,
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Update playlist",
		Description: "Applies the supplied fields to a playlist. A supplied tracks array replaces the membership wholesale.",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-playlist",
		Method:      http.MethodDelete,
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Delete playlist",
		Description: "Deletes a playlist. Member tracks keep their playlist references.",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "add-playlist-tracks",
		Method:      http.MethodPut,
		Path:        "/api/v1/playlists/{id}/tracks",
		Summary:     "Add tracks to playlist",
		Description: "Appends the given track ids to the playlist. Ids already present are skipped, so the call is idempotent.",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddPlaylistTracks)

	huma.Register(s.api, huma.Operation{
		OperationID: "remove-playlist-track",
		Method:      http.MethodDelete,
		Path:        "/api/v1/playlists/{id}/tracks/{trackId}",
		Summary:     "Remove track from playlist",
		Description: "Removes one track id from the playlist membership",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemovePlaylistTrack)
}

// === DTOs ===

// ListPlaylistsInput carries the playlist listing query parameters.
type ListPlaylistsInput struct {
	Page       int    `query:"page" doc:"Page number (default 1)"`
	Limit      int    `query:"limit" doc:"Items per page (default 10, max 100)"`
	Search     string `query:"search" validate:"omitempty,max=200" doc:"Case-insensitive substring match on title and description"`
	CreatedBy  string `query:"createdBy" validate:"omitempty,max=100" doc:"Exact creator filter"`
	Visibility string `query:"visibility" validate:"omitempty,oneof=public private" doc:"Exact visibility filter"`
	Tag        string `query:"tag" validate:"omitempty,max=50" doc:"Tag membership filter"`
}

// ListPlaylistsOutput wraps a playlist listing for Huma.
type ListPlaylistsOutput struct {
	Body ListResponse[*domain.Playlist]
}

// CreatePlaylistInput wraps the create request for Huma.
type CreatePlaylistInput struct {
	Body service.CreatePlaylistRequest
}

// GetPlaylistInput identifies a playlist and optionally asks for expansion.
type GetPlaylistInput struct {
	ID     string `path:"id" doc:"Playlist ID"`
	Expand string `query:"expand" doc:"Set to tracks to populate track references; other values are ignored"`
}

// UpdatePlaylistInput wraps the update request for Huma.
type UpdatePlaylistInput struct {
	ID   string `path:"id" doc:"Playlist ID"`
	Body service.UpdatePlaylistRequest
}

// PlaylistIDInput identifies a playlist by ID.
type PlaylistIDInput struct {
	ID string `path:"id" doc:"Playlist ID"`
}

// AddPlaylistTracksRequest is the request body for bulk track addition.
type AddPlaylistTracksRequest struct {
	Tracks []string `json:"tracks" doc:"Track ids to add, in display order"`
}

// AddPlaylistTracksInput wraps the bulk addition request for Huma.
type AddPlaylistTracksInput struct {
	ID   string `path:"id" doc:"Playlist ID"`
	Body AddPlaylistTracksRequest
}

// RemovePlaylistTrackInput identifies one track inside a playlist.
type RemovePlaylistTrackInput struct {
	ID      string `path:"id" doc:"Playlist ID"`
	TrackID string `path:"trackId" doc:"Track ID to remove"`
}

// PlaylistOutput wraps a single playlist for Huma.
type PlaylistOutput struct {
	Body *domain.Playlist
}

// PlaylistReadOutput wraps a playlist read for Huma. The body is a bare
// playlist, or a playlist with tracks populated when expansion was requested.
type PlaylistReadOutput struct {
	Body any
}

// ExpandedPlaylistOutput wraps a populated playlist for Huma. Membership
// writes always return this form so clients can render the result directly.
type ExpandedPlaylistOutput struct {
	Body *service.ExpandedPlaylist
}

// === Handlers ===

func (s *Server) handleListPlaylists(ctx context.Context, input *ListPlaylistsInput) (*ListPlaylistsOutput, error) {
	result, err := s.services.Playlist.List(ctx, service.ListPlaylistsParams{
		Page:       input.Page,
		Limit:      input.Limit,
		Search:     input.Search,
		CreatedBy:  input.CreatedBy,
		Visibility: input.Visibility,
		Tag:        input.Tag,
	})
	if err != nil {
		return nil, err
	}

	return &ListPlaylistsOutput{Body: ListResponse[*domain.Playlist]{
		Items:      result.Items,
		Pagination: result.Pagination,
	}}, nil
}

func (s *Server) handleCreatePlaylist(ctx context.Context, input *CreatePlaylistInput) (*PlaylistOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	playlist, err := s.services.Playlist.Create(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &PlaylistOutput{Body: playlist}, nil
}

func (s *Server) handleGetPlaylist(ctx context.Context, input *GetPlaylistInput) (*PlaylistReadOutput, error) {
	if input.Expand == "tracks" {
		expanded, err := s.services.Playlist.GetExpanded(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		return &PlaylistReadOutput{Body: expanded}, nil
	}

	playlist, err := s.services.Playlist.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &PlaylistReadOutput{Body: playlist}, nil
}

func (s *Server) handleUpdatePlaylist(ctx context.Context, input *UpdatePlaylistInput) (*PlaylistOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	playlist, err := s.services.Playlist.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &PlaylistOutput{Body: playlist}, nil
}

func (s *Server) handleDeletePlaylist(ctx context.Context, input *PlaylistIDInput) (*MessageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Playlist.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Playlist deleted"}}, nil
}

func (s *Server) handleAddPlaylistTracks(ctx context.Context, input *AddPlaylistTracksInput) (*ExpandedPlaylistOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	playlist, err := s.services.Playlist.AddTracks(ctx, input.ID, input.Body.Tracks)
	if err != nil {
		return nil, err
	}

	return &ExpandedPlaylistOutput{Body: playlist}, nil
}

func (s *Server) handleRemovePlaylistTrack(ctx context.Context, input *RemovePlaylistTrackInput) (*ExpandedPlaylistOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	playlist, err := s.services.Playlist.RemoveTrack(ctx, input.ID, input.TrackID)
	if err != nil {
		return nil, err
	}

	return &ExpandedPlaylistOutput{Body: playlist}, nil
}
