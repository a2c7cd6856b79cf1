package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/soundfolio/soundfolio-server/internal/id"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

// playlistSearchFields are the text fields the list search term runs over.
var playlistSearchFields = []string{"title", "description"}

// PlaylistService handles playlist management. Playlist-side membership
// writes treat the Tracks array as the source of truth: ids are set-added or
// filtered out, and the cached count is always recomputed from the array on
// save. Track ids are not checked for existence here; a reference to a
// missing track simply drops out of populated reads.
type PlaylistService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewPlaylistService creates a new playlist service.
func NewPlaylistService(store *store.Store, logger *slog.Logger) *PlaylistService {
	return &PlaylistService{
		store:  store,
		logger: logger,
	}
}

// CreatePlaylistRequest is the input for creating a playlist.
type CreatePlaylistRequest struct {
	Title        string            `json:"title" validate:"required,max=200" doc:"Playlist title"`
	Description  string            `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Playlist description"`
	ThumbnailURL string            `json:"thumbnailUrl,omitempty" validate:"omitempty,url" doc:"Cover image URL"`
	Visibility   domain.Visibility `json:"visibility,omitempty" validate:"omitempty,oneof=public private" doc:"Who can see the playlist"`
	Tags         []string          `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50" doc:"Up to 20 tags"`
	Tracks       []string          `json:"tracks,omitempty" doc:"Initial track ids, in display order"`
	Duration     int               `json:"duration,omitempty" validate:"omitempty,gte=0" doc:"Total duration in seconds"`
}

// UpdatePlaylistRequest is the input for partially updating a playlist.
// Nil fields are left untouched; a non-nil Tracks replaces the membership
// array outright.
type UpdatePlaylistRequest struct {
	Title        *string            `json:"title,omitempty" validate:"omitnil,min=1,max=200" doc:"Playlist title"`
	Description  *string            `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Playlist description"`
	ThumbnailURL *string            `json:"thumbnailUrl,omitempty" validate:"omitempty,url" doc:"Cover image URL"`
	Visibility   *domain.Visibility `json:"visibility,omitempty" validate:"omitnil,oneof=public private" doc:"Who can see the playlist"`
	Tags         *[]string          `json:"tags,omitempty" validate:"omitnil,max=20,dive,max=50" doc:"Up to 20 tags"`
	Tracks       *[]string          `json:"tracks,omitempty" doc:"Replacement track ids, in display order"`
	Duration     *int               `json:"duration,omitempty" validate:"omitempty,gte=0" doc:"Total duration in seconds"`
}

// ListPlaylistsParams carries the supported query parameters for playlist
// listings.
type ListPlaylistsParams struct {
	Page       int
	Limit      int
	Search     string
	CreatedBy  string
	Visibility string
	Tag        string
}

// ExpandedPlaylist is a playlist with its track references resolved to full
// tracks. Missing tracks are skipped, so the populated list can be shorter
// than the stored membership array.
type ExpandedPlaylist struct {
	*domain.Playlist
	Tracks []*domain.Track `json:"tracks"`
}

// Create validates and persists a new playlist owned by the given user.
func (s *PlaylistService) Create(ctx context.Context, createdBy string, req CreatePlaylistRequest) (*domain.Playlist, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	playlistID, err := id.Generate("pl")
	if err != nil {
		return nil, fmt.Errorf("generate playlist ID: %w", err)
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}

	playlist := &domain.Playlist{
		Document:     domain.Document{ID: playlistID},
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		CreatedBy:    createdBy,
		Visibility:   visibility,
		Tags:         req.Tags,
		Tracks:       dedupe(req.Tracks),
		Duration:     req.Duration,
	}
	playlist.InitTimestamps()

	if err := s.store.CreatePlaylist(ctx, playlist); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}

	return playlist, nil
}

// Get retrieves a playlist by ID.
func (s *PlaylistService) Get(ctx context.Context, playlistID string) (*domain.Playlist, error) {
	return s.store.GetPlaylist(ctx, playlistID)
}

// GetExpanded retrieves a playlist with its member tracks populated in a
// single batched lookup.
func (s *PlaylistService) GetExpanded(ctx context.Context, playlistID string) (*ExpandedPlaylist, error) {
	playlist, err := s.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	tracks, err := s.store.GetTracksByIDs(ctx, playlist.Tracks)
	if err != nil {
		return nil, fmt.Errorf("populate tracks: %w", err)
	}

	return &ExpandedPlaylist{Playlist: playlist, Tracks: tracks}, nil
}

// List returns one page of playlists matching the given filters,
// newest first.
func (s *PlaylistService) List(ctx context.Context, p ListPlaylistsParams) (*store.PaginatedResult[*domain.Playlist], error) {
	q := store.NewQuery(p.Page, p.Limit).
		WithSearch(p.Search, playlistSearchFields...).
		WithEquals("createdBy", p.CreatedBy).
		WithEquals("visibility", p.Visibility).
		WithContains("tags", p.Tag)

	return s.store.ListPlaylists(ctx, q)
}

// Update applies the supplied fields to an existing playlist. A supplied
// Tracks array replaces the membership wholesale; the cached count follows
// the array on save.
func (s *PlaylistService) Update(ctx context.Context, playlistID string, req UpdatePlaylistRequest) (*domain.Playlist, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	playlist, err := s.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		playlist.Title = *req.Title
	}
	if req.Description != nil {
		playlist.Description = *req.Description
	}
	if req.ThumbnailURL != nil {
		playlist.ThumbnailURL = *req.ThumbnailURL
	}
	if req.Visibility != nil {
		playlist.Visibility = *req.Visibility
	}
	if req.Tags != nil {
		playlist.Tags = *req.Tags
	}
	if req.Tracks != nil {
		playlist.Tracks = dedupe(*req.Tracks)
	}
	if req.Duration != nil {
		playlist.Duration = *req.Duration
	}

	if err := s.store.UpdatePlaylist(ctx, playlist); err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}

	return playlist, nil
}

// Delete removes a playlist. Member tracks keep their playlists reference;
// the dangling id is dropped from expansions and cleared by the track's next
// membership write.
func (s *PlaylistService) Delete(ctx context.Context, playlistID string) error {
	if _, err := s.store.GetPlaylist(ctx, playlistID); err != nil {
		return err
	}

	return s.store.DeletePlaylist(ctx, playlistID)
}

// AddTracks set-adds each id to the playlist's membership and returns the
// playlist populated for the response. Ids already present are skipped, so
// replays and overlapping bulk adds cannot produce duplicates.
func (s *PlaylistService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) (*ExpandedPlaylist, error) {
	if len(trackIDs) == 0 {
		return nil, domainerrors.Validation("trackIds must not be empty")
	}

	// Resolve the playlist up front so a bad id fails before any writes.
	if _, err := s.store.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}

	for _, trackID := range dedupe(trackIDs) {
		if _, err := s.store.AttachTrack(ctx, playlistID, trackID); err != nil {
			return nil, fmt.Errorf("add track %s: %w", trackID, err)
		}
	}

	return s.GetExpanded(ctx, playlistID)
}

// RemoveTrack filters a track id out of the playlist's membership and
// returns the playlist populated for the response. Removing an id that is
// not a member succeeds without changing anything.
func (s *PlaylistService) RemoveTrack(ctx context.Context, playlistID, trackID string) (*ExpandedPlaylist, error) {
	if _, err := s.store.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}

	if _, err := s.store.DetachTrack(ctx, playlistID, trackID); err != nil {
		return nil, fmt.Errorf("remove track %s: %w", trackID, err)
	}

	return s.GetExpanded(ctx, playlistID)
}

// dedupe returns the ids with duplicates removed, keeping first-seen order.
func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return ids
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
