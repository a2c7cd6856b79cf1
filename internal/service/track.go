package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/id"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

// trackSearchFields are the text fields the list search term runs over.
var trackSearchFields = []string{"title", "description", "author", "category"}

// TrackService handles the audio track catalog.
type TrackService struct {
	store  *store.Store
	sync   *RelationshipSync
	logger *slog.Logger
}

// NewTrackService creates a new track service.
func NewTrackService(store *store.Store, sync *RelationshipSync, logger *slog.Logger) *TrackService {
	return &TrackService{
		store:  store,
		sync:   sync,
		logger: logger,
	}
}

// CreateTrackRequest is the input for creating a track.
type CreateTrackRequest struct {
	Title        string    `json:"title" validate:"required,max=200" doc:"Track title"`
	Author       string    `json:"author,omitempty" validate:"omitempty,max=200" doc:"Artist or band name"`
	Description  string    `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Track description"`
	Category     string    `json:"category,omitempty" validate:"omitempty,max=100" doc:"Genre or category"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty" validate:"omitempty,url" doc:"Cover image URL"`
	AudioURL     string    `json:"audioUrl" validate:"required,url" doc:"Audio file URL"`
	Duration     int       `json:"duration,omitempty" validate:"omitempty,gte=0" doc:"Duration in seconds"`
	Listens      int       `json:"listens,omitempty" validate:"omitempty,gte=0" doc:"Play count, for imported catalogs"`
	ReleaseDate  time.Time `json:"releaseDate,omitzero" doc:"Original release date"`
	Trending     bool      `json:"trending,omitempty" doc:"Feature the track in trending sections"`
	PlaylistID   string    `json:"playlistId,omitempty" doc:"Playlist to attach the new track to"`
}

// UpdateTrackRequest is the input for partially updating a track.
// Nil fields are left untouched.
type UpdateTrackRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitnil,min=1,max=200" doc:"Track title"`
	Author       *string    `json:"author,omitempty" validate:"omitempty,max=200" doc:"Artist or band name"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Track description"`
	Category     *string    `json:"category,omitempty" validate:"omitempty,max=100" doc:"Genre or category"`
	ThumbnailURL *string    `json:"thumbnailUrl,omitempty" validate:"omitempty,url" doc:"Cover image URL"`
	AudioURL     *string    `json:"audioUrl,omitempty" validate:"omitnil,url" doc:"Audio file URL"`
	Duration     *int       `json:"duration,omitempty" validate:"omitempty,gte=0" doc:"Duration in seconds"`
	Listens      *int       `json:"listens,omitempty" validate:"omitempty,gte=0" doc:"Play count"`
	ReleaseDate  *time.Time `json:"releaseDate,omitempty" doc:"Original release date"`
	Trending     *bool      `json:"trending,omitempty" doc:"Feature the track in trending sections"`

	// PlaylistID is tri-state: nil leaves memberships alone, an empty string
	// detaches the track from every playlist, and a playlist id reassigns it.
	PlaylistID *string `json:"playlistId,omitempty" doc:"Playlist membership: omit to keep, empty to detach, id to reassign"`
}

// ListTracksParams carries the supported query parameters for track listings.
type ListTracksParams struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Author   string
}

// ExpandedTrack is a track with its playlist references resolved to full
// playlists. Produced only when a read asks for expansion; id arrays stay
// the default representation.
type ExpandedTrack struct {
	*domain.Track
	Playlists []*domain.Playlist `json:"playlists"`
}

// Create validates and persists a new track. When a playlist id is supplied
// the track is registered with that playlist after its own write completes;
// a playlist-side failure does not undo the track.
func (s *TrackService) Create(ctx context.Context, req CreateTrackRequest) (*domain.Track, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	trackID, err := id.Generate("track")
	if err != nil {
		return nil, fmt.Errorf("generate track ID: %w", err)
	}

	track := &domain.Track{
		Document:     domain.Document{ID: trackID},
		Title:        req.Title,
		Author:       req.Author,
		Description:  req.Description,
		Category:     req.Category,
		ThumbnailURL: req.ThumbnailURL,
		AudioURL:     req.AudioURL,
		Duration:     req.Duration,
		Listens:      req.Listens,
		ReleaseDate:  req.ReleaseDate,
		Trending:     req.Trending,
		Playlists:    []string{},
	}
	if req.PlaylistID != "" {
		track.Playlists = []string{req.PlaylistID}
	}
	track.InitTimestamps()

	if err := s.store.CreateTrack(ctx, track); err != nil {
		return nil, fmt.Errorf("create track: %w", err)
	}

	s.sync.Attach(ctx, track.ID, req.PlaylistID)

	return track, nil
}

// Get retrieves a track by ID.
func (s *TrackService) Get(ctx context.Context, trackID string) (*domain.Track, error) {
	return s.store.GetTrack(ctx, trackID)
}

// GetExpanded retrieves a track with its playlists populated.
// Dangling playlist references are dropped from the expansion.
func (s *TrackService) GetExpanded(ctx context.Context, trackID string) (*ExpandedTrack, error) {
	track, err := s.store.GetTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}

	playlists, err := s.store.GetPlaylistsByIDs(ctx, track.Playlists)
	if err != nil {
		return nil, fmt.Errorf("populate playlists: %w", err)
	}

	return &ExpandedTrack{Track: track, Playlists: playlists}, nil
}

// List returns one page of tracks matching the given filters,
// newest first.
func (s *TrackService) List(ctx context.Context, p ListTracksParams) (*store.PaginatedResult[*domain.Track], error) {
	q := store.NewQuery(p.Page, p.Limit).
		WithSearch(p.Search, trackSearchFields...).
		WithEquals("category", p.Category).
		WithEquals("author", p.Author)

	return s.store.ListTracks(ctx, q)
}

// Update applies the supplied fields to an existing track. A playlistId
// change triggers the membership reassignment before the track itself is
// persisted with its rewritten playlists field.
func (s *TrackService) Update(ctx context.Context, trackID string, req UpdateTrackRequest) (*domain.Track, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	track, err := s.store.GetTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		track.Title = *req.Title
	}
	if req.Author != nil {
		track.Author = *req.Author
	}
	if req.Description != nil {
		track.Description = *req.Description
	}
	if req.Category != nil {
		track.Category = *req.Category
	}
	if req.ThumbnailURL != nil {
		track.ThumbnailURL = *req.ThumbnailURL
	}
	if req.AudioURL != nil {
		track.AudioURL = *req.AudioURL
	}
	if req.Duration != nil {
		track.Duration = *req.Duration
	}
	if req.Listens != nil {
		track.Listens = *req.Listens
	}
	if req.ReleaseDate != nil {
		track.ReleaseDate = *req.ReleaseDate
	}
	if req.Trending != nil {
		track.Trending = *req.Trending
	}

	if req.PlaylistID != nil && playlistMembershipChanged(track, *req.PlaylistID) {
		s.sync.Reassign(ctx, track, *req.PlaylistID)
	}

	if err := s.store.UpdateTrack(ctx, track); err != nil {
		return nil, fmt.Errorf("update track: %w", err)
	}

	return track, nil
}

// Delete removes a track. Playlists that reference it keep their entry: the
// stale id drops out whenever the membership gets populated, and is only
// cleaned up by a later playlist write.
func (s *TrackService) Delete(ctx context.Context, trackID string) error {
	if _, err := s.store.GetTrack(ctx, trackID); err != nil {
		return err
	}

	return s.store.DeleteTrack(ctx, trackID)
}

// playlistMembershipChanged reports whether the supplied playlist id would
// actually alter the track's memberships. Resubmitting the current state is
// a no-op and must not churn the playlist documents.
func playlistMembershipChanged(track *domain.Track, playlistID string) bool {
	if playlistID == "" {
		return len(track.Playlists) > 0
	}
	return len(track.Playlists) != 1 || track.Playlists[0] != playlistID
}
