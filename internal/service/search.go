package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/search"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

// SearchService bridges the search index with the data store. It implements
// store.SearchIndexer, so every content write flows into the index as it
// happens, and it runs queries plus the full rebuild used when the index
// starts empty or its mapping changed.
type SearchService struct {
	index  *search.SearchIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search executes a query across pages, tracks, and playlists.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// IndexPage indexes a single page. Called by the store on page writes.
func (s *SearchService) IndexPage(_ context.Context, page *domain.Page) error {
	if err := s.index.IndexDocument(search.PageToSearchDocument(page)); err != nil {
		return fmt.Errorf("index page: %w", err)
	}

	s.logger.Debug("indexed page", "id", page.ID, "slug", page.Slug)
	return nil
}

// DeletePage removes a page from the index.
func (s *SearchService) DeletePage(_ context.Context, pageID string) error {
	return s.index.DeleteDocument(pageID)
}

// IndexTrack indexes a single track. Called by the store on track writes.
func (s *SearchService) IndexTrack(_ context.Context, track *domain.Track) error {
	if err := s.index.IndexDocument(search.TrackToSearchDocument(track)); err != nil {
		return fmt.Errorf("index track: %w", err)
	}

	s.logger.Debug("indexed track", "id", track.ID, "title", track.Title)
	return nil
}

// DeleteTrack removes a track from the index.
func (s *SearchService) DeleteTrack(_ context.Context, trackID string) error {
	return s.index.DeleteDocument(trackID)
}

// IndexPlaylist indexes a single playlist. Called by the store on playlist
// writes.
func (s *SearchService) IndexPlaylist(_ context.Context, playlist *domain.Playlist) error {
	if err := s.index.IndexDocument(search.PlaylistToSearchDocument(playlist)); err != nil {
		return fmt.Errorf("index playlist: %w", err)
	}

	s.logger.Debug("indexed playlist", "id", playlist.ID, "title", playlist.Title)
	return nil
}

// DeletePlaylist removes a playlist from the index.
func (s *SearchService) DeletePlaylist(_ context.Context, playlistID string) error {
	return s.index.DeleteDocument(playlistID)
}

// EnsureIndexed rebuilds the index when it holds nothing. A fresh index on a
// populated store means either first startup with search enabled or a
// mapping change that dropped the old index; both want a full reindex.
func (s *SearchService) EnsureIndexed(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return nil
	}

	return s.ReindexAll(ctx)
}

// ReindexAll rebuilds the entire search index from the store.
// This is a heavy operation - use sparingly.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	// Rebuild drops the existing index
	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	pageDocs := make([]*search.SearchDocument, 0, 64)
	for page, err := range s.store.Pages.List(ctx) {
		if err != nil {
			return fmt.Errorf("list pages: %w", err)
		}
		pageDocs = append(pageDocs, search.PageToSearchDocument(page))
	}
	if len(pageDocs) > 0 {
		if err := s.index.IndexDocuments(pageDocs); err != nil {
			return fmt.Errorf("index pages: %w", err)
		}
	}
	s.logger.Info("indexed pages", "count", len(pageDocs))

	trackDocs := make([]*search.SearchDocument, 0, 256)
	for track, err := range s.store.Tracks.List(ctx) {
		if err != nil {
			return fmt.Errorf("list tracks: %w", err)
		}
		trackDocs = append(trackDocs, search.TrackToSearchDocument(track))
	}
	if len(trackDocs) > 0 {
		if err := s.index.IndexDocuments(trackDocs); err != nil {
			return fmt.Errorf("index tracks: %w", err)
		}
	}
	s.logger.Info("indexed tracks", "count", len(trackDocs))

	playlistDocs := make([]*search.SearchDocument, 0, 64)
	for playlist, err := range s.store.Playlists.List(ctx) {
		if err != nil {
			return fmt.Errorf("list playlists: %w", err)
		}
		playlistDocs = append(playlistDocs, search.PlaylistToSearchDocument(playlist))
	}
	if len(playlistDocs) > 0 {
		if err := s.index.IndexDocuments(playlistDocs); err != nil {
			return fmt.Errorf("index playlists: %w", err)
		}
	}
	s.logger.Info("indexed playlists", "count", len(playlistDocs))

	total, _ := s.index.DocumentCount()
	s.logger.Info("full reindex complete", "total_documents", total)

	return nil
}
