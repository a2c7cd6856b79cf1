package search

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundfolio/soundfolio-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) (*SearchIndex, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "search-test-*")
	require.NoError(t, err)

	index, err := NewSearchIndex(Options{
		DataPath: tmpDir,
		Logger:   nil,
	})
	require.NoError(t, err)

	cleanup := func() {
		_ = index.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return index, cleanup
}

func TestNewSearchIndex(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_IndexDocument(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &SearchDocument{
		ID:     "track-123",
		Type:   DocTypeTrack,
		Name:   "Midnight Drive",
		Author: "The Night Owls",
	}

	err := index.IndexDocument(doc)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchIndex_IndexDocuments_Batch(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "track-1", Type: DocTypeTrack, Name: "Track One"},
		{ID: "track-2", Type: DocTypeTrack, Name: "Track Two"},
		{ID: "track-3", Type: DocTypeTrack, Name: "Track Three"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestSearchIndex_DeleteDocument(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &SearchDocument{
		ID:   "track-123",
		Type: DocTypeTrack,
		Name: "Test Track",
	}

	err := index.IndexDocument(doc)
	require.NoError(t, err)

	err = index.DeleteDocument("track-123")
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Search_Basic(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "track-1", Type: DocTypeTrack, Name: "Midnight Drive", Author: "The Night Owls"},
		{ID: "track-2", Type: DocTypeTrack, Name: "Sunrise Boulevard", Author: "The Night Owls"},
		{ID: "track-3", Type: DocTypeTrack, Name: "Harbor Lights", Author: "Maren Cole"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	ctx := context.Background()

	// Search by artist name
	result, err := index.Search(ctx, SearchParams{
		Query: "Owls",
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
	assert.Len(t, result.Hits, 2)
}

func TestSearchIndex_Search_ByType(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "track-1", Type: DocTypeTrack, Name: "Midnight Drive"},
		{ID: "page-1", Type: DocTypePage, Name: "Tour Dates"},
		{ID: "pl-1", Type: DocTypePlaylist, Name: "Road Trip Mix"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	ctx := context.Background()

	// Search for tracks only
	result, err := index.Search(ctx, SearchParams{
		Query: "",
		Types: []string{string(DocTypeTrack)},
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "track-1", result.Hits[0].ID)
}

func TestSearchIndex_Search_Prefix(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &SearchDocument{
		ID:   "track-1",
		Type: DocTypeTrack,
		Name: "Midnight Drive",
	}

	err := index.IndexDocument(doc)
	require.NoError(t, err)

	ctx := context.Background()

	// Partial word typed into the search box should still find the track
	result, err := index.Search(ctx, SearchParams{
		Query: "Midn",
		Limit: 10,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Total, uint64(1))
}

func TestSearchIndex_Search_CategoryFilter(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "track-1", Type: DocTypeTrack, Name: "Midnight Drive", Category: "rock"},
		{ID: "track-2", Type: DocTypeTrack, Name: "Night Swim", Category: "ambient"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	ctx := context.Background()

	result, err := index.Search(ctx, SearchParams{
		Query:    "night",
		Category: "rock",
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "track-1", result.Hits[0].ID)
}

func TestSearchIndex_Search_VisibilityFilter(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "pl-1", Type: DocTypePlaylist, Name: "Summer Mix", Visibility: "public"},
		{ID: "pl-2", Type: DocTypePlaylist, Name: "Summer Drafts", Visibility: "private"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	ctx := context.Background()

	// The public site search never sees private playlists
	result, err := index.Search(ctx, SearchParams{
		Query:      "summer",
		Visibility: "public",
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "pl-1", result.Hits[0].ID)

	// Admin search without the filter sees both
	result, err = index.Search(ctx, SearchParams{
		Query: "summer",
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
}

func TestSearchIndex_Search_TagFilter(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "pl-1", Type: DocTypePlaylist, Name: "Beach Mix", Tags: []string{"summer-2025", "chill"}},
		{ID: "pl-2", Type: DocTypePlaylist, Name: "Gym Mix", Tags: []string{"workout"}},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	ctx := context.Background()

	result, err := index.Search(ctx, SearchParams{
		Tags:  []string{"summer-2025"},
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "pl-1", result.Hits[0].ID)
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &SearchDocument{ID: "track-1", Type: DocTypeTrack, Name: "Test"}
	err := index.IndexDocument(doc)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	// Rebuild - should clear the index
	err = index.Rebuild()
	require.NoError(t, err)

	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Persistence(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "search-persist-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	// Create index and add document
	index1, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)

	doc := &SearchDocument{ID: "track-1", Type: DocTypeTrack, Name: "Test Track"}
	err = index1.IndexDocument(doc)
	require.NoError(t, err)

	err = index1.Close()
	require.NoError(t, err)

	// Reopen index and verify document is still there
	index2, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)
	defer index2.Close()

	count, err := index2.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	ctx := context.Background()
	result, err := index2.Search(ctx, SearchParams{Query: "Test", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
}

func TestPageToSearchDocument(t *testing.T) {
	page := &domain.Page{
		Title:       "Spring Tour Announcement",
		Slug:        "spring-tour-announcement",
		Description: "Dates and venues for the spring tour",
		Excerpt:     "We are hitting the road again this spring...",
		Category:    "news",
		CreatedBy:   "user-abc",
		Visibility:  domain.VisibilityPublic,
		Groups:      []string{"news", "homepage"},
		Tags:        []string{"tour", "2026"},
	}
	page.ID = "page-123"

	doc := PageToSearchDocument(page)

	assert.Equal(t, "page-123", doc.ID)
	assert.Equal(t, DocTypePage, doc.Type)
	assert.Equal(t, "Spring Tour Announcement", doc.Name)
	assert.Equal(t, "spring-tour-announcement", doc.Slug)
	assert.Equal(t, "We are hitting the road again this spring...", doc.Body)
	assert.Equal(t, "news", doc.Category)
	assert.Equal(t, "public", doc.Visibility)
	assert.Equal(t, []string{"news", "homepage"}, doc.Groups)
	assert.Equal(t, []string{"tour", "2026"}, doc.Tags)
}

func TestTrackToSearchDocument(t *testing.T) {
	track := &domain.Track{
		Title:       "Midnight Drive",
		Author:      "The Night Owls",
		Description: "Lead single from the new record",
		Category:    "rock",
		Duration:    214,
	}
	track.ID = "track-123"

	doc := TrackToSearchDocument(track)

	assert.Equal(t, "track-123", doc.ID)
	assert.Equal(t, DocTypeTrack, doc.Type)
	assert.Equal(t, "Midnight Drive", doc.Name)
	assert.Equal(t, "The Night Owls", doc.Author)
	assert.Equal(t, 214, doc.Duration)
	// Tracks are always publicly searchable
	assert.Equal(t, "public", doc.Visibility)
}

func TestPlaylistToSearchDocument(t *testing.T) {
	playlist := &domain.Playlist{
		Title:       "Road Trip Mix",
		Description: "Songs for long drives",
		CreatedBy:   "user-abc",
		Visibility:  domain.VisibilityPrivate,
		Tags:        []string{"chill"},
		TrackCount:  12,
	}
	playlist.ID = "pl-123"

	doc := PlaylistToSearchDocument(playlist)

	assert.Equal(t, "pl-123", doc.ID)
	assert.Equal(t, DocTypePlaylist, doc.Type)
	assert.Equal(t, "Road Trip Mix", doc.Name)
	assert.Equal(t, "private", doc.Visibility)
	assert.Equal(t, 12, doc.TrackCount)

	// Unset visibility defaults to public so old records stay searchable
	playlist.Visibility = ""
	doc = PlaylistToSearchDocument(playlist)
	assert.Equal(t, "public", doc.Visibility)
}

func TestSearchIndex_LargeBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large batch test in short mode")
	}

	index, cleanup := setupTestIndex(t)
	defer cleanup()

	// 1000 documents to exercise chunking (batch size is 500)
	docs := make([]*SearchDocument, 1000)
	for i := 0; i < 1000; i++ {
		docs[i] = &SearchDocument{
			ID:   fmt.Sprintf("track-%04d", i),
			Type: DocTypeTrack,
			Name: fmt.Sprintf("Track Number %d", i),
		}
	}

	start := time.Now()
	err := index.IndexDocuments(docs)
	require.NoError(t, err)
	t.Logf("Indexed 1000 documents in %v", time.Since(start))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), count)
}
