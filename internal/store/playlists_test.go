package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlaylist(id, title string) *domain.Playlist {
	playlist := &domain.Playlist{
		Document:   domain.Document{ID: id},
		Title:      title,
		Visibility: domain.VisibilityPublic,
	}
	playlist.InitTimestamps()
	return playlist
}

func TestAttachTrack(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreatePlaylist(ctx, newTestPlaylist("pl-1", "Morning Mix")))

	added, err := s.AttachTrack(ctx, "pl-1", "track-1")
	require.NoError(t, err)
	assert.True(t, added)

	playlist, err := s.GetPlaylist(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"track-1"}, playlist.Tracks)
	assert.Equal(t, 1, playlist.TrackCount)
}

func TestAttachTrack_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreatePlaylist(ctx, newTestPlaylist("pl-1", "Morning Mix")))

	added, err := s.AttachTrack(ctx, "pl-1", "track-1")
	require.NoError(t, err)
	require.True(t, added)

	// Replaying the attach neither duplicates the entry nor bumps the count
	added, err = s.AttachTrack(ctx, "pl-1", "track-1")
	require.NoError(t, err)
	assert.False(t, added)

	playlist, err := s.GetPlaylist(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"track-1"}, playlist.Tracks)
	assert.Equal(t, 1, playlist.TrackCount)
}

func TestAttachTrack_PlaylistNotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.AttachTrack(context.Background(), "pl-missing", "track-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDetachTrack(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreatePlaylist(ctx, newTestPlaylist("pl-1", "Morning Mix")))

	_, err := s.AttachTrack(ctx, "pl-1", "track-1")
	require.NoError(t, err)
	_, err = s.AttachTrack(ctx, "pl-1", "track-2")
	require.NoError(t, err)

	removed, err := s.DetachTrack(ctx, "pl-1", "track-1")
	require.NoError(t, err)
	assert.True(t, removed)

	playlist, err := s.GetPlaylist(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"track-2"}, playlist.Tracks)
	assert.Equal(t, 1, playlist.TrackCount)
}

func TestDetachTrack_NotAMember(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreatePlaylist(ctx, newTestPlaylist("pl-1", "Morning Mix")))

	_, err := s.AttachTrack(ctx, "pl-1", "track-1")
	require.NoError(t, err)

	// Detaching a non-member reports false and leaves the count alone
	removed, err := s.DetachTrack(ctx, "pl-1", "track-other")
	require.NoError(t, err)
	assert.False(t, removed)

	playlist, err := s.GetPlaylist(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, 1, playlist.TrackCount)
}

func TestTrackCountFollowsMembership(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreatePlaylist(ctx, newTestPlaylist("pl-1", "Morning Mix")))

	assertInvariant := func() {
		playlist, err := s.GetPlaylist(ctx, "pl-1")
		require.NoError(t, err)
		assert.Equal(t, len(playlist.Tracks), playlist.TrackCount,
			"cached count must equal membership length")
	}

	for i := 0; i < 5; i++ {
		_, err := s.AttachTrack(ctx, "pl-1", fmt.Sprintf("track-%d", i))
		require.NoError(t, err)
		assertInvariant()
	}

	// Replays and bogus detaches must not move the count
	_, err := s.AttachTrack(ctx, "pl-1", "track-2")
	require.NoError(t, err)
	assertInvariant()

	_, err = s.DetachTrack(ctx, "pl-1", "track-unknown")
	require.NoError(t, err)
	assertInvariant()

	for i := 0; i < 5; i++ {
		_, err := s.DetachTrack(ctx, "pl-1", fmt.Sprintf("track-%d", i))
		require.NoError(t, err)
		assertInvariant()
	}

	playlist, err := s.GetPlaylist(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, 0, playlist.TrackCount)
	assert.Empty(t, playlist.Tracks)
}

func TestUpdatePlaylist_RecountsTracks(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreatePlaylist(ctx, newTestPlaylist("pl-1", "Morning Mix")))

	playlist, err := s.GetPlaylist(ctx, "pl-1")
	require.NoError(t, err)

	// Replace membership wholesale with a bogus cached count
	playlist.Tracks = []string{"track-a", "track-b", "track-c"}
	playlist.TrackCount = 99
	require.NoError(t, s.UpdatePlaylist(ctx, playlist))

	stored, err := s.GetPlaylist(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.TrackCount)
}

func TestCreatePlaylist_RecountsTracks(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	playlist := newTestPlaylist("pl-1", "Morning Mix")
	playlist.Tracks = []string{"track-a", "track-b"}
	playlist.TrackCount = 42

	require.NoError(t, s.CreatePlaylist(ctx, playlist))

	stored, err := s.GetPlaylist(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TrackCount)
}

func TestGetPlaylistsByIDs_SkipsMissing(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreatePlaylist(ctx, newTestPlaylist("pl-1", "First")))
	require.NoError(t, s.CreatePlaylist(ctx, newTestPlaylist("pl-2", "Second")))

	playlists, err := s.GetPlaylistsByIDs(ctx, []string{"pl-1", "pl-missing", "pl-2"})
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, "pl-1", playlists[0].ID)
	assert.Equal(t, "pl-2", playlists[1].ID)
}
