package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/soundfolio/soundfolio-server/internal/domain"
	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/soundfolio/soundfolio-server/internal/sse"
)

const playlistPrefix = "playlist:"

// Membership mutations can race: bulk adds and track creation may target the
// same playlist concurrently. Badger detects the conflict; we retry.
const maxConflictRetries = 3

// updateWithRetry runs a write transaction, retrying on transaction conflict.
func (s *Store) updateWithRetry(fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// Playlist Operations

// CreatePlaylist persists a new playlist and broadcasts the creation.
// The cached track count is derived from the membership list before writing.
func (s *Store) CreatePlaylist(ctx context.Context, playlist *domain.Playlist) error {
	playlist.RecountTracks()

	if err := s.Playlists.Create(ctx, playlist.ID, playlist); err != nil {
		return fmt.Errorf("create playlist: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("playlist created", "id", playlist.ID, "title", playlist.Title, "tracks", playlist.TrackCount)
	}

	s.emit(sse.NewPlaylistCreatedEvent(playlist))

	// Index for search asynchronously
	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.IndexPlaylist(context.Background(), playlist); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to index playlist for search", "playlist_id", playlist.ID, "error", err)
				}
			}
		}()
	}

	return nil
}

// GetPlaylist retrieves a playlist by ID.
func (s *Store) GetPlaylist(ctx context.Context, id string) (*domain.Playlist, error) {
	playlist, err := s.Playlists.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

// UpdatePlaylist updates an existing playlist and broadcasts the change.
// The cached track count is recomputed from the membership list, so a write
// that replaces the track array can never leave the count stale.
func (s *Store) UpdatePlaylist(ctx context.Context, playlist *domain.Playlist) error {
	playlist.RecountTracks()
	playlist.Touch()

	if err := s.Playlists.Update(ctx, playlist.ID, playlist); err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("playlist updated", "id", playlist.ID, "title", playlist.Title, "tracks", playlist.TrackCount)
	}

	s.emit(sse.NewPlaylistUpdatedEvent(playlist))

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.IndexPlaylist(context.Background(), playlist); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to index playlist for search", "playlist_id", playlist.ID, "error", err)
				}
			}
		}()
	}

	return nil
}

// DeletePlaylist deletes a playlist by ID.
// Tracks that reference the playlist are left untouched; their stale
// references are tolerated and cleaned up lazily on later syncs.
func (s *Store) DeletePlaylist(ctx context.Context, id string) error {
	if err := s.Playlists.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("playlist deleted", "id", id)
	}

	s.emit(sse.NewPlaylistDeletedEvent(id))

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.DeletePlaylist(context.Background(), id); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to remove playlist from search index", "playlist_id", id, "error", err)
				}
			}
		}()
	}

	return nil
}

// ListPlaylists returns one page of playlists matching the query.
func (s *Store) ListPlaylists(ctx context.Context, q Query) (*PaginatedResult[*domain.Playlist], error) {
	result, err := s.Playlists.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	return result, nil
}

// AttachTrack adds a track to a playlist's membership list.
// The append and the cached count move in the same transaction, so the count
// cannot drift from the list. Returns false if the track was already a
// member; repeated attaches are safe to replay.
func (s *Store) AttachTrack(ctx context.Context, playlistID, trackID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := []byte(playlistPrefix + playlistID)
	var playlist domain.Playlist
	var added bool

	err := s.updateWithRetry(func(txn *badger.Txn) error {
		playlist = domain.Playlist{}
		added = false

		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domainerrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get playlist: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &playlist)
		}); err != nil {
			return fmt.Errorf("unmarshal playlist: %w", err)
		}

		if !playlist.AddTrack(trackID) {
			return nil // Already a member, nothing to write
		}
		added = true
		playlist.RecountTracks()
		playlist.Touch()

		data, err := json.Marshal(&playlist)
		if err != nil {
			return fmt.Errorf("marshal playlist: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return false, fmt.Errorf("attach track %s to playlist %s: %w", trackID, playlistID, err)
	}

	if added {
		if s.logger != nil {
			s.logger.Info("track attached to playlist", "playlist_id", playlistID, "track_id", trackID, "tracks", playlist.TrackCount)
		}
		s.emit(sse.NewPlaylistTrackAddedEvent(playlistID, trackID, playlist.TrackCount))
	}

	return added, nil
}

// DetachTrack removes a track from a playlist's membership list.
// The removal and the cached count move in the same transaction. Detaching a
// track that is not a member leaves the count untouched and returns false;
// the mismatch is logged since it usually means an earlier sync was lost.
func (s *Store) DetachTrack(ctx context.Context, playlistID, trackID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := []byte(playlistPrefix + playlistID)
	var playlist domain.Playlist
	var removed bool

	err := s.updateWithRetry(func(txn *badger.Txn) error {
		playlist = domain.Playlist{}
		removed = false

		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domainerrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get playlist: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &playlist)
		}); err != nil {
			return fmt.Errorf("unmarshal playlist: %w", err)
		}

		if !playlist.RemoveTrack(trackID) {
			return nil // Not a member, nothing to write
		}
		removed = true
		playlist.RecountTracks()
		playlist.Touch()

		data, err := json.Marshal(&playlist)
		if err != nil {
			return fmt.Errorf("marshal playlist: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return false, fmt.Errorf("detach track %s from playlist %s: %w", trackID, playlistID, err)
	}

	if removed {
		if s.logger != nil {
			s.logger.Info("track detached from playlist", "playlist_id", playlistID, "track_id", trackID, "tracks", playlist.TrackCount)
		}
		s.emit(sse.NewPlaylistTrackRemovedEvent(playlistID, trackID, playlist.TrackCount))
	} else if s.logger != nil {
		s.logger.Warn("track was not a member of playlist", "playlist_id", playlistID, "track_id", trackID)
	}

	return removed, nil
}

// GetPlaylistsByIDs fetches multiple playlists in a single read transaction.
// Missing IDs are skipped with a warning rather than failing the batch, so a
// stale track reference never breaks a populated response.
func (s *Store) GetPlaylistsByIDs(ctx context.Context, ids []string) ([]*domain.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	playlists := make([]*domain.Playlist, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get([]byte(playlistPrefix + id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				if s.logger != nil {
					s.logger.Warn("skipping missing playlist reference", "playlist_id", id)
				}
				continue
			}
			if err != nil {
				return fmt.Errorf("get playlist %s: %w", id, err)
			}

			var playlist domain.Playlist
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &playlist)
			}); err != nil {
				return fmt.Errorf("unmarshal playlist %s: %w", id, err)
			}

			playlists = append(playlists, &playlist)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return playlists, nil
}
