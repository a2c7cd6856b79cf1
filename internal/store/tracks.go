package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/sse"
)

const trackPrefix = "track:"

// Track Operations

// CreateTrack persists a new track and broadcasts the creation.
func (s *Store) CreateTrack(ctx context.Context, track *domain.Track) error {
	if err := s.Tracks.Create(ctx, track.ID, track); err != nil {
		return fmt.Errorf("create track: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("track created", "id", track.ID, "title", track.Title)
	}

	s.emit(sse.NewTrackCreatedEvent(track))

	// Index for search asynchronously
	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.IndexTrack(context.Background(), track); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to index track for search", "track_id", track.ID, "error", err)
				}
			}
		}()
	}

	return nil
}

// GetTrack retrieves a track by ID.
func (s *Store) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	track, err := s.Tracks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return track, nil
}

// UpdateTrack updates an existing track and broadcasts the change.
func (s *Store) UpdateTrack(ctx context.Context, track *domain.Track) error {
	track.Touch()

	if err := s.Tracks.Update(ctx, track.ID, track); err != nil {
		return fmt.Errorf("update track: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("track updated", "id", track.ID, "title", track.Title)
	}

	s.emit(sse.NewTrackUpdatedEvent(track))

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.IndexTrack(context.Background(), track); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to index track for search", "track_id", track.ID, "error", err)
				}
			}
		}()
	}

	return nil
}

// DeleteTrack deletes a track by ID.
// Playlists that reference the track are left untouched; their stale
// references are skipped whenever memberships get resolved to full tracks.
func (s *Store) DeleteTrack(ctx context.Context, id string) error {
	if err := s.Tracks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete track: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("track deleted", "id", id)
	}

	s.emit(sse.NewTrackDeletedEvent(id))

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.DeleteTrack(context.Background(), id); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to remove track from search index", "track_id", id, "error", err)
				}
			}
		}()
	}

	return nil
}

// ListTracks returns one page of tracks matching the query.
func (s *Store) ListTracks(ctx context.Context, q Query) (*PaginatedResult[*domain.Track], error) {
	result, err := s.Tracks.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	return result, nil
}

// GetTracksByIDs fetches multiple tracks in a single read transaction.
// Missing IDs are skipped with a warning rather than failing the batch, so a
// stale playlist reference never breaks a populated response.
func (s *Store) GetTracksByIDs(ctx context.Context, ids []string) ([]*domain.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracks := make([]*domain.Track, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get([]byte(trackPrefix + id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				if s.logger != nil {
					s.logger.Warn("skipping missing track reference", "track_id", id)
				}
				continue
			}
			if err != nil {
				return fmt.Errorf("get track %s: %w", id, err)
			}

			var track domain.Track
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &track)
			}); err != nil {
				return fmt.Errorf("unmarshal track %s: %w", id, err)
			}

			tracks = append(tracks, &track)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tracks, nil
}
