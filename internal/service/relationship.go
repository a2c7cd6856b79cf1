package service

import (
	"context"
	"log/slog"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

// RelationshipSync keeps Track.Playlists and Playlist.Tracks naming each
// other across track-side writes. There is no cross-document transaction:
// every step is an independent idempotent store operation (set-add,
// set-remove), and a failed playlist update is logged and skipped, never
// rolled back. A track write therefore always lands even when a referenced
// playlist is missing, at the cost of a dangling reference on one side that
// readers tolerate until a later write corrects it.
type RelationshipSync struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRelationshipSync creates the sync helper shared by the track and
// playlist services.
func NewRelationshipSync(store *store.Store, logger *slog.Logger) *RelationshipSync {
	return &RelationshipSync{
		store:  store,
		logger: logger,
	}
}

// Attach set-adds a freshly created track into the playlist it was created
// with. The track document is already persisted and visible at this point;
// the playlist side runs strictly afterwards. On failure the track keeps its
// playlists reference anyway, so the gap is observable (and logged) rather
// than silently repaired by dropping the reference.
func (rs *RelationshipSync) Attach(ctx context.Context, trackID, playlistID string) {
	if playlistID == "" {
		return
	}

	if _, err := rs.store.AttachTrack(ctx, playlistID, trackID); err != nil {
		rs.logger.Warn("playlist attach failed after track create",
			"track_id", trackID,
			"playlist_id", playlistID,
			"error", err,
		)
	}
}

// Reassign moves a track's membership to newPlaylistID, detaching it from
// every other playlist it currently references. An empty newPlaylistID
// detaches only. Each per-playlist update is independent: one failure is
// logged and the remaining updates still run.
//
// The track's own Playlists field is rewritten to the intended final state
// regardless of how the playlist-side updates fared; the caller persists the
// track afterwards.
func (rs *RelationshipSync) Reassign(ctx context.Context, track *domain.Track, newPlaylistID string) {
	for _, oldID := range track.Playlists {
		if oldID == newPlaylistID {
			continue
		}
		if _, err := rs.store.DetachTrack(ctx, oldID, track.ID); err != nil {
			rs.logger.Warn("playlist detach failed during reassign",
				"track_id", track.ID,
				"playlist_id", oldID,
				"error", err,
			)
		}
	}

	if newPlaylistID == "" {
		track.Playlists = []string{}
		return
	}

	// Set-add is a no-op when the membership already exists, so this also
	// repairs the case where the track claimed a playlist that never had it.
	if _, err := rs.store.AttachTrack(ctx, newPlaylistID, track.ID); err != nil {
		rs.logger.Warn("playlist attach failed during reassign",
			"track_id", track.ID,
			"playlist_id", newPlaylistID,
			"error", err,
		)
	}
	track.Playlists = []string{newPlaylistID}
}
