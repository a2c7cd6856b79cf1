package domain

import (
	"slices"
	"time"
)

// Track represents a single audio release in the catalog.
type Track struct {
	Document
	ReleaseDate  time.Time `json:"releaseDate,omitzero"`
	Title        string    `json:"title"`
	Author       string    `json:"author,omitempty"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	AudioURL     string    `json:"audioUrl"`
	// Playlists lists the IDs of playlists this track belongs to. It is the
	// track-side half of the track/playlist relationship and is kept in step
	// with Playlist.Tracks on a best-effort basis.
	Playlists []string `json:"playlists"`
	Duration  int      `json:"duration,omitempty"` // seconds
	Listens   int      `json:"listens"`
	Trending  bool     `json:"trending,omitempty"`
}

// InPlaylist checks whether the track already references the given playlist.
func (t *Track) InPlaylist(playlistID string) bool {
	return slices.Contains(t.Playlists, playlistID)
}

// AddPlaylist records a playlist reference if not already present.
func (t *Track) AddPlaylist(playlistID string) bool {
	if slices.Contains(t.Playlists, playlistID) {
		return false // Already present
	}
	t.Playlists = append(t.Playlists, playlistID)
	return true
}

// RemovePlaylist drops a playlist reference.
// Returns true if a reference was removed.
func (t *Track) RemovePlaylist(playlistID string) bool {
	for i, id := range t.Playlists {
		if id == playlistID {
			t.Playlists = append(t.Playlists[:i], t.Playlists[i+1:]...)
			return true
		}
	}
	return false
}
