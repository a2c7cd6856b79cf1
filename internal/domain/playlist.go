package domain

import "slices"

// Visibility controls who can see a playlist or page.
type Visibility string

const (
	// VisibilityPublic makes the content visible to everyone.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate restricts the content to authenticated editors.
	VisibilityPrivate Visibility = "private"
)

// Playlist represents an ordered grouping of tracks.
// Playlists own the track/playlist relationship: Tracks is the authoritative
// membership list and TrackCount is a cached copy of its length, stored so
// list views never have to load the full membership array.
type Playlist struct {
	Document
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	CreatedBy    string     `json:"createdBy,omitempty"`
	Visibility   Visibility `json:"visibility,omitempty"`
	Tracks       []string   `json:"tracks"`
	Tags         []string   `json:"tags,omitempty"`
	TrackCount   int        `json:"trackCount"`
	Duration     int        `json:"duration,omitempty"` // seconds
}

// ContainsTrack checks if a track ID is in this playlist.
func (p *Playlist) ContainsTrack(trackID string) bool {
	return slices.Contains(p.Tracks, trackID)
}

// AddTrack appends a track ID to the playlist if not already present.
func (p *Playlist) AddTrack(trackID string) bool {
	if slices.Contains(p.Tracks, trackID) {
		return false // Already present
	}
	p.Tracks = append(p.Tracks, trackID)
	return true
}

// RemoveTrack removes a track ID from the playlist.
func (p *Playlist) RemoveTrack(trackID string) bool {
	for i, id := range p.Tracks {
		if id == trackID {
			p.Tracks = append(p.Tracks[:i], p.Tracks[i+1:]...)
			return true
		}
	}
	return false
}

// RecountTracks refreshes the cached TrackCount from the membership list.
// Call this before persisting after any change to Tracks.
func (p *Playlist) RecountTracks() {
	p.TrackCount = len(p.Tracks)
}
