// Package sse implements Server-Sent Events for real-time content updates and event broadcasting.
package sse

import (
	"time"

	"github.com/soundfolio/soundfolio-server/internal/domain"
)

// SSE carries server-to-client notifications only. Everything the admin UI
// does follows a request/response pattern, so a one-way stream is enough.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventPageCreated represents a page creation event.
	EventPageCreated EventType = "page.created"
	// EventPageUpdated represents a page update event.
	EventPageUpdated EventType = "page.updated"
	// EventPageDeleted represents a page deletion event.
	EventPageDeleted EventType = "page.deleted"

	// EventTrackCreated represents a track creation event.
	EventTrackCreated EventType = "track.created"
	// EventTrackUpdated represents a track update event.
	EventTrackUpdated EventType = "track.updated"
	// EventTrackDeleted represents a track deletion event.
	EventTrackDeleted EventType = "track.deleted"

	// EventPlaylistCreated represents a playlist creation event.
	EventPlaylistCreated EventType = "playlist.created"
	// EventPlaylistUpdated represents a playlist update event.
	EventPlaylistUpdated EventType = "playlist.updated"
	// EventPlaylistDeleted represents a playlist deletion event.
	EventPlaylistDeleted EventType = "playlist.deleted"
	// EventPlaylistTrackAdded represents a track joining a playlist.
	EventPlaylistTrackAdded EventType = "playlist.track_added"
	// EventPlaylistTrackRemoved represents a track leaving a playlist.
	EventPlaylistTrackRemoved EventType = "playlist.track_removed"

	// EventContactReceived represents a new contact form submission.
	// Only sent to admin users.
	EventContactReceived EventType = "contact.received"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"` // Event-specific data as JSON object
	Type      EventType `json:"type"`

	// AdminOnly restricts delivery to admin clients. Contact submissions
	// carry visitor details, so they never go to regular editor streams.
	AdminOnly bool `json:"-"`
}

// PageEventData is the data payload for page events.
type PageEventData struct {
	Page *domain.Page `json:"page"`
}

// TrackEventData is the data payload for track events.
type TrackEventData struct {
	Track *domain.Track `json:"track"`
}

// PlaylistEventData is the data payload for playlist events.
type PlaylistEventData struct {
	Playlist *domain.Playlist `json:"playlist"`
}

// DeletedEventData is the data payload for deletion events.
type DeletedEventData struct {
	DeletedAt time.Time `json:"deletedAt"`
	ID        string    `json:"id"`
}

// PlaylistTrackEventData is the data payload for playlist membership events.
type PlaylistTrackEventData struct {
	PlaylistID string `json:"playlistId"`
	TrackID    string `json:"trackId"`
	TrackCount int    `json:"trackCount"`
}

// ContactEventData is the data payload for contact submission events.
type ContactEventData struct {
	Contact *domain.Contact `json:"contact"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"serverTime"`
}

// NewPageCreatedEvent creates a page.created event.
func NewPageCreatedEvent(page *domain.Page) Event {
	return Event{
		Type:      EventPageCreated,
		Data:      PageEventData{Page: page},
		Timestamp: time.Now(),
	}
}

// NewPageUpdatedEvent creates a page.updated event.
func NewPageUpdatedEvent(page *domain.Page) Event {
	return Event{
		Type:      EventPageUpdated,
		Data:      PageEventData{Page: page},
		Timestamp: time.Now(),
	}
}

// NewPageDeletedEvent creates a page.deleted event.
func NewPageDeletedEvent(pageID string) Event {
	return Event{
		Type:      EventPageDeleted,
		Data:      DeletedEventData{ID: pageID, DeletedAt: time.Now()},
		Timestamp: time.Now(),
	}
}

// NewTrackCreatedEvent creates a track.created event.
func NewTrackCreatedEvent(track *domain.Track) Event {
	return Event{
		Type:      EventTrackCreated,
		Data:      TrackEventData{Track: track},
		Timestamp: time.Now(),
	}
}

// NewTrackUpdatedEvent creates a track.updated event.
func NewTrackUpdatedEvent(track *domain.Track) Event {
	return Event{
		Type:      EventTrackUpdated,
		Data:      TrackEventData{Track: track},
		Timestamp: time.Now(),
	}
}

// NewTrackDeletedEvent creates a track.deleted event.
func NewTrackDeletedEvent(trackID string) Event {
	return Event{
		Type:      EventTrackDeleted,
		Data:      DeletedEventData{ID: trackID, DeletedAt: time.Now()},
		Timestamp: time.Now(),
	}
}

// NewPlaylistCreatedEvent creates a playlist.created event.
func NewPlaylistCreatedEvent(playlist *domain.Playlist) Event {
	return Event{
		Type:      EventPlaylistCreated,
		Data:      PlaylistEventData{Playlist: playlist},
		Timestamp: time.Now(),
	}
}

// NewPlaylistUpdatedEvent creates a playlist.updated event.
func NewPlaylistUpdatedEvent(playlist *domain.Playlist) Event {
	return Event{
		Type:      EventPlaylistUpdated,
		Data:      PlaylistEventData{Playlist: playlist},
		Timestamp: time.Now(),
	}
}

// NewPlaylistDeletedEvent creates a playlist.deleted event.
func NewPlaylistDeletedEvent(playlistID string) Event {
	return Event{
		Type:      EventPlaylistDeleted,
		Data:      DeletedEventData{ID: playlistID, DeletedAt: time.Now()},
		Timestamp: time.Now(),
	}
}

// NewPlaylistTrackAddedEvent creates a playlist.track_added event.
func NewPlaylistTrackAddedEvent(playlistID, trackID string, trackCount int) Event {
	return Event{
		Type: EventPlaylistTrackAdded,
		Data: PlaylistTrackEventData{
			PlaylistID: playlistID,
			TrackID:    trackID,
			TrackCount: trackCount,
		},
		Timestamp: time.Now(),
	}
}

// NewPlaylistTrackRemovedEvent creates a playlist.track_removed event.
func NewPlaylistTrackRemovedEvent(playlistID, trackID string, trackCount int) Event {
	return Event{
		Type: EventPlaylistTrackRemoved,
		Data: PlaylistTrackEventData{
			PlaylistID: playlistID,
			TrackID:    trackID,
			TrackCount: trackCount,
		},
		Timestamp: time.Now(),
	}
}

// NewContactReceivedEvent creates a contact.received event for admin users.
func NewContactReceivedEvent(contact *domain.Contact) Event {
	return Event{
		Type:      EventContactReceived,
		Data:      ContactEventData{Contact: contact},
		Timestamp: time.Now(),
		AdminOnly: true,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
