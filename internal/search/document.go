// Package search provides full-text search functionality using Bleve.
// It enables federated search across pages, tracks, and playlists with
// faceted filtering and fuzzy matching.
package search

import (
	"strings"

	"github.com/soundfolio/soundfolio-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypePage     DocType = "page"
	DocTypeTrack    DocType = "track"
	DocTypePlaylist DocType = "playlist"
)

// SearchDocument is the unified document structure for the Bleve index.
// All searchable entities are indexed as SearchDocuments with type
// discrimination, so one query can rank a track against the page that
// announces it.
type SearchDocument struct {
	// Identity
	ID   string  `json:"id"`   // Original entity ID (page-xxx, track-xxx, etc.)
	Type DocType `json:"type"` // Discriminator for result grouping

	// Primary searchable text (title for pages/tracks/playlists)
	Name string `json:"name"`

	// Secondary searchable text
	Description string `json:"description,omitempty"`
	Body        string `json:"body,omitempty"`   // Page excerpt text, not stored
	Author      string `json:"author,omitempty"` // Track artist, denormalized for search

	// Keyword fields for exact filtering
	Category   string   `json:"category,omitempty"`
	CreatedBy  string   `json:"created_by,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
	Slug       string   `json:"slug,omitempty"` // Pages only
	Tags       []string `json:"tags,omitempty"`
	Groups     []string `json:"groups,omitempty"` // Pages only

	// Numeric fields for range queries and sorting
	Duration   int `json:"duration,omitempty"`    // Seconds
	TrackCount int `json:"track_count,omitempty"` // Playlists only

	// Timestamps for sorting
	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"type":       string(d.Type),
		"name":       d.Name,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Body != "" {
		m["body"] = d.Body
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Category != "" {
		m["category"] = d.Category
	}
	if d.CreatedBy != "" {
		m["created_by"] = d.CreatedBy
	}
	if d.Visibility != "" {
		m["visibility"] = d.Visibility
	}
	if d.Slug != "" {
		m["slug"] = d.Slug
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if len(d.Groups) > 0 {
		m["groups"] = d.Groups
	}
	if d.Duration > 0 {
		m["duration"] = d.Duration
	}
	if d.TrackCount > 0 {
		m["track_count"] = d.TrackCount
	}

	return m
}

// PageToSearchDocument converts a domain Page to a SearchDocument.
// The excerpt stands in for the full content: it's already stripped to
// plain text, while Content may be raw editor HTML that would pollute
// the index with markup tokens.
func PageToSearchDocument(p *domain.Page) *SearchDocument {
	return &SearchDocument{
		ID:          p.ID,
		Type:        DocTypePage,
		Name:        p.Title,
		Description: p.Description,
		Body:        p.Excerpt,
		Category:    p.Category,
		CreatedBy:   p.CreatedBy,
		Visibility:  string(p.Visibility),
		Slug:        p.Slug,
		Tags:        p.Tags,
		Groups:      p.Groups,
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
}

// TrackToSearchDocument converts a domain Track to a SearchDocument.
// Tracks have no visibility of their own; they're always public.
func TrackToSearchDocument(t *domain.Track) *SearchDocument {
	return &SearchDocument{
		ID:          t.ID,
		Type:        DocTypeTrack,
		Name:        t.Title,
		Description: t.Description,
		Author:      t.Author,
		Category:    t.Category,
		Visibility:  string(domain.VisibilityPublic),
		Duration:    t.Duration,
		CreatedAt:   t.CreatedAt.UnixMilli(),
		UpdatedAt:   t.UpdatedAt.UnixMilli(),
	}
}

// PlaylistToSearchDocument converts a domain Playlist to a SearchDocument.
func PlaylistToSearchDocument(p *domain.Playlist) *SearchDocument {
	visibility := string(p.Visibility)
	if strings.TrimSpace(visibility) == "" {
		visibility = string(domain.VisibilityPublic)
	}

	return &SearchDocument{
		ID:          p.ID,
		Type:        DocTypePlaylist,
		Name:        p.Title,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		Visibility:  visibility,
		Tags:        p.Tags,
		Duration:    p.Duration,
		TrackCount:  p.TrackCount,
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
}
