// Package domain contains the core business entities and domain logic for the SoundFolio CMS.
package domain

import "time"

// Document provides the common identity and timestamp fields shared by all
// stored content types. It gets embedded in every entity the store persists.
type Document struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ID        string    `json:"id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (d *Document) InitTimestamps() {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
}
