// Package media provides a read-only client for the media host's Admin API.
// Audio and image assets live on the host; the CMS stores their delivery URLs
// and uses this client to browse what has been uploaded.
package media

import "time"

// Asset is a single uploaded asset on the media host.
type Asset struct {
	PublicID     string    `json:"publicId"`
	Format       string    `json:"format"`
	ResourceType string    `json:"resourceType"`
	SecureURL    string    `json:"secureUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	Bytes        int64     `json:"bytes"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	Duration     float64   `json:"duration,omitempty"` // seconds, audio/video only
}

// AssetPage is one page of an asset listing.
// NextCursor is empty on the last page.
type AssetPage struct {
	Assets     []Asset `json:"assets"`
	NextCursor string  `json:"nextCursor,omitempty"`
}

// listResponse is the raw Admin API listing response.
type listResponse struct {
	Resources  []rawResource `json:"resources"`
	NextCursor string        `json:"next_cursor"`
}

// rawResource is a single resource as the Admin API returns it.
type rawResource struct {
	PublicID     string  `json:"public_id"`
	Format       string  `json:"format"`
	ResourceType string  `json:"resource_type"`
	Type         string  `json:"type"`
	CreatedAt    string  `json:"created_at"`
	Bytes        int64   `json:"bytes"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Duration     float64 `json:"duration"`
	SecureURL    string  `json:"secure_url"`
}
