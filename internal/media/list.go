package media

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultMaxResults = 30
	maxMaxResults     = 100
)

// ListParams controls an asset listing request.
type ListParams struct {
	// ResourceType selects the asset class. The host files audio under
	// "video". Defaults to "image".
	ResourceType string
	// Prefix filters assets whose public ID starts with the given string.
	Prefix string
	// NextCursor continues a previous listing.
	NextCursor string
	// MaxResults caps the page size (default 30, max 100).
	MaxResults int
}

// ListAssets fetches one page of uploaded assets from the media host.
func (c *Client) ListAssets(ctx context.Context, params ListParams) (*AssetPage, error) {
	resourceType := params.ResourceType
	if resourceType == "" {
		resourceType = "image"
	}

	limit := params.MaxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}
	if limit > maxMaxResults {
		limit = maxMaxResults
	}

	query := url.Values{}
	query.Set("max_results", strconv.Itoa(limit))
	if params.Prefix != "" {
		query.Set("prefix", params.Prefix)
	}
	if params.NextCursor != "" {
		query.Set("next_cursor", params.NextCursor)
	}

	body, err := c.doRequest(ctx, "/resources/"+resourceType, query)
	if err != nil {
		return nil, fmt.Errorf("list %s assets: %w", resourceType, err)
	}

	var raw listResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	page := &AssetPage{
		Assets:     make([]Asset, 0, len(raw.Resources)),
		NextCursor: raw.NextCursor,
	}
	for i := range raw.Resources {
		r := &raw.Resources[i]

		// The host reports RFC 3339 timestamps; a malformed one leaves
		// the zero time rather than failing the whole page.
		createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)

		page.Assets = append(page.Assets, Asset{
			PublicID:     r.PublicID,
			Format:       r.Format,
			ResourceType: r.ResourceType,
			SecureURL:    r.SecureURL,
			CreatedAt:    createdAt,
			Bytes:        r.Bytes,
			Width:        r.Width,
			Height:       r.Height,
			Duration:     r.Duration,
		})
	}

	c.logger.Debug("media host listing",
		"resource_type", resourceType,
		"count", len(page.Assets),
		"has_more", page.NextCursor != "",
	)

	return page, nil
}
