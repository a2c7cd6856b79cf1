package media

import "errors"

// Sentinel errors for media host API operations.
var (
	ErrUnauthorized = errors.New("media: invalid api credentials")
	ErrNotFound     = errors.New("media: not found")
	ErrRateLimited  = errors.New("media: rate limited by host")
	ErrServer       = errors.New("media: host server error")
)
