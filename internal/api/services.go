package api

import (
	"github.com/soundfolio/soundfolio-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Session  *service.SessionService
	Page     *service.PageService
	Track    *service.TrackService
	Playlist *service.PlaylistService
	Contact  *service.ContactService
	Search   *service.SearchService // nil when search is disabled
}
