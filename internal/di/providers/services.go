package providers

import (
	"github.com/samber/do/v2"

	"github.com/soundfolio/soundfolio-server/internal/auth"
	"github.com/soundfolio/soundfolio-server/internal/logger"
	"github.com/soundfolio/soundfolio-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideRelationshipSync provides the track-playlist relationship syncer.
func ProvideRelationshipSync(i do.Injector) (*service.RelationshipSync, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRelationshipSync(storeHandle.Store, log.Logger), nil
}

// ProvidePageService provides the page service.
func ProvidePageService(i do.Injector) (*service.PageService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPageService(storeHandle.Store, log.Logger), nil
}

// ProvideTrackService provides the track service.
func ProvideTrackService(i do.Injector) (*service.TrackService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	relationships := do.MustInvoke[*service.RelationshipSync](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTrackService(storeHandle.Store, relationships, log.Logger), nil
}

// ProvidePlaylistService provides the playlist service.
func ProvidePlaylistService(i do.Injector) (*service.PlaylistService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPlaylistService(storeHandle.Store, log.Logger), nil
}

// ProvideContactService provides the contact inbox service.
func ProvideContactService(i do.Injector) (*service.ContactService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewContactService(storeHandle.Store, log.Logger), nil
}
