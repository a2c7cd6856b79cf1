// Package di provides dependency injection configuration for the Soundfolio server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/soundfolio/soundfolio-server/internal/auth"
	"github.com/soundfolio/soundfolio-server/internal/config"
	"github.com/soundfolio/soundfolio-server/internal/di/providers"
	"github.com/soundfolio/soundfolio-server/internal/logger"
	"github.com/soundfolio/soundfolio-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Data layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Media host
	do.Provide(injector, providers.ProvideMediaClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideRelationshipSync)
	do.Provide(injector, providers.ProvidePageService)
	do.Provide(injector, providers.ProvideTrackService)
	do.Provide(injector, providers.ProvidePlaylistService)
	do.Provide(injector, providers.ProvideContactService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*providers.MediaClientHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.RelationshipSync](injector)
	_ = do.MustInvoke[*service.PageService](injector)
	_ = do.MustInvoke[*service.TrackService](injector)
	_ = do.MustInvoke[*service.PlaylistService](injector)
	_ = do.MustInvoke[*service.ContactService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index in the background when it starts empty
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
