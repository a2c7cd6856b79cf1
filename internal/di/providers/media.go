package providers

import (
	"github.com/samber/do/v2"

	"github.com/soundfolio/soundfolio-server/internal/config"
	"github.com/soundfolio/soundfolio-server/internal/logger"
	"github.com/soundfolio/soundfolio-server/internal/media"
)

// MediaClientHandle wraps the media host client. The embedded client is nil
// when the host credentials are not configured.
type MediaClientHandle struct {
	*media.Client
}

// ProvideMediaClient provides the read-only media host client.
func ProvideMediaClient(i do.Injector) (*MediaClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Media.Configured() {
		log.Info("Media host not configured, asset listing disabled")
		return &MediaClientHandle{}, nil
	}

	client := media.New(media.Config{
		BaseURL:   cfg.Media.BaseURL,
		CloudName: cfg.Media.CloudName,
		APIKey:    cfg.Media.APIKey,
		APISecret: cfg.Media.APISecret,
	}, log.Logger)

	log.Info("Media host client ready", "cloud_name", cfg.Media.CloudName)

	return &MediaClientHandle{Client: client}, nil
}
