package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/soundfolio/soundfolio-server/internal/config"
	"github.com/soundfolio/soundfolio-server/internal/logger"
	"github.com/soundfolio/soundfolio-server/internal/search"
	"github.com/soundfolio/soundfolio-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
// The embedded index is nil when search is disabled by configuration.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.SearchIndex == nil {
		return nil
	}
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.Enabled {
		log.Info("Full-text search disabled by configuration")
		return &SearchIndexHandle{}, nil
	}

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service and wires it to the store
// so content writes flow into the index. Nil when search is disabled; the
// search endpoint then answers 404 and health reports the component degraded.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	if indexHandle.SearchIndex == nil {
		return nil, nil
	}

	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(indexHandle.SearchIndex, storeHandle.Store, log.Logger)
	storeHandle.SetSearchIndexer(svc)

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index from the store in the
// background. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	if searchService == nil {
		return
	}
	log := do.MustInvoke[*logger.Logger](i)

	go func() {
		if err := searchService.EnsureIndexed(context.Background()); err != nil {
			log.Error("Search reindex failed", "error", err)
		}
	}()
}
