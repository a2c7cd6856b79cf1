package store

import (
	"context"
	"fmt"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/sse"
)

const pagePrefix = "page:"

// Page Operations

// CreatePage persists a new page and broadcasts the creation.
// The slug index is written in the same transaction as the page itself, so
// two creates racing on the same slug cannot both succeed even when the
// service-level availability check passed for both.
func (s *Store) CreatePage(ctx context.Context, page *domain.Page) error {
	if err := s.Pages.Create(ctx, page.ID, page); err != nil {
		return fmt.Errorf("create page: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("page created", "id", page.ID, "title", page.Title, "slug", page.Slug)
	}

	s.emit(sse.NewPageCreatedEvent(page))

	// Index for search asynchronously
	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.IndexPage(context.Background(), page); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to index page for search", "page_id", page.ID, "error", err)
				}
			}
		}()
	}

	return nil
}

// GetPage retrieves a page by ID.
func (s *Store) GetPage(ctx context.Context, id string) (*domain.Page, error) {
	page, err := s.Pages.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetPageBySlug retrieves a page by its public slug.
func (s *Store) GetPageBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	page, err := s.Pages.GetByIndex(ctx, "slug", slug)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// PageSlugExists reports whether a slug is already taken.
// Used to pick a free slug before creating; the unique index on create
// still backstops the race where two writers pick the same slug.
func (s *Store) PageSlugExists(ctx context.Context, slug string) (bool, error) {
	exists, err := s.Pages.ExistsByIndex(ctx, "slug", slug)
	if err != nil {
		return false, fmt.Errorf("check slug %q: %w", slug, err)
	}
	return exists, nil
}

// UpdatePage updates an existing page and broadcasts the change.
func (s *Store) UpdatePage(ctx context.Context, page *domain.Page) error {
	page.Touch()

	if err := s.Pages.Update(ctx, page.ID, page); err != nil {
		return fmt.Errorf("update page: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("page updated", "id", page.ID, "title", page.Title, "slug", page.Slug)
	}

	s.emit(sse.NewPageUpdatedEvent(page))

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.IndexPage(context.Background(), page); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to index page for search", "page_id", page.ID, "error", err)
				}
			}
		}()
	}

	return nil
}

// DeletePage deletes a page by ID. The slug index entry goes with it.
func (s *Store) DeletePage(ctx context.Context, id string) error {
	if err := s.Pages.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("page deleted", "id", id)
	}

	s.emit(sse.NewPageDeletedEvent(id))

	if s.searchIndexer != nil {
		go func() {
			if err := s.searchIndexer.DeletePage(context.Background(), id); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to remove page from search index", "page_id", id, "error", err)
				}
			}
		}()
	}

	return nil
}

// ListPages returns one page of pages matching the query.
func (s *Store) ListPages(ctx context.Context, q Query) (*PaginatedResult[*domain.Page], error) {
	result, err := s.Pages.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return result, nil
}
