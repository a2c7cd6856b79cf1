package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/soundfolio/soundfolio-server/internal/domain"
	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/soundfolio/soundfolio-server/internal/id"
	"github.com/soundfolio/soundfolio-server/internal/slug"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

// pageSearchFields are the text fields the list search term runs over.
var pageSearchFields = []string{"title", "description", "category"}

// excerptLength is how many characters of converted content make up the
// stored excerpt shown on listing cards.
const excerptLength = 280

// PageService handles editorial pages. Every page carries a unique slug used
// as its public lookup key: derived from the title when not supplied,
// normalized either way, and guarded by a pre-check plus the store's unique
// index for the race between two requests resolving the same slug.
type PageService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewPageService creates a new page service.
func NewPageService(store *store.Store, logger *slog.Logger) *PageService {
	return &PageService{
		store:  store,
		logger: logger,
	}
}

// CreatePageRequest is the input for creating a page.
type CreatePageRequest struct {
	Title       string            `json:"title" validate:"required,max=200" doc:"Page title"`
	Slug        string            `json:"slug,omitempty" validate:"omitempty,max=200" doc:"URL slug; derived from the title when omitted"`
	Description string            `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Short description"`
	Content     string            `json:"content,omitempty" doc:"Page body in the editor's format"`
	Editor      domain.EditorKind `json:"editor,omitempty" validate:"omitempty,oneof=richtext markdown" doc:"Editor that produced the content"`
	Category    string            `json:"category,omitempty" validate:"omitempty,max=100" doc:"Page category"`
	Visibility  domain.Visibility `json:"visibility,omitempty" validate:"omitempty,oneof=public private" doc:"Who can see the page"`
	Media       []domain.MediaRef `json:"media,omitempty" validate:"omitempty,max=10" doc:"Up to 10 attached assets"`
	Groups      []string          `json:"groups,omitempty" validate:"omitempty,max=10,dive,max=100" doc:"Up to 10 navigation groups"`
	Tags        []string          `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50" doc:"Up to 20 tags"`
	SEO         domain.SEO        `json:"seo,omitzero" doc:"Search and social metadata"`
}

// UpdatePageRequest is the input for partially updating a page.
// Nil fields are left untouched. A title change never rewrites the slug;
// published URLs only move when a new slug is supplied explicitly.
type UpdatePageRequest struct {
	Title       *string            `json:"title,omitempty" validate:"omitnil,min=1,max=200" doc:"Page title"`
	Slug        *string            `json:"slug,omitempty" validate:"omitnil,min=1,max=200" doc:"New URL slug"`
	Description *string            `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Short description"`
	Content     *string            `json:"content,omitempty" doc:"Page body in the editor's format"`
	Editor      *domain.EditorKind `json:"editor,omitempty" validate:"omitnil,oneof=richtext markdown" doc:"Editor that produced the content"`
	Category    *string            `json:"category,omitempty" validate:"omitempty,max=100" doc:"Page category"`
	Visibility  *domain.Visibility `json:"visibility,omitempty" validate:"omitnil,oneof=public private" doc:"Who can see the page"`
	Media       *[]domain.MediaRef `json:"media,omitempty" validate:"omitnil,max=10" doc:"Up to 10 attached assets"`
	Groups      *[]string          `json:"groups,omitempty" validate:"omitnil,max=10,dive,max=100" doc:"Up to 10 navigation groups"`
	Tags        *[]string          `json:"tags,omitempty" validate:"omitnil,max=20,dive,max=50" doc:"Up to 20 tags"`
	SEO         *domain.SEO        `json:"seo,omitempty" doc:"Search and social metadata"`
}

// ListPagesParams carries the supported query parameters for page listings.
type ListPagesParams struct {
	Page       int
	Limit      int
	Search     string
	Category   string
	CreatedBy  string
	Visibility string
	Group      string
	Tag        string
}

// Create validates and persists a new page created by the given user.
// The resolved slug must be free: an occupied slug is rejected as a
// duplicate rather than suffixed into something the author never chose.
func (s *PageService) Create(ctx context.Context, createdBy string, req CreatePageRequest) (*domain.Page, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	resolved, err := s.resolveSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.PageSlugExists(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if exists {
		return nil, domainerrors.Duplicatef("page with slug %q already exists", resolved)
	}

	pageID, err := id.Generate("page")
	if err != nil {
		return nil, fmt.Errorf("generate page ID: %w", err)
	}

	editor := req.Editor
	if editor == "" {
		editor = domain.EditorRichText
	}

	page := &domain.Page{
		Document:    domain.Document{ID: pageID},
		Title:       req.Title,
		Slug:        resolved,
		Description: req.Description,
		Content:     req.Content,
		Excerpt:     s.makeExcerpt(req.Content, editor),
		Editor:      editor,
		Category:    req.Category,
		CreatedBy:   createdBy,
		Visibility:  req.Visibility,
		Media:       req.Media,
		Groups:      req.Groups,
		Tags:        req.Tags,
		SEO:         req.SEO,
	}
	if page.Visibility == "" {
		page.Visibility = domain.VisibilityPublic
	}
	page.InitTimestamps()

	if err := s.store.CreatePage(ctx, page); err != nil {
		// Two requests can resolve the same free slug concurrently; the
		// pre-check misses that, the unique index does not.
		if errors.Is(err, domainerrors.ErrDuplicate) {
			return nil, domainerrors.Duplicatef("page with slug %q already exists", resolved)
		}
		return nil, fmt.Errorf("create page: %w", err)
	}

	return page, nil
}

// Get retrieves a page by ID.
func (s *PageService) Get(ctx context.Context, pageID string) (*domain.Page, error) {
	return s.store.GetPage(ctx, pageID)
}

// GetBySlug retrieves a page by its public slug.
func (s *PageService) GetBySlug(ctx context.Context, pageSlug string) (*domain.Page, error) {
	return s.store.GetPageBySlug(ctx, pageSlug)
}

// List returns one page of pages matching the given filters, newest first.
// Listings never carry the content body; it can run to megabytes per page
// and only the single-page reads need it.
func (s *PageService) List(ctx context.Context, p ListPagesParams) (*store.PaginatedResult[*domain.Page], error) {
	q := store.NewQuery(p.Page, p.Limit).
		WithSearch(p.Search, pageSearchFields...).
		WithEquals("category", p.Category).
		WithEquals("createdBy", p.CreatedBy).
		WithEquals("visibility", p.Visibility).
		WithContains("groups", p.Group).
		WithContains("tags", p.Tag)

	result, err := s.store.ListPages(ctx, q)
	if err != nil {
		return nil, err
	}

	for _, page := range result.Items {
		page.Content = ""
	}

	return result, nil
}

// Update applies the supplied fields to an existing page. A supplied slug is
// normalized and re-checked for uniqueness against every other page; keeping
// the current slug is always allowed.
func (s *PageService) Update(ctx context.Context, pageID string, req UpdatePageRequest) (*domain.Page, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil {
		newSlug := slug.Make(*req.Slug)
		if newSlug == "" {
			return nil, domainerrors.Validation("slug must contain at least one letter or digit")
		}
		if newSlug != page.Slug {
			exists, err := s.store.PageSlugExists(ctx, newSlug)
			if err != nil {
				return nil, fmt.Errorf("check slug: %w", err)
			}
			if exists {
				return nil, domainerrors.Duplicatef("page with slug %q already exists", newSlug)
			}
			page.Slug = newSlug
		}
	}

	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Description != nil {
		page.Description = *req.Description
	}
	if req.Category != nil {
		page.Category = *req.Category
	}
	if req.Visibility != nil {
		page.Visibility = *req.Visibility
	}
	if req.Media != nil {
		page.Media = *req.Media
	}
	if req.Groups != nil {
		page.Groups = *req.Groups
	}
	if req.Tags != nil {
		page.Tags = *req.Tags
	}
	if req.SEO != nil {
		page.SEO = *req.SEO
	}
	if req.Editor != nil {
		page.Editor = *req.Editor
	}
	if req.Content != nil {
		page.Content = *req.Content
	}
	if req.Content != nil || req.Editor != nil {
		page.Excerpt = s.makeExcerpt(page.Content, page.Editor)
	}

	if err := s.store.UpdatePage(ctx, page); err != nil {
		if errors.Is(err, domainerrors.ErrDuplicate) {
			return nil, domainerrors.Duplicatef("page with slug %q already exists", page.Slug)
		}
		return nil, fmt.Errorf("update page: %w", err)
	}

	return page, nil
}

// Delete removes a page.
func (s *PageService) Delete(ctx context.Context, pageID string) error {
	if _, err := s.store.GetPage(ctx, pageID); err != nil {
		return err
	}

	return s.store.DeletePage(ctx, pageID)
}

// resolveSlug normalizes the requested slug, deriving one from the title
// when none was supplied.
func (s *PageService) resolveSlug(requested, title string) (string, error) {
	source := requested
	if source == "" {
		source = title
	}

	resolved := slug.Make(source)
	if resolved == "" {
		if requested == "" {
			return "", domainerrors.Validation("title must contain at least one letter or digit to derive a slug")
		}
		return "", domainerrors.Validation("slug must contain at least one letter or digit")
	}

	return resolved, nil
}

// makeExcerpt produces the short plain-text form of the page content used on
// listing cards. Rich text is converted to markdown first; a conversion
// failure is logged and yields an empty excerpt rather than failing the
// write.
func (s *PageService) makeExcerpt(content string, editor domain.EditorKind) string {
	if content == "" {
		return ""
	}

	text := content
	if editor == domain.EditorRichText {
		converted, err := htmltomarkdown.ConvertString(content)
		if err != nil {
			s.logger.Warn("excerpt conversion failed", "error", err)
			return ""
		}
		text = converted
	}

	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}

	runes := []rune(text)
	cut := excerptLength
	// Break on the last space inside the window so words stay whole.
	for i := cut; i > 0; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return string(runes[:cut]) + "…"
}
