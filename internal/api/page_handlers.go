package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/service"
)

func (s *Server) registerPageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-pages",
		Method:      http.MethodGet,
		Path:        "/api/v1/pages",
		Summary:     "List pages",
		Description: "Returns a filtered, paginated page listing. Body content is omitted; fetch a single page to get it.",
		Tags:        []string{"Pages"},
	}, s.handleListPages)

	huma.Register(s.api, huma.Operation{
		OperationID: "create-page",
		Method:      http.MethodPost,
		Path:        "/api/v1/pages",
		Summary:     "Create page",
		Description: "Creates a page. The slug is derived from the title unless supplied, and must be unique.",
		Tags:        []string{"Pages"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePage)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-page-by-slug",
		Method:      http.MethodGet,
		Path:        "/api/v1/pages/{slug}",
		Summary:     "Get page by slug",
		Description: "Returns a single page looked up by its public slug",
		Tags:        []string{"Pages"},
	}, s.handleGetPageBySlug)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-page-by-id",
		Method:      http.MethodGet,
		Path:        "/api/v1/pages/by-id/{id}",
		Summary:     "Get page by ID",
		Description: "Returns a single page looked up by its document ID",
		Tags:        []string{"Pages"},
	}, s.handleGetPageByID)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-page",
		Method:      http.MethodPut,
		Path:        "/api/v1/pages/{id}",
		Summary:     "Update page",
		Description: "Applies the supplied fields to a page. Changing the title never moves the slug.",
		Tags:        []string{"Pages"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePage)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-page",
		Method:      http.MethodDelete,
		Path:        "/api/v1/pages/{id}",
		Summary:     "Delete page",
		Description: "Deletes a page permanently",
		Tags:        []string{"Pages"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePage)
}

// === DTOs ===

// ListPagesInput carries the page listing query parameters. Out-of-range page
// and limit values are clamped, not rejected.
type ListPagesInput struct {
	Page       int    `query:"page" doc:"Page number (default 1)"`
	Limit      int    `query:"limit" doc:"Items per page (default 10, max 100)"`
	Search     string `query:"search" validate:"omitempty,max=200" doc:"Case-insensitive substring match on title, description, category and slug"`
	Category   string `query:"category" validate:"omitempty,max=100" doc:"Exact category filter"`
	CreatedBy  string `query:"createdBy" validate:"omitempty,max=100" doc:"Exact creator filter"`
	Visibility string `query:"visibility" validate:"omitempty,oneof=public private" doc:"Exact visibility filter"`
	Group      string `query:"group" validate:"omitempty,max=100" doc:"Group membership filter"`
	Tag        string `query:"tag" validate:"omitempty,max=50" doc:"Tag membership filter"`
}

// ListPagesOutput wraps a page listing for Huma.
type ListPagesOutput struct {
	Body ListResponse[*domain.Page]
}

// CreatePageInput wraps the create request for Huma.
type CreatePageInput struct {
	Body service.CreatePageRequest
}

// UpdatePageInput wraps the update request for Huma.
type UpdatePageInput struct {
	ID   string `path:"id" doc:"Page ID"`
	Body service.UpdatePageRequest
}

// PageSlugInput identifies a page by slug.
type PageSlugInput struct {
	Slug string `path:"slug" doc:"Page slug"`
}

// PageIDInput identifies a page by ID.
type PageIDInput struct {
	ID string `path:"id" doc:"Page ID"`
}

// PageOutput wraps a single page for Huma.
type PageOutput struct {
	Body *domain.Page
}

// === Handlers ===

func (s *Server) handleListPages(ctx context.Context, input *ListPagesInput) (*ListPagesOutput, error) {
	result, err := s.services.Page.List(ctx, service.ListPagesParams{
		Page:       input.Page,
		Limit:      input.Limit,
		Search:     input.Search,
		Category:   input.Category,
		CreatedBy:  input.CreatedBy,
		Visibility: input.Visibility,
		Group:      input.Group,
		Tag:        input.Tag,
	})
	if err != nil {
		return nil, err
	}

	return &ListPagesOutput{Body: ListResponse[*domain.Page]{
		Items:      result.Items,
		Pagination: result.Pagination,
	}}, nil
}

func (s *Server) handleCreatePage(ctx context.Context, input *CreatePageInput) (*PageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Page.Create(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &PageOutput{Body: page}, nil
}

func (s *Server) handleGetPageBySlug(ctx context.Context, input *PageSlugInput) (*PageOutput, error) {
	page, err := s.services.Page.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	return &PageOutput{Body: page}, nil
}

func (s *Server) handleGetPageByID(ctx context.Context, input *PageIDInput) (*PageOutput, error) {
	page, err := s.services.Page.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &PageOutput{Body: page}, nil
}

func (s *Server) handleUpdatePage(ctx context.Context, input *UpdatePageInput) (*PageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	page, err := s.services.Page.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &PageOutput{Body: page}, nil
}

func (s *Server) handleDeletePage(ctx context.Context, input *PageIDInput) (*MessageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Page.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Page deleted"}}, nil
}
