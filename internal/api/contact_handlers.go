package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/service"
)

func (s *Server) registerContactRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "submit-contact",
		Method:      http.MethodPost,
		Path:        "/api/v1/contact",
		Summary:     "Submit contact form",
		Description: "Stores a message from the public contact form",
		Tags:        []string{"Contact"},
		Middlewares: huma.Middlewares{s.rateLimitByIP(s.contactRateLimiter)},
	}, s.handleSubmitContact)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-contacts",
		Method:      http.MethodGet,
		Path:        "/api/v1/contacts",
		Summary:     "List contact submissions",
		Description: "Returns the contact inbox, newest first. Admin only.",
		Tags:        []string{"Contact"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListContacts)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-contact",
		Method:      http.MethodDelete,
		Path:        "/api/v1/contacts/{id}",
		Summary:     "Delete contact submission",
		Description: "Removes a submission from the inbox. Admin only.",
		Tags:        []string{"Contact"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteContact)
}

// === DTOs ===

// SubmitContactInput wraps the contact form body for Huma.
type SubmitContactInput struct {
	Body service.CreateContactRequest
}

// ContactOutput wraps a stored submission for Huma.
type ContactOutput struct {
	Body *domain.Contact
}

// ListContactsInput carries the inbox listing query parameters.
type ListContactsInput struct {
	Page   int    `query:"page" doc:"Page number (default 1)"`
	Limit  int    `query:"limit" doc:"Items per page (default 10, max 100)"`
	Search string `query:"search" validate:"omitempty,max=200" doc:"Case-insensitive substring match on name, email and message"`
}

// ListContactsOutput wraps an inbox listing for Huma.
type ListContactsOutput struct {
	Body ListResponse[*domain.Contact]
}

// ContactIDInput identifies a submission by ID.
type ContactIDInput struct {
	ID string `path:"id" doc:"Contact submission ID"`
}

// === Handlers ===

func (s *Server) handleSubmitContact(ctx context.Context, input *SubmitContactInput) (*ContactOutput, error) {
	contact, err := s.services.Contact.Create(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &ContactOutput{Body: contact}, nil
}

func (s *Server) handleListContacts(ctx context.Context, input *ListContactsInput) (*ListContactsOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	result, err := s.services.Contact.List(ctx, service.ListContactsParams{
		Page:   input.Page,
		Limit:  input.Limit,
		Search: input.Search,
	})
	if err != nil {
		return nil, err
	}

	return &ListContactsOutput{Body: ListResponse[*domain.Contact]{
		Items:      result.Items,
		Pagination: result.Pagination,
	}}, nil
}

func (s *Server) handleDeleteContact(ctx context.Context, input *ContactIDInput) (*MessageOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Contact.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Contact submission deleted"}}, nil
}
