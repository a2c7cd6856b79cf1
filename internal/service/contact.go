package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/id"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

// contactSearchFields are the text fields the list search term runs over.
var contactSearchFields = []string{"name", "email", "message"}

// ContactService handles contact form submissions. Creation is the only
// public write in the system; reading and deleting the inbox is admin work.
type ContactService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(store *store.Store, logger *slog.Logger) *ContactService {
	return &ContactService{
		store:  store,
		logger: logger,
	}
}

// CreateContactRequest is the input for a contact form submission.
type CreateContactRequest struct {
	Name    string `json:"name" validate:"required,max=200" doc:"Sender name"`
	Email   string `json:"email" validate:"required,email,max=254" doc:"Sender email address"`
	Mobile  string `json:"mobile,omitempty" validate:"omitempty,max=50" doc:"Optional phone number"`
	Message string `json:"message" validate:"required,max=5000" doc:"Message body"`
}

// ListContactsParams carries the supported query parameters for inbox
// listings.
type ListContactsParams struct {
	Page   int
	Limit  int
	Search string
}

// Create validates and stores a contact form submission.
func (s *ContactService) Create(ctx context.Context, req CreateContactRequest) (*domain.Contact, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	contactID, err := id.Generate("contact")
	if err != nil {
		return nil, fmt.Errorf("generate contact ID: %w", err)
	}

	contact := &domain.Contact{
		Document: domain.Document{ID: contactID},
		Name:     req.Name,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Mobile:   req.Mobile,
		Message:  req.Message,
	}
	contact.InitTimestamps()

	if err := s.store.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	return contact, nil
}

// List returns one page of inbox submissions, newest first.
func (s *ContactService) List(ctx context.Context, p ListContactsParams) (*store.PaginatedResult[*domain.Contact], error) {
	q := store.NewQuery(p.Page, p.Limit).
		WithSearch(p.Search, contactSearchFields...)

	return s.store.ListContacts(ctx, q)
}

// Delete removes a submission from the inbox.
func (s *ContactService) Delete(ctx context.Context, contactID string) error {
	if _, err := s.store.GetContact(ctx, contactID); err != nil {
		return err
	}

	return s.store.DeleteContact(ctx, contactID)
}
