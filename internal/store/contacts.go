package store

import (
	"context"
	"fmt"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/sse"
)

const contactPrefix = "contact:"

// Contact Operations

// CreateContact persists a new contact submission and notifies admin streams.
func (s *Store) CreateContact(ctx context.Context, contact *domain.Contact) error {
	if err := s.Contacts.Create(ctx, contact.ID, contact); err != nil {
		return fmt.Errorf("create contact: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("contact submission stored", "id", contact.ID, "email", contact.Email)
	}

	s.emit(sse.NewContactReceivedEvent(contact))

	return nil
}

// GetContact retrieves a contact submission by ID.
func (s *Store) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	contact, err := s.Contacts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact deletes a contact submission by ID.
func (s *Store) DeleteContact(ctx context.Context, id string) error {
	if err := s.Contacts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("contact submission deleted", "id", id)
	}

	return nil
}

// ListContacts returns one page of contact submissions matching the query.
func (s *Store) ListContacts(ctx context.Context, q Query) (*PaginatedResult[*domain.Contact], error) {
	result, err := s.Contacts.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return result, nil
}
