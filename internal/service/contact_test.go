package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
)

func newContactService(t *testing.T) *ContactService {
	t.Helper()

	return NewContactService(newTestStore(t), testLogger())
}

func TestContactService_Create(t *testing.T) {
	contacts := newContactService(t)

	contact, err := contacts.Create(context.Background(), CreateContactRequest{
		Name:    "Jamie Visitor",
		Email:   "  Jamie@Example.COM ",
		Message: "Do you play weddings?",
	})
	require.NoError(t, err)

	assert.Equal(t, "jamie@example.com", contact.Email)
	assert.NotEmpty(t, contact.ID)
	assert.False(t, contact.CreatedAt.IsZero())
}

func TestContactService_CreateValidation(t *testing.T) {
	contacts := newContactService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateContactRequest
	}{
		{
			name: "missing name",
			req:  CreateContactRequest{Email: "a@example.com", Message: "hi"},
		},
		{
			name: "missing message",
			req:  CreateContactRequest{Name: "A", Email: "a@example.com"},
		},
		{
			name: "bad email",
			req:  CreateContactRequest{Name: "A", Email: "not-an-email", Message: "hi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := contacts.Create(ctx, tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestContactService_ListPagination(t *testing.T) {
	contacts := newContactService(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := contacts.Create(ctx, CreateContactRequest{
			Name:    fmt.Sprintf("Visitor %02d", i),
			Email:   fmt.Sprintf("visitor%02d@example.com", i),
			Message: "Booking inquiry",
		})
		require.NoError(t, err)
	}

	// 25 submissions at 10 per page: the last page holds the remaining 5.
	result, err := contacts.List(ctx, ListContactsParams{Page: 3, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, result.Items, 5)
	assert.Equal(t, 3, result.Pagination.CurrentPage)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.Equal(t, 25, result.Pagination.TotalItems)
	assert.Equal(t, 10, result.Pagination.ItemsPerPage)

	// Past the end is an empty page, not an error.
	result, err = contacts.List(ctx, ListContactsParams{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 25, result.Pagination.TotalItems)
}

func TestContactService_ListSearch(t *testing.T) {
	contacts := newContactService(t)
	ctx := context.Background()

	_, err := contacts.Create(ctx, CreateContactRequest{
		Name:    "Booking Agent",
		Email:   "agent@example.com",
		Message: "Festival slot available in July",
	})
	require.NoError(t, err)

	_, err = contacts.Create(ctx, CreateContactRequest{
		Name:    "Fan Mail",
		Email:   "fan@example.com",
		Message: "Loved the last album",
	})
	require.NoError(t, err)

	result, err := contacts.List(ctx, ListContactsParams{Search: "FESTIVAL"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Booking Agent", result.Items[0].Name)
}

func TestContactService_Delete(t *testing.T) {
	contacts := newContactService(t)
	ctx := context.Background()

	contact, err := contacts.Create(ctx, CreateContactRequest{
		Name:    "Transient",
		Email:   "gone@example.com",
		Message: "Delete me",
	})
	require.NoError(t, err)

	require.NoError(t, contacts.Delete(ctx, contact.ID))

	_, err = contacts.List(ctx, ListContactsParams{})
	require.NoError(t, err)

	err = contacts.Delete(ctx, contact.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
