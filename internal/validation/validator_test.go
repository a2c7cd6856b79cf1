package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/soundfolio/soundfolio-server/internal/validation"
)

type testRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	AudioURL string   `json:"audioUrl" validate:"required,url"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Tags     []string `json:"tags" validate:"max=20"`
	Editor   string   `json:"editor" validate:"omitempty,oneof=richtext markdown"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := testRequest{
		Title:    "Midnight Session",
		AudioURL: "https://cdn.example.com/audio/midnight.mp3",
		Email:    "fan@example.com",
		Tags:     []string{"live", "acoustic"},
		Editor:   "richtext",
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       testRequest
		wantField string
	}{
		{
			name: "missing required field",
			req: testRequest{
				Title:    "",
				AudioURL: "https://cdn.example.com/a.mp3",
			},
			wantField: "title",
		},
		{
			name: "invalid url",
			req: testRequest{
				Title:    "Test",
				AudioURL: "not a url",
			},
			wantField: "audioUrl",
		},
		{
			name: "invalid email",
			req: testRequest{
				Title:    "Test",
				AudioURL: "https://cdn.example.com/a.mp3",
				Email:    "not-an-email",
			},
			wantField: "email",
		},
		{
			name: "invalid enum value",
			req: testRequest{
				Title:    "Test",
				AudioURL: "https://cdn.example.com/a.mp3",
				Editor:   "wysiwyg",
			},
			wantField: "editor",
		},
		{
			name: "too many tags",
			req: testRequest{
				Title:    "Test",
				AudioURL: "https://cdn.example.com/a.mp3",
				Tags:     make([]string, 21),
			},
			wantField: "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, domainerrors.As(err, &domainErr))
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok, "details should be a field error map")
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := testRequest{
		Title:    "",
		AudioURL: "https://cdn.example.com/a.mp3",
	}

	err := v.Validate(req)
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, domainerrors.As(err, &domainErr))

	// Should use JSON tag name "title", not struct field name "Title".
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "title")
	assert.NotContains(t, details, "Title")
}
