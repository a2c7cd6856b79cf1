package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/soundfolio/soundfolio-server/internal/store"
)

// Envelope is the wire shape of every API response. Success responses carry
// data (and pagination for lists), error responses carry error, code, and
// optional field details. Clients switch on success alone.
type Envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Message    string            `json:"message,omitempty"`
	Error      string            `json:"error,omitempty"`
	Code       string            `json:"code,omitempty"`
	Details    any               `json:"details,omitempty"`
	Pagination *store.Pagination `json:"pagination,omitempty"`
}

// paginated is satisfied by list bodies. The envelope hoists their
// pagination block out so it sits beside data rather than inside it.
type paginated interface {
	page() (any, store.Pagination)
}

// ListResponse carries one page of items plus placement metadata.
type ListResponse[T any] struct {
	Items      []T              `json:"items"`
	Pagination store.Pagination `json:"pagination"`
}

func (l ListResponse[T]) page() (any, store.Pagination) { return l.Items, l.Pagination }

// EnvelopeTransformer wraps every outgoing body in the Envelope. Error
// models produced by the registered error handler pass through here too,
// so success and failure share one shape.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case *APIError:
		return &Envelope{
			Success: false,
			Error:   body.Message,
			Code:    body.Code,
			Details: body.Details,
		}, nil
	case MessageResponse:
		return &Envelope{Success: true, Message: body.Message}, nil
	case paginated:
		items, p := body.page()
		return &Envelope{Success: true, Data: items, Pagination: &p}, nil
	default:
		return &Envelope{Success: true, Data: v}, nil
	}
}
