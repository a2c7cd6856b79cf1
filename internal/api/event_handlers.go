package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
)

// registerEventRoutes mounts the SSE stream directly on the router. Event
// streams outlive the request/response model the generated operations
// assume, so this endpoint bypasses the OpenAPI layer.
func (s *Server) registerEventRoutes() {
	s.router.Get("/api/v1/events", s.handleEvents)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromRequest(r)
	if err != nil {
		s.logger.Warn("Rejected event stream subscription",
			"ip", getClientIP(r),
			"error", err,
		)
		writeUnauthorized(w)
		return
	}

	s.sseHandler.Stream(w, r, user.ID, user.IsAdmin())
}

// userFromRequest resolves the caller for the SSE endpoint. The auth
// middleware has already handled the Authorization header; a token query
// parameter is accepted as a fallback because EventSource clients cannot
// set headers.
func (s *Server) userFromRequest(r *http.Request) (*domain.User, error) {
	ctx := r.Context()

	if userID, err := GetUserID(ctx); err == nil {
		return s.store.GetUser(ctx, userID)
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	user, _, err := s.services.Auth.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.MarshalWrite(w, &Envelope{
		Success: false,
		Error:   "Authentication required",
		Code:    string(domainerrors.CodeUnauthorized),
	})
}
