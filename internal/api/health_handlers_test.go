package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_ReportsComponents(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp)
	require.True(t, env.Success)

	// The test harness runs without a search index, so the overall status
	// degrades even though the database and SSE manager are fine.
	assert.Equal(t, "degraded", env.Data.Status)
	assert.Equal(t, Version, env.Data.Version)
	assert.NotEmpty(t, env.Data.Uptime)

	db, ok := env.Data.Components["database"]
	require.True(t, ok)
	assert.Equal(t, "healthy", db.Status)
	assert.NotEmpty(t, db.Latency)

	search, ok := env.Data.Components["search"]
	require.True(t, ok)
	assert.Equal(t, "degraded", search.Status)
	assert.Equal(t, "search disabled", search.Message)

	sse, ok := env.Data.Components["sse"]
	require.True(t, ok)
	assert.Equal(t, "healthy", sse.Status)
}

func TestHealth_CountsDocuments(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.setupAdmin(t)

	ts.createPage(t, admin.AccessToken, map[string]any{"title": "About"})
	ts.createTrack(t, admin.AccessToken, map[string]any{"title": "Opening Theme"})
	ts.createPlaylist(t, admin.AccessToken, map[string]any{"title": "Morning Mix"})

	resp := ts.api.Post("/api/v1/contact", map[string]any{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"message": "Loved the morning mix.",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp)
	for entity, want := range map[string]int{
		"pages":     1,
		"tracks":    1,
		"playlists": 1,
		"contacts":  1,
	} {
		assert.Equal(t, want, env.Data.Documents[entity], fmt.Sprintf("document count for %s", entity))
	}
}

func TestHealth_IsPublic(t *testing.T) {
	ts := newTestServer(t)

	// No Authorization header and no setup performed; the endpoint still
	// answers so load balancers can probe a fresh instance.
	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)
}
