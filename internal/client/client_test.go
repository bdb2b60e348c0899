// ABOUTME: Tests for the API client wrappers against httptest servers
// ABOUTME: Covers JSON decoding, error envelope mapping, and markdown rendering

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	// The raw http.Client satisfies the gateway's Doer contract; the
	// gateway integration is exercised in gateway_client_test.go.
	return New(srv.Client(), srv.URL, nil)
}

func TestClient_Me(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/admin/session", r.URL.Path)
		json.NewEncoder(w).Encode(Identity{
			Username: "ops@example",
			TenantID: "tenant-1",
			Roles:    []string{"admin"},
		})
	}))

	id, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ops@example", id.Username)
	assert.Equal(t, []string{"admin"}, id.Roles)
}

func TestClient_ListProjects(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/projects", r.URL.Path)
		json.NewEncoder(w).Encode(projectsResponse{Projects: []Project{
			{ID: "p1", Name: "Support Bot", Active: true},
			{ID: "p2", Name: "Sales Bot"},
		}})
	}))

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Support Bot", projects[0].Name)
}

func TestClient_APIErrorEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "project not found"})
	}))

	_, err := c.GetProject(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "project not found", apiErr.Message)
}

func TestClient_APIErrorWithoutEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain text", http.StatusBadGateway)
	}))

	_, err := c.ListProjects(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Message)
}

func TestClient_PushArticleRendersMarkdown(t *testing.T) {
	var received Article
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/admin/projects/p1/kb/articles", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		received.ID = "a1"
		json.NewEncoder(w).Encode(received)
	}))

	created, err := c.PushArticle(context.Background(), "p1", Article{
		FolderID: "f1",
		Title:    "Refund policy",
		Body:     "# Refunds\n\nWithin *30 days*.",
	})
	require.NoError(t, err)

	assert.Equal(t, "a1", created.ID)
	assert.Contains(t, received.HTML, "<h1>Refunds</h1>")
	assert.Contains(t, received.HTML, "<em>30 days</em>")
}

func TestClient_UpdateProjectSettings(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/admin/projects/p1/settings", r.URL.Path)

		var settings ProjectSettings
		require.NoError(t, json.NewDecoder(r.Body).Decode(&settings))
		json.NewEncoder(w).Encode(Project{ID: "p1", Name: settings.Name})
	}))

	p, err := c.UpdateProjectSettings(context.Background(), "p1", ProjectSettings{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
}

func TestClient_BackupAndVoicePaths(t *testing.T) {
	var paths []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{})
	}))

	ctx := context.Background()
	_, err := c.ListBackups(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, c.ScheduleBackup(ctx, "p1", BackupSchedule{Cron: "0 3 * * *", Retention: 7, Enabled: true}))
	require.NoError(t, c.DeleteBackup(ctx, "p1", "b1"))
	_, err = c.VoiceTrainingStatus(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, c.StartVoiceTraining(ctx, "p1", "s1"))

	assert.Equal(t, []string{
		"GET /api/v1/backup/p1",
		"PUT /api/v1/backup/p1/schedule",
		"DELETE /api/v1/backup/p1/b1",
		"GET /api/v1/batch/voice/p1",
		"POST /api/v1/batch/voice/p1/train",
	}, paths)
}

func TestClient_DashboardStatsWindow(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/projects/p1/stats", r.URL.Path)
		assert.Equal(t, "7d", r.URL.Query().Get("window"))
		json.NewEncoder(w).Encode(DashboardStats{Window: "7d", Conversations: 42})
	}))

	stats, err := c.DashboardStats(context.Background(), "p1", "7d")
	require.NoError(t, err)
	assert.Equal(t, 42, stats.Conversations)
}
