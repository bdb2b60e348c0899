// ABOUTME: Tests for TOML crawl plan loading and crawler endpoints
// ABOUTME: Covers validation failures and default limits

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "plan.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCrawlPlan_Valid(t *testing.T) {
	path := writePlan(t, `
name = "docs-crawl"
seeds = ["https://docs.example/start", "https://docs.example/faq"]
max_depth = 2
max_pages = 100
exclude = ["/internal"]
schedule = "0 4 * * *"

[render]
strip_nav = true
strip_footer = true
selectors = ["main", "article"]
`)

	plan, err := LoadCrawlPlan(path)
	require.NoError(t, err)

	assert.Equal(t, "docs-crawl", plan.Name)
	assert.Len(t, plan.Seeds, 2)
	assert.Equal(t, 2, plan.MaxDepth)
	assert.True(t, plan.Render.StripNav)
	assert.Equal(t, []string{"main", "article"}, plan.Render.Selectors)
}

func TestLoadCrawlPlan_Defaults(t *testing.T) {
	path := writePlan(t, `
name = "minimal"
seeds = ["https://docs.example/"]
`)

	plan, err := LoadCrawlPlan(path)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.MaxDepth)
	assert.Equal(t, 500, plan.MaxPages)
}

func TestLoadCrawlPlan_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: `seeds = ["https://docs.example/"]`,
			wantErr: "name is required",
		},
		{
			name:    "no seeds",
			content: `name = "empty"`,
			wantErr: "seed URL is required",
		},
		{
			name: "relative seed",
			content: `
name = "bad-seed"
seeds = ["/not-absolute"]
`,
			wantErr: "invalid seed URL",
		},
		{
			name:    "broken toml",
			content: `name = `,
			wantErr: "parsing crawl plan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCrawlPlan(writePlan(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCrawlPlan_MissingFile(t *testing.T) {
	_, err := LoadCrawlPlan("/nonexistent/plan.toml")
	require.Error(t, err)
}

func TestClient_CrawlerEndpoints(t *testing.T) {
	var gotPlan CrawlPlan
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /api/v1/crawler/p1/status":
			json.NewEncoder(w).Encode(CrawlStatus{State: "running", PagesFetched: 12})
		case "POST /api/v1/crawler/p1/start":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPlan))
			w.WriteHeader(http.StatusAccepted)
		case "POST /api/v1/crawler/p1/stop":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()

	st, err := c.CrawlerStatus(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "running", st.State)
	assert.Equal(t, 12, st.PagesFetched)

	plan := &CrawlPlan{Name: "docs", Seeds: []string{"https://docs.example/"}, MaxDepth: 1, MaxPages: 10}
	require.NoError(t, c.StartCrawl(ctx, "p1", plan))
	assert.Equal(t, "docs", gotPlan.Name)

	require.NoError(t, c.StopCrawl(ctx, "p1"))
}
