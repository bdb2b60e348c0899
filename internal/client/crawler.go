// ABOUTME: Crawler control wrappers and TOML crawl plan loading
// ABOUTME: Crawl plans are authored locally and submitted with StartCrawl

package client

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/BurntSushi/toml"
)

// CrawlPlan describes what the platform crawler should fetch for a
// project. Plans are authored as local TOML files and submitted as JSON.
type CrawlPlan struct {
	Name     string      `toml:"name" json:"name"`
	Seeds    []string    `toml:"seeds" json:"seeds"`
	MaxDepth int         `toml:"max_depth" json:"max_depth"`
	MaxPages int         `toml:"max_pages" json:"max_pages"`
	Exclude  []string    `toml:"exclude" json:"exclude,omitempty"`
	Schedule string      `toml:"schedule" json:"schedule,omitempty"`
	Render   RenderRules `toml:"render" json:"render"`
}

// RenderRules control how crawled pages are turned into articles.
type RenderRules struct {
	StripNav    bool     `toml:"strip_nav" json:"strip_nav"`
	StripFooter bool     `toml:"strip_footer" json:"strip_footer"`
	Selectors   []string `toml:"selectors" json:"selectors,omitempty"`
}

// CrawlStatus is the crawler state for a project.
type CrawlStatus struct {
	State        string `json:"state"` // "idle" | "running" | "failed"
	PlanName     string `json:"plan_name,omitempty"`
	PagesFetched int    `json:"pages_fetched"`
	PagesQueued  int    `json:"pages_queued"`
	StartedAt    string `json:"started_at,omitempty"`
	LastError    string `json:"last_error,omitempty"`
}

// LoadCrawlPlan reads and validates a crawl plan from a TOML file.
func LoadCrawlPlan(path string) (*CrawlPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading crawl plan: %w", err)
	}

	var plan CrawlPlan
	if err := toml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing crawl plan: %w", err)
	}

	if plan.Name == "" {
		return nil, fmt.Errorf("crawl plan %s: name is required", path)
	}
	if len(plan.Seeds) == 0 {
		return nil, fmt.Errorf("crawl plan %s: at least one seed URL is required", path)
	}
	for _, s := range plan.Seeds {
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("crawl plan %s: invalid seed URL %q", path, s)
		}
	}
	if plan.MaxDepth <= 0 {
		plan.MaxDepth = 3
	}
	if plan.MaxPages <= 0 {
		plan.MaxPages = 500
	}
	return &plan, nil
}

// CrawlerStatus returns the current crawler state for a project.
func (c *Client) CrawlerStatus(ctx context.Context, projectID string) (*CrawlStatus, error) {
	var st CrawlStatus
	path := fmt.Sprintf("/api/v1/crawler/%s/status", url.PathEscape(projectID))
	if err := c.get(ctx, path, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// StartCrawl submits a crawl plan and starts the crawler.
func (c *Client) StartCrawl(ctx context.Context, projectID string, plan *CrawlPlan) error {
	path := fmt.Sprintf("/api/v1/crawler/%s/start", url.PathEscape(projectID))
	return c.post(ctx, path, plan, nil)
}

// StopCrawl stops any running crawl for the project.
func (c *Client) StopCrawl(ctx context.Context, projectID string) error {
	path := fmt.Sprintf("/api/v1/crawler/%s/stop", url.PathEscape(projectID))
	return c.post(ctx, path, nil, nil)
}
