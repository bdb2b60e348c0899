// ABOUTME: Operational dashboard statistics wrapper
// ABOUTME: Aggregated usage counters for a project over a time window

package client

import (
	"context"
	"fmt"
	"net/url"
)

// DashboardStats are the aggregated counters shown on the dashboards.
type DashboardStats struct {
	Window          string  `json:"window"`
	Conversations   int     `json:"conversations"`
	Messages        int     `json:"messages"`
	UniqueVisitors  int     `json:"unique_visitors"`
	AvgResponseSecs float64 `json:"avg_response_secs"`
	TokensUsed      int64   `json:"tokens_used"`
	EscalationRate  float64 `json:"escalation_rate"`
}

// DashboardStats returns usage statistics for a project. window is one of
// the server-understood ranges, e.g. "24h", "7d", "30d".
func (c *Client) DashboardStats(ctx context.Context, projectID, window string) (*DashboardStats, error) {
	var stats DashboardStats
	path := fmt.Sprintf("/api/v1/admin/projects/%s/stats?window=%s",
		url.PathEscape(projectID), url.QueryEscape(window))
	if err := c.get(ctx, path, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
