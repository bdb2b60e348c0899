// ABOUTME: Project listing and settings wrappers
// ABOUTME: Projects are the per-tenant chatbot configurations

package client

import (
	"context"
	"fmt"
	"net/url"
)

// Project is a tenant chatbot project.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Language    string `json:"language"`
	Model       string `json:"model"`
	Active      bool   `json:"active"`
	ArticleCnt  int    `json:"article_count"`
	CreatedAt   string `json:"created_at"`
	Description string `json:"description,omitempty"`
}

// ProjectSettings are the mutable parts of a project.
type ProjectSettings struct {
	Name        string `json:"name,omitempty"`
	Language    string `json:"language,omitempty"`
	Model       string `json:"model,omitempty"`
	Active      *bool  `json:"active,omitempty"`
	Description string `json:"description,omitempty"`
}

type projectsResponse struct {
	Projects []Project `json:"projects"`
}

// ListProjects returns all projects visible to the authenticated admin.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var resp projectsResponse
	if err := c.get(ctx, "/api/v1/admin/projects", &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// GetProject returns a single project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := c.get(ctx, "/api/v1/admin/projects/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProjectSettings applies the given settings to a project and
// returns the updated project.
func (c *Client) UpdateProjectSettings(ctx context.Context, id string, settings ProjectSettings) (*Project, error) {
	var p Project
	path := fmt.Sprintf("/api/v1/admin/projects/%s/settings", url.PathEscape(id))
	if err := c.put(ctx, path, settings, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
