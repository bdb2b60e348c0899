// ABOUTME: Knowledge-base folder and article wrappers
// ABOUTME: Renders markdown article bodies to HTML before upload

package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/yuin/goldmark"
)

// Folder is a knowledge-base folder within a project.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
	Articles int    `json:"article_count"`
}

// Article is a knowledge-base article. Body is authored as markdown; the
// platform stores the rendered HTML, so PushArticle converts before upload.
type Article struct {
	ID       string   `json:"id,omitempty"`
	FolderID string   `json:"folder_id"`
	Title    string   `json:"title"`
	Body     string   `json:"-"`
	HTML     string   `json:"html"`
	Tags     []string `json:"tags,omitempty"`
}

type foldersResponse struct {
	Folders []Folder `json:"folders"`
}

// ListFolders returns the knowledge-base folders of a project.
func (c *Client) ListFolders(ctx context.Context, projectID string) ([]Folder, error) {
	var resp foldersResponse
	path := fmt.Sprintf("/api/v1/admin/projects/%s/kb/folders", url.PathEscape(projectID))
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// PushArticle uploads an article, rendering its markdown body to HTML
// first. The returned article carries the server-assigned ID.
func (c *Client) PushArticle(ctx context.Context, projectID string, article Article) (*Article, error) {
	html, err := renderArticleHTML(article.Body)
	if err != nil {
		return nil, fmt.Errorf("rendering article %q: %w", article.Title, err)
	}
	article.HTML = html

	var created Article
	path := fmt.Sprintf("/api/v1/admin/projects/%s/kb/articles", url.PathEscape(projectID))
	if err := c.post(ctx, path, article, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteArticle removes an article from the knowledge base.
func (c *Client) DeleteArticle(ctx context.Context, projectID, articleID string) error {
	path := fmt.Sprintf("/api/v1/admin/projects/%s/kb/articles/%s",
		url.PathEscape(projectID), url.PathEscape(articleID))
	return c.del(ctx, path)
}

// renderArticleHTML converts a markdown body to HTML.
func renderArticleHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
