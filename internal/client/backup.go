// ABOUTME: Backup listing, scheduling, and deletion wrappers
// ABOUTME: Backups cover a project's knowledge base and configuration

package client

import (
	"context"
	"fmt"
	"net/url"
)

// Backup is a stored project backup.
type Backup struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	SizeBytes int64  `json:"size_bytes"`
	State     string `json:"state"` // "pending" | "complete" | "failed"
	CreatedAt string `json:"created_at"`
}

// BackupSchedule configures recurring backups for a project.
type BackupSchedule struct {
	Cron      string `json:"cron"`
	Retention int    `json:"retention"`
	Enabled   bool   `json:"enabled"`
}

type backupsResponse struct {
	Backups []Backup `json:"backups"`
}

// ListBackups returns the stored backups for a project.
func (c *Client) ListBackups(ctx context.Context, projectID string) ([]Backup, error) {
	var resp backupsResponse
	path := fmt.Sprintf("/api/v1/backup/%s", url.PathEscape(projectID))
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Backups, nil
}

// ScheduleBackup sets the recurring backup schedule for a project.
func (c *Client) ScheduleBackup(ctx context.Context, projectID string, schedule BackupSchedule) error {
	path := fmt.Sprintf("/api/v1/backup/%s/schedule", url.PathEscape(projectID))
	return c.put(ctx, path, schedule, nil)
}

// DeleteBackup removes a stored backup.
func (c *Client) DeleteBackup(ctx context.Context, projectID, backupID string) error {
	path := fmt.Sprintf("/api/v1/backup/%s/%s", url.PathEscape(projectID), url.PathEscape(backupID))
	return c.del(ctx, path)
}
