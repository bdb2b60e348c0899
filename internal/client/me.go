// ABOUTME: Session identity endpoint wrapper
// ABOUTME: Also serves as the side-effect-free verification probe target

package client

import "context"

// Identity describes the authenticated admin session.
type Identity struct {
	Username  string   `json:"username"`
	TenantID  string   `json:"tenant_id"`
	Roles     []string `json:"roles"`
	ExpiresAt string   `json:"expires_at,omitempty"`
}

// Me returns the identity behind the current credentials.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := c.get(ctx, "/api/v1/admin/session", &id); err != nil {
		return nil, err
	}
	return &id, nil
}
