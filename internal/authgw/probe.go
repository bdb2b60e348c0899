// ABOUTME: Verification probe checking candidate credentials against the whoami endpoint
// ABOUTME: Distinguishes a clean 401 from network failure (status 0)

package authgw

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// Doer is the minimal HTTP transport contract the gateway and probe need.
// *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Probe issues a lightweight authenticated call against a fixed,
// side-effect-free whoami endpoint to validate freshly entered
// credentials before they are accepted.
type Probe struct {
	transport Doer
	url       string
	logger    *slog.Logger
}

// NewProbe creates a probe against the given absolute whoami URL.
func NewProbe(transport Doer, whoamiURL string, logger *slog.Logger) *Probe {
	if logger == nil {
		logger = slog.Default()
	}
	return &Probe{
		transport: transport,
		url:       whoamiURL,
		logger:    logger.With("component", "probe"),
	}
}

// Verify sends the candidate header to the whoami endpoint. It reports
// ok=true on a 2xx response, and carries the HTTP status otherwise; a
// network failure reports status 0 with the underlying error so callers
// can distinguish "wrong password" (401) from "server unreachable".
func (p *Probe) Verify(ctx context.Context, header string) (ok bool, status int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false, 0, err
	}
	req.Header.Set("Authorization", header)

	resp, err := p.transport.Do(req)
	if err != nil {
		p.logger.Debug("probe request failed", "error", err)
		return false, 0, err
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return true, resp.StatusCode, nil
	}
	return false, resp.StatusCode, nil
}
