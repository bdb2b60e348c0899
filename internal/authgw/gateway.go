// ABOUTME: Request gateway wrapping the HTTP transport with credential attachment
// ABOUTME: Drives the shared challenge on 401 and retries the request exactly once

package authgw

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// Gateway wraps an HTTP transport. Protected requests get the cached
// credential attached and a single shared challenge/retry on 401;
// unprotected requests are delegated untouched. Gateway itself satisfies
// Doer, so it drops in wherever an *http.Client was used.
type Gateway struct {
	transport   Doer
	classifier  *Classifier
	creds       *CredentialStore
	coordinator *Coordinator
	logger      *slog.Logger
}

// New creates a gateway over the given transport and collaborators.
func New(transport Doer, classifier *Classifier, creds *CredentialStore, coordinator *Coordinator, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		transport:   transport,
		classifier:  classifier,
		creds:       creds,
		coordinator: coordinator,
		logger:      logger.With("component", "gateway"),
	}
}

// Do executes the request. For unprotected URLs this is a straight
// delegation with no credential machinery involved. For protected URLs:
//
//  1. Attach the cached Authorization header unless the caller set one.
//  2. On 403, clear the cached credential (demotion) and return as-is.
//  3. On 401, run (or join) the shared challenge. Cancellation surfaces
//     as ErrAuthCancelled, never as a generic failure.
//  4. After a successful challenge, retry exactly once. A second 401
//     clears the now-stale credential and is returned without another
//     challenge.
func (g *Gateway) Do(req *http.Request) (*http.Response, error) {
	if !g.classifier.RequiresAuth(req.URL.String()) {
		return g.transport.Do(req)
	}

	origin := g.classifier.Origin()

	if err := ensureReplayableBody(req); err != nil {
		return nil, fmt.Errorf("buffering request body: %w", err)
	}

	resp, err := g.attempt(req, origin)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		if resp.StatusCode == http.StatusForbidden {
			g.logger.Info("credential rejected with 403, clearing", "origin", origin, "url", req.URL.Path)
			g.creds.Clear(origin)
		}
		return resp, nil
	}

	drainAndClose(resp)

	ok, err := g.coordinator.RequestChallenge(req.Context())
	if err != nil {
		return nil, fmt.Errorf("authentication challenge: %w", err)
	}
	if !ok {
		return nil, ErrAuthCancelled
	}

	retry, err := g.attempt(req, origin)
	if err != nil {
		return nil, err
	}
	if retry.StatusCode == http.StatusUnauthorized {
		// The credential passed verification but this resource still
		// rejects it. Treat it as stale and stop; a second challenge
		// here would loop forever.
		g.logger.Warn("401 after successful challenge, clearing credential", "origin", origin, "url", req.URL.Path)
		g.creds.Clear(origin)
	}
	return retry, nil
}

// attempt clones the request, attaches the cached credential without
// overwriting a caller-supplied Authorization header, tags the attempt
// with a request ID, and executes it.
func (g *Gateway) attempt(req *http.Request, origin string) (*http.Response, error) {
	r := req.Clone(req.Context())

	if r.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replaying request body: %w", err)
		}
		r.Body = body
	}

	if r.Header.Get("Authorization") == "" {
		if header := g.creds.Get(origin); header != "" {
			r.Header.Set("Authorization", header)
		}
	}
	r.Header.Set("X-Request-Id", uuid.New().String())

	return g.transport.Do(r)
}

// ensureReplayableBody makes req.Body re-sendable so the single retry can
// resend it. Requests built with http.NewRequest from a bytes/strings
// reader already carry GetBody; anything else gets buffered in memory.
func ensureReplayableBody(req *http.Request) error {
	if req.Body == nil || req.GetBody != nil {
		return nil
	}

	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return err
	}

	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil
}

// drainAndClose discards the response body so the underlying connection
// can be reused for the retry.
func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
