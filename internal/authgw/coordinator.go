// ABOUTME: Challenge coordinator coalescing concurrent 401s into one prompt
// ABOUTME: Uses singleflight so all waiters share a single collector outcome

package authgw

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Credentials is the verified outcome of a successful prompt.
type Credentials struct {
	Username string
	Header   string
}

// Collector gathers credentials from the operator. Implementations prompt
// for a username and password, verify them with the Probe, and loop until
// the operator submits valid credentials or cancels.
type Collector interface {
	// ShowPrompt displays the credential prompt, pre-filled with the
	// remembered identity. It returns the verified credentials on
	// success, ok=false on explicit cancellation, and a non-nil error
	// only on unexpected failure.
	ShowPrompt(ctx context.Context) (creds Credentials, ok bool, err error)
}

// Coordinator ensures at most one re-authentication workflow is active
// per origin. Concurrent callers observing a 401 attach to the pending
// challenge and resume with its outcome; the pending slot is cleared
// before any waiter resumes, so a later 401 wave starts a fresh challenge.
type Coordinator struct {
	origin    string
	collector Collector
	creds     *CredentialStore
	logger    *slog.Logger

	group singleflight.Group
}

// NewCoordinator creates a coordinator for the given origin.
func NewCoordinator(origin string, collector Collector, creds *CredentialStore, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		origin:    origin,
		collector: collector,
		creds:     creds,
		logger:    logger.With("component", "challenge"),
	}
}

// challengeResult carries the shared boolean outcome through singleflight.
type challengeResult struct {
	ok bool
}

// RequestChallenge runs (or attaches to) the shared challenge for this
// coordinator's origin. It returns true when credentials were obtained
// and stored, false when the operator cancelled, and an error when the
// collector itself failed. Exactly one prompt is visible at a time no
// matter how many callers are waiting.
func (c *Coordinator) RequestChallenge(ctx context.Context) (bool, error) {
	v, err, shared := c.group.Do(c.origin, func() (interface{}, error) {
		// A started challenge runs to completion even if the request
		// that triggered it goes away; other waiters still need the
		// outcome.
		promptCtx := context.WithoutCancel(ctx)

		creds, ok, err := c.collector.ShowPrompt(promptCtx)
		if err != nil {
			c.logger.Error("credential prompt failed", "error", err)
			return nil, err
		}
		if !ok {
			c.logger.Info("authentication cancelled by operator")
			return challengeResult{ok: false}, nil
		}

		c.creds.Set(c.origin, creds.Header)
		c.creds.RememberIdentity(creds.Username)
		c.logger.Info("credentials updated", "origin", c.origin, "username", creds.Username)
		return challengeResult{ok: true}, nil
	})
	if err != nil {
		return false, err
	}

	res := v.(challengeResult)
	if shared {
		c.logger.Debug("attached to pending challenge", "origin", c.origin, "ok", res.ok)
	}
	return res.ok, nil
}
