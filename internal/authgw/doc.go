// Package authgw provides the authenticated request gateway for fold-console.
//
// Every outbound API call goes through the Gateway, which decides whether the
// target URL is a protected resource, attaches the cached credential, and
// transparently drives a single shared re-authentication flow when the server
// rejects a request.
//
// # Components
//
//   - Classifier: matches request URLs against the configured protected
//     prefix set. Unprotected calls bypass the gateway entirely.
//
//   - CredentialStore: per-origin cache of the Authorization header, backed
//     by a session-scoped tier, plus the durable "remembered username" hint
//     used to pre-fill the credential prompt.
//
//   - Coordinator: coalesces concurrent 401s into one challenge. However
//     many requests are in flight when credentials expire, the operator
//     sees exactly one prompt, and every waiting request resumes with the
//     same outcome.
//
//   - Probe: verifies candidate credentials against a side-effect-free
//     whoami endpoint before they are accepted.
//
//   - Gateway: the Doer wrapper tying it together with retry-once
//     semantics.
//
// # Challenge Outcomes
//
// A challenge has three terminal states:
//
//   - credentials obtained and stored: waiting requests retry once
//   - operator cancelled: waiting requests fail with ErrAuthCancelled
//   - collector failure: waiting requests fail with the wrapped error
//
// Cancellation is deliberate and distinguishable (errors.Is against
// ErrAuthCancelled) so callers can stay quiet about it instead of
// reporting a network failure.
//
// # Credential Lifecycle
//
// A cached credential is created when a challenge succeeds, or seeded at
// startup from the session tier or from a username/password embedded in
// the configured console URL. It is cleared on a 403 (the server judged
// it forbidden), on a 401 that survives a successful challenge (stale for
// this resource), and on explicit logout.
package authgw
