// Package client provides typed wrappers over the fold platform admin API.
//
// All calls go through the authenticated request gateway, so any wrapper
// can transparently trigger (or join) a re-authentication challenge when
// the server answers 401. The wrappers themselves stay thin: build the
// request, decode the JSON, map non-2xx responses to *APIError.
//
// # Surfaces
//
//   - Me: session identity, also the verification probe endpoint
//   - Projects: listing and settings for tenant projects
//   - Knowledge: folder listing and article push/delete for the knowledge base
//   - Crawler: status and start/stop with TOML-authored crawl plans
//   - Backups: listing, scheduling, deletion
//   - Voice: voice-model training status and kickoff
//   - Dashboard: usage statistics for the operational dashboards
package client
