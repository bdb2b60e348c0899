// ABOUTME: Key/value storage contracts for the console's persistence tiers
// ABOUTME: Session tier holds the cached credential, durable tier the remembered username

package store

import "errors"

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("store: key not found")

// KV is the minimal key/value contract shared by both persistence tiers.
// Implementations may fail (disabled storage, I/O errors); callers that
// treat persistence as best-effort are expected to log and continue.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Well-known keys. The credential header key is suffixed with the origin
// key so one store can serve multiple origins.
const (
	KeyAuthHeaderPrefix = "auth_header:"
	KeyRememberedUser   = "remembered_user"
)
