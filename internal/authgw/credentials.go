// ABOUTME: Per-origin credential cache backed by the session and durable tiers
// ABOUTME: Builds Basic headers with Latin-1 primary and UTF-8 fallback encoding

package authgw

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/2389/fold-console/internal/store"
)

// CredentialStore caches at most one authorization header per origin key.
// The in-memory map is authoritative; the session tier is a best-effort
// write-through so later commands in the same session can reuse the
// header, and the durable tier holds only the remembered username.
// Storage failures are logged and swallowed, never returned.
type CredentialStore struct {
	mu      sync.RWMutex
	headers map[string]string

	session store.KV
	durable store.KV
	logger  *slog.Logger
}

// NewCredentialStore creates a credential store over the two persistence
// tiers. Either tier may be nil, in which case that tier is skipped.
func NewCredentialStore(session, durable store.KV, logger *slog.Logger) *CredentialStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialStore{
		headers: make(map[string]string),
		session: session,
		durable: durable,
		logger:  logger.With("component", "credstore"),
	}
}

// Seed populates the cache for origin from the session tier and, failing
// that, from a username/password embedded in the console URL's authority.
// URL-embedded credentials are a legacy bootstrap convenience; URLs are
// logged and cached by many intermediaries, so they should not be relied
// on in steady state.
func (s *CredentialStore) Seed(origin string, consoleURL *url.URL) {
	if s.session != nil {
		if h, err := s.session.Get(store.KeyAuthHeaderPrefix + origin); err == nil && h != "" {
			s.mu.Lock()
			s.headers[origin] = h
			s.mu.Unlock()
			return
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("session tier read failed", "error", err)
		}
	}

	if consoleURL == nil || consoleURL.User == nil {
		return
	}
	username := consoleURL.User.Username()
	password, _ := consoleURL.User.Password()
	header, err := BasicHeader(username, password)
	if err != nil {
		s.logger.Warn("ignoring URL-embedded credential", "error", err)
		return
	}
	s.logger.Warn("seeding credential from URL authority; avoid embedding credentials in URLs")
	s.Set(origin, header)
}

// Get returns the cached header for origin, or "" when none is cached.
func (s *CredentialStore) Get(origin string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headers[origin]
}

// Set caches the header for origin and writes through to the session
// tier. An empty header is equivalent to Clear.
func (s *CredentialStore) Set(origin, header string) {
	if header == "" {
		s.Clear(origin)
		return
	}

	s.mu.Lock()
	s.headers[origin] = header
	s.mu.Unlock()

	if s.session != nil {
		if err := s.session.Set(store.KeyAuthHeaderPrefix+origin, header); err != nil {
			s.logger.Warn("session tier write failed", "error", err)
		}
	}
}

// Clear removes the cached header for origin from memory and the session tier.
func (s *CredentialStore) Clear(origin string) {
	s.mu.Lock()
	delete(s.headers, origin)
	s.mu.Unlock()

	if s.session != nil {
		if err := s.session.Delete(store.KeyAuthHeaderPrefix + origin); err != nil {
			s.logger.Warn("session tier delete failed", "error", err)
		}
	}
}

// RememberIdentity records the last successfully authenticated username
// in the durable tier. The credential itself is never stored durably.
func (s *CredentialStore) RememberIdentity(username string) {
	if s.durable == nil || username == "" {
		return
	}
	if err := s.durable.Set(store.KeyRememberedUser, username); err != nil {
		s.logger.Warn("durable tier write failed", "error", err)
	}
}

// RememberedIdentity returns the last remembered username, or "" when
// none is stored or the durable tier is unavailable.
func (s *CredentialStore) RememberedIdentity() string {
	if s.durable == nil {
		return ""
	}
	v, err := s.durable.Get(store.KeyRememberedUser)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("durable tier read failed", "error", err)
		}
		return ""
	}
	return v
}

// ForgetIdentity clears the remembered username from the durable tier.
func (s *CredentialStore) ForgetIdentity() {
	if s.durable == nil {
		return
	}
	if err := s.durable.Delete(store.KeyRememberedUser); err != nil {
		s.logger.Warn("durable tier delete failed", "error", err)
	}
}

// BasicHeader builds an HTTP Basic authorization header value from a
// username and password. RFC 7617 leaves the charset at Latin-1 unless
// negotiated otherwise, so the strict encoding is tried first; input
// outside Latin-1 falls back to raw UTF-8 bytes, which is what current
// servers generally expect. A colon in the username cannot be encoded by
// either strategy and fails.
func BasicHeader(username, password string) (string, error) {
	if strings.Contains(username, ":") {
		return "", fmt.Errorf("%w: username contains a colon", ErrNoCredential)
	}

	pair := username + ":" + password
	raw, err := encodeLatin1(pair)
	if err != nil {
		// Byte-safe fallback
		raw = []byte(pair)
	}
	return "Basic " + base64.StdEncoding.EncodeToString(raw), nil
}

// encodeLatin1 encodes s as ISO-8859-1, failing on code points above U+00FF.
func encodeLatin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("rune %q outside Latin-1", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}
