// ABOUTME: Error values surfaced by the request gateway
// ABOUTME: Distinguishes operator cancellation from genuine failures

package authgw

import "errors"

// Gateway errors
var (
	// ErrAuthCancelled is returned when the operator declines the
	// credential prompt. It is a first-class outcome, not a network
	// failure; callers should suppress it rather than report an error.
	ErrAuthCancelled = errors.New("authentication cancelled")

	// ErrNoCredential indicates no usable credential could be built,
	// for example when both Basic header encodings fail. It is logged
	// at the point of failure and never returned from Gateway.Do.
	ErrNoCredential = errors.New("no credential available")
)
