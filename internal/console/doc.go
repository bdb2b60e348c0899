// Package console holds the interactive pieces of fold-console: the
// terminal credential prompt the gateway's challenge coordinator invokes
// when the platform rejects a request.
//
// The prompt satisfies the same two-outcome contract as any other
// collector: verified credentials on success, a clean false on operator
// cancellation. Verification happens inside the prompt loop, so invalid
// credentials keep the prompt open instead of failing the waiting
// requests.
package console
