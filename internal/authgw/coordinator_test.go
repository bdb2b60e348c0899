// ABOUTME: Tests for challenge coalescing and outcome propagation
// ABOUTME: Validates single-prompt guarantee under concurrent 401 waves

package authgw

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/fold-console/internal/store"
)

// scriptedCollector is a test double for the credential prompt. Each call
// consumes the next scripted outcome; an optional gate holds the prompt
// open until released so tests can pile up concurrent waiters.
type scriptedCollector struct {
	mu       sync.Mutex
	outcomes []collectorOutcome
	calls    atomic.Int32
	gate     chan struct{}
}

type collectorOutcome struct {
	creds Credentials
	ok    bool
	err   error
}

func (c *scriptedCollector) ShowPrompt(ctx context.Context) (Credentials, bool, error) {
	c.calls.Add(1)
	if c.gate != nil {
		<-c.gate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.outcomes) == 0 {
		return Credentials{}, false, errors.New("collector: no scripted outcome left")
	}
	out := c.outcomes[0]
	c.outcomes = c.outcomes[1:]
	return out.creds, out.ok, out.err
}

func successOutcome(username, header string) collectorOutcome {
	return collectorOutcome{creds: Credentials{Username: username, Header: header}, ok: true}
}

func newTestCoordinator(collector Collector) (*Coordinator, *CredentialStore) {
	creds := NewCredentialStore(store.NewMemoryKV(), store.NewMemoryKV(), nil)
	return NewCoordinator(testOrigin, collector, creds, nil), creds
}

func TestCoordinator_Success(t *testing.T) {
	collector := &scriptedCollector{outcomes: []collectorOutcome{
		successOutcome("ops@example", "Basic dXNlcjpwYXNz"),
	}}
	coord, creds := newTestCoordinator(collector)

	ok, err := coord.RequestChallenge(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "Basic dXNlcjpwYXNz", creds.Get(testOrigin))
	assert.Equal(t, "ops@example", creds.RememberedIdentity())
}

func TestCoordinator_Cancellation(t *testing.T) {
	collector := &scriptedCollector{outcomes: []collectorOutcome{{ok: false}}}
	coord, creds := newTestCoordinator(collector)

	ok, err := coord.RequestChallenge(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	// Cancellation leaves the store untouched
	assert.Empty(t, creds.Get(testOrigin))
	assert.Empty(t, creds.RememberedIdentity())
}

func TestCoordinator_CollectorFailure(t *testing.T) {
	boom := errors.New("prompt exploded")
	collector := &scriptedCollector{outcomes: []collectorOutcome{{err: boom}}}
	coord, creds := newTestCoordinator(collector)

	_, err := coord.RequestChallenge(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Empty(t, creds.Get(testOrigin))
}

func TestCoordinator_CoalescesConcurrentCallers(t *testing.T) {
	const waiters = 16

	collector := &scriptedCollector{
		outcomes: []collectorOutcome{successOutcome("ops@example", "Basic dXNlcjpwYXNz")},
		gate:     make(chan struct{}),
	}
	coord, _ := newTestCoordinator(collector)

	var wg sync.WaitGroup
	results := make([]bool, waiters)
	errs := make([]error, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = coord.RequestChallenge(context.Background())
		}(i)
	}

	// Wait until the first caller is inside the prompt, then give the
	// rest a moment to attach to the pending challenge.
	require.Eventually(t, func() bool { return collector.calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(collector.gate)
	wg.Wait()

	assert.Equal(t, int32(1), collector.calls.Load(), "collector must be invoked exactly once")
	for i := 0; i < waiters; i++ {
		assert.NoError(t, errs[i])
		assert.True(t, results[i], "waiter %d must observe the shared outcome", i)
	}
}

func TestCoordinator_CancellationSharedByAllWaiters(t *testing.T) {
	const waiters = 8

	collector := &scriptedCollector{
		outcomes: []collectorOutcome{{ok: false}},
		gate:     make(chan struct{}),
	}
	coord, _ := newTestCoordinator(collector)

	var wg sync.WaitGroup
	results := make([]bool, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = coord.RequestChallenge(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return collector.calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(collector.gate)
	wg.Wait()

	assert.Equal(t, int32(1), collector.calls.Load())
	for i := 0; i < waiters; i++ {
		assert.False(t, results[i])
	}
}

func TestCoordinator_FreshChallengeAfterSettlement(t *testing.T) {
	collector := &scriptedCollector{outcomes: []collectorOutcome{
		{ok: false},
		successOutcome("ops@example", "Basic dXNlcjpwYXNz"),
	}}
	coord, _ := newTestCoordinator(collector)

	ok, err := coord.RequestChallenge(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	// The pending slot was cleared on settlement; a later 401 wave
	// starts a fresh challenge rather than reusing the stale outcome.
	ok, err = coord.RequestChallenge(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, int32(2), collector.calls.Load())
}

func TestCoordinator_PromptOutlivesTriggeringCaller(t *testing.T) {
	collector := &scriptedCollector{
		outcomes: []collectorOutcome{successOutcome("ops@example", "Basic dXNlcjpwYXNz")},
		gate:     make(chan struct{}),
	}
	coord, creds := newTestCoordinator(collector)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		// The triggering caller's context is cancelled mid-challenge;
		// the challenge still runs to completion.
		_, _ = coord.RequestChallenge(ctx)
	}()

	require.Eventually(t, func() bool { return collector.calls.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()
	close(collector.gate)
	<-done

	assert.Equal(t, "Basic dXNlcjpwYXNz", creds.Get(testOrigin))
}
