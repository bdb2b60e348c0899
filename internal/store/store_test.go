// ABOUTME: Tests for both KV persistence tiers
// ABOUTME: Runs the same contract suite against MemoryKV and a real SQLite file

package store

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kvFactories builds a fresh instance of every KV implementation.
func kvFactories(t *testing.T) map[string]KV {
	t.Helper()

	sqlite, err := NewSQLiteKV(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": sqlite,
	}
}

func TestKV_GetMissing(t *testing.T) {
	for name, kv := range kvFactories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get("missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestKV_SetGet(t *testing.T) {
	for name, kv := range kvFactories(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("k", "v1"))

			v, err := kv.Get("k")
			require.NoError(t, err)
			assert.Equal(t, "v1", v)

			// Overwrite
			require.NoError(t, kv.Set("k", "v2"))
			v, err = kv.Get("k")
			require.NoError(t, err)
			assert.Equal(t, "v2", v)
		})
	}
}

func TestKV_Delete(t *testing.T) {
	for name, kv := range kvFactories(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("k", "v"))
			require.NoError(t, kv.Delete("k"))

			_, err := kv.Get("k")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting an absent key is a no-op
			assert.NoError(t, kv.Delete("k"))
		})
	}
}

func TestSQLiteKV_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := NewSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyRememberedUser, "ops@example"))
	require.NoError(t, s.Close())

	s2, err := NewSQLiteKV(path)
	require.NoError(t, err)
	defer s2.Close()

	v, err := s2.Get(KeyRememberedUser)
	require.NoError(t, err)
	assert.Equal(t, "ops@example", v)
}

func TestSQLiteKV_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "state.db")

	s, err := NewSQLiteKV(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("k", "v"))
}

func TestMemoryKV_ConcurrentAccess(t *testing.T) {
	kv := NewMemoryKV()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = kv.Set("shared", "value")
			_, _ = kv.Get("shared")
			_ = kv.Delete("other")
		}()
	}
	wg.Wait()
}
