package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/anonrelay/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	state, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, state)

	require.NoError(t, store.Set(ctx, 1, domain.StateAwaitingAlias))
	state, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingAlias, state)

	require.NoError(t, store.Clear(ctx, 1))
	state, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, state)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	store := newMemoryStore(10*time.Minute, func() time.Time { return now })

	require.NoError(t, store.Set(ctx, 7, domain.StateAwaitingSubmission))

	now = now.Add(9 * time.Minute)
	state, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingSubmission, state)

	now = now.Add(2 * time.Minute)
	state, err = store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, state, "entry past TTL reads as no session")
}

func TestLockSerializesPerUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := store.Lock(42)
			defer unlock()

			state, err := store.Get(ctx, 42)
			require.NoError(t, err)
			if state == domain.StateNone {
				require.NoError(t, store.Set(ctx, 42, domain.StateAwaitingSubmission))
			}
		}(i)
	}
	wg.Wait()

	state, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingSubmission, state)
}

func TestLockIndependentUsers(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	unlockA := store.Lock(1)
	done := make(chan struct{})
	go func() {
		unlockB := store.Lock(2)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different user should not block")
	}
	unlockA()
}
