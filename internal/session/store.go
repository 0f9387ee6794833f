package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/anonrelay/internal/domain"
)

// Store holds per-user conversation state with TTL expiry. Implementations
// must be safe for concurrent use; callers serialize read-modify-write per
// user via Lock.
type Store interface {
	Get(ctx context.Context, userID int64) (domain.ConversationState, error)
	Set(ctx context.Context, userID int64, state domain.ConversationState) error
	Clear(ctx context.Context, userID int64) error
	// Lock returns an unlock func after acquiring the per-user mutex.
	// Overlapping messages from the same user (client retries) must not
	// interleave their state transitions.
	Lock(userID int64) func()
}

type keyedLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[int64]*sync.Mutex)}
}

func (k *keyedLocks) lock(userID int64) func() {
	k.mu.Lock()
	m, ok := k.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		k.locks[userID] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// redisStore keeps conversation state in Redis so it survives restarts.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  *keyedLocks
}

// NewRedisStore builds a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl, locks: newKeyedLocks()}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func (s *redisStore) Get(ctx context.Context, userID int64) (domain.ConversationState, error) {
	val, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.StateNone, nil
	}
	if err != nil {
		return domain.StateNone, err
	}
	return domain.ConversationState(val), nil
}

func (s *redisStore) Set(ctx context.Context, userID int64, state domain.ConversationState) error {
	return s.client.Set(ctx, sessionKey(userID), string(state), s.ttl).Err()
}

func (s *redisStore) Clear(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}

func (s *redisStore) Lock(userID int64) func() {
	return s.locks.lock(userID)
}

type memoryEntry struct {
	state     domain.ConversationState
	expiresAt time.Time
}

// memoryStore is the fallback when Redis is not configured. State is lost on
// restart, matching the original in-memory behavior.
type memoryStore struct {
	mu      sync.Mutex
	entries map[int64]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	locks   *keyedLocks
}

// NewMemoryStore builds an in-process store with TTL expiry.
func NewMemoryStore(ttl time.Duration) Store {
	return newMemoryStore(ttl, time.Now)
}

func newMemoryStore(ttl time.Duration, now func() time.Time) *memoryStore {
	return &memoryStore{
		entries: make(map[int64]memoryEntry),
		ttl:     ttl,
		now:     now,
		locks:   newKeyedLocks(),
	}
}

func (s *memoryStore) Get(ctx context.Context, userID int64) (domain.ConversationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[userID]
	if !ok {
		return domain.StateNone, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, userID)
		return domain.StateNone, nil
	}
	return entry.state, nil
}

func (s *memoryStore) Set(ctx context.Context, userID int64, state domain.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = memoryEntry{state: state, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *memoryStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}

func (s *memoryStore) Lock(userID int64) func() {
	return s.locks.lock(userID)
}
