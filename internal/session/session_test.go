package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = Identity{UserID: 7, Username: "alice", IsAdmin: true}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), alice)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, alice, got)
}

func TestManagerIssueResolveRevoke(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), "test-secret", time.Hour)

	token, err := m.Issue(ctx, alice)
	require.NoError(t, err)

	got, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	require.NoError(t, m.Revoke(ctx, token))
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManagerRejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, "test-secret", time.Hour)
	other := NewManager(store, "another-secret", time.Hour)

	token, err := other.Issue(ctx, alice)
	require.NoError(t, err)

	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = m.Resolve(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, m.Revoke(ctx, "not-a-token"))
}

func TestManagerExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	m := NewManager(store, "test-secret", time.Hour)
	m.now = func() time.Time { return now }

	token, err := m.Issue(ctx, alice)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "abc", alice, time.Minute))
	got, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	now = now.Add(time.Minute)
	_, err = s.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	s := NewRedisStore(client)
	require.NoError(t, s.Save(ctx, "test-session", alice, time.Minute))
	got, err := s.Load(ctx, "test-session")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	require.NoError(t, s.Delete(ctx, "test-session"))
	_, err = s.Load(ctx, "test-session")
	assert.ErrorIs(t, err, ErrNoSession)
}
