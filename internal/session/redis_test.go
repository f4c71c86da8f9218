package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/appointment-assistant/internal/appointment"
	"github.com/wolfman30/appointment-assistant/internal/llm"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, 0, nil)
	ctx := context.Background()

	sess := appointment.NewSession("abc", "seed", time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC))
	sess.Append(llm.RoleUser, "Dr. Mehta")
	sess.Fields.Set(appointment.FieldDoctor, "Dr. Mehta")
	require.NoError(t, store.Save(ctx, sess))

	assert.True(t, mr.Exists("appointment:session:abc"))
	assert.Equal(t, DefaultTTL, mr.TTL("appointment:session:abc"))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sess.Messages, got.Messages)
	assert.Equal(t, sess.Fields, got.Fields)
	assert.True(t, sess.CreatedAt.Equal(got.CreatedAt))
}

func TestRedisStoreMissingAndExpired(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, time.Minute, nil)
	ctx := context.Background()

	_, err := store.Load(ctx, "nope")
	assert.ErrorIs(t, err, appointment.ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, appointment.NewSession("short", "seed", time.Now())))
	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, "short")
	assert.ErrorIs(t, err, appointment.ErrSessionNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, 0, nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, appointment.NewSession("gone", "seed", time.Now())))
	require.NoError(t, store.Delete(ctx, "gone"))
	assert.False(t, mr.Exists("appointment:session:gone"))
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, 0, nil)

	require.NoError(t, mr.Set("appointment:session:bad", "{not json"))
	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, appointment.ErrSessionNotFound)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, 0, nil)
	mr.Close()

	_, err := store.Load(context.Background(), "any")
	require.Error(t, err)
	assert.NotErrorIs(t, err, appointment.ErrSessionNotFound)
}

func TestNewRedisStorePanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() { NewRedisStore(nil, 0, nil) })
}
