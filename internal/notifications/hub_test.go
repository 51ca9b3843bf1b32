package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubRegisterAndBroadcast(t *testing.T) {
	t.Parallel()
	hub := NewHub()

	c1, err := hub.Register(1, nil)
	require.NoError(t, err)
	c2, err := hub.Register(1, nil)
	require.NoError(t, err)
	c3, err := hub.Register(2, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, hub.ConnectionCount())
	assert.True(t, hub.IsOnline(1))
	assert.False(t, hub.IsOnline(42))

	hub.Broadcast(1, "hello")
	assert.Equal(t, "hello", string(<-c1.Send))
	assert.Equal(t, "hello", string(<-c2.Send))
	select {
	case <-c3.Send:
		t.Fatal("user 2 should not receive user 1 events")
	default:
	}

	hub.BroadcastAll("everyone")
	assert.Equal(t, "everyone", string(<-c3.Send))

	hub.Unregister(c1)
	hub.Unregister(c2)
	assert.False(t, hub.IsOnline(1))
	assert.Equal(t, 1, hub.ConnectionCount())

	// Double unregister is a no-op.
	hub.Unregister(c1)
	assert.Equal(t, 1, hub.ConnectionCount())
}

func TestHubPerUserConnectionLimit(t *testing.T) {
	t.Parallel()
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(7, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(7, nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register(8, nil)
	assert.NoError(t, err)
}

func TestHubSlowClientDropsInsteadOfBlocking(t *testing.T) {
	t.Parallel()
	hub := NewHub()

	client, err := hub.Register(1, nil)
	require.NoError(t, err)

	// Fill the send buffer without draining it; broadcasts must not block.
	for i := 0; i < cap(client.Send)+10; i++ {
		done := make(chan struct{})
		go func() {
			hub.Broadcast(1, "burst")
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("broadcast blocked on a slow client")
		}
	}
}

func TestNotifierPublishAndSubscribe(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	received := make(chan [2]string, 4)
	require.NoError(t, n.StartSubscriber(ctx, func(channel, payload string) {
		received <- [2]string{channel, payload}
	}))

	// Let the pattern subscription settle before publishing.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, n.PublishUser(ctx, 5, `{"type":"test"}`))
	select {
	case msg := <-received:
		assert.Equal(t, UserChannel(5), msg[0])
		assert.Equal(t, `{"type":"test"}`, msg[1])
	case <-time.After(2 * time.Second):
		t.Fatal("user event not delivered")
	}

	require.NoError(t, n.PublishBroadcast(ctx, `{"type":"all"}`))
	select {
	case msg := <-received:
		assert.Equal(t, broadcastChannel, msg[0])
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast event not delivered")
	}
}

func TestNotifierWithoutRedis(t *testing.T) {
	t.Parallel()
	n := NewNotifier(nil)
	ctx := context.Background()

	assert.NoError(t, n.PublishUser(ctx, 1, "x"))
	assert.NoError(t, n.PublishBroadcast(ctx, "x"))
	assert.NoError(t, n.StartSubscriber(ctx, func(string, string) {}))
}
