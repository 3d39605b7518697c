package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	mu     sync.Mutex
	frames []MessageFrame
	err    error
}

func (c *fakeChannel) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	c.frames = append(c.frames, v.(MessageFrame))
	return nil
}

func (c *fakeChannel) received() []MessageFrame {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]MessageFrame, len(c.frames))
	copy(out, c.frames)
	return out
}

func TestHubPublishFansOutToAllUserConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())

	first := &fakeChannel{}
	second := &fakeChannel{}
	other := &fakeChannel{}

	hub.Subscribe(1, first)
	hub.Subscribe(1, second)
	hub.Subscribe(2, other)

	hub.Publish(context.Background(), 1, "Order 10 placed successfully for product 'Keyboard'.")

	require.Equal(t, []MessageFrame{{Message: "Order 10 placed successfully for product 'Keyboard'."}}, first.received())
	require.Equal(t, first.received(), second.received())
	require.Empty(t, other.received())
}

func TestHubPublishWithoutSubscribersIsNoop(t *testing.T) {
	hub := NewHub(zap.NewNop())

	require.NotPanics(t, func() {
		hub.Publish(context.Background(), 42, "hello")
	})
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())

	ch := &fakeChannel{}
	hub.Subscribe(7, ch)
	require.Equal(t, 1, hub.Subscribers(7))

	hub.Unsubscribe(7, ch)
	require.Equal(t, 0, hub.Subscribers(7))

	hub.Publish(context.Background(), 7, "late")
	require.Empty(t, ch.received())
}

func TestHubFailedWriteDoesNotBlockOthers(t *testing.T) {
	hub := NewHub(zap.NewNop())

	broken := &fakeChannel{err: errors.New("connection closed")}
	healthy := &fakeChannel{}

	hub.Subscribe(3, broken)
	hub.Subscribe(3, healthy)

	hub.Publish(context.Background(), 3, "still delivered")

	require.Equal(t, []MessageFrame{{Message: "still delivered"}}, healthy.received())
}

func TestHubConcurrentSubscribePublish(t *testing.T) {
	hub := NewHub(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			hub.Subscribe(id%5, &fakeChannel{})
		}(int64(i))
		go func(id int64) {
			defer wg.Done()
			hub.Publish(context.Background(), id%5, "msg")
		}(int64(i))
	}
	wg.Wait()
}
