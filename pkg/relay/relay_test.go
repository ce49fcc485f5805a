package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeChannel struct {
	mu     sync.Mutex
	keys   []string
	bodies []string
	fail   bool
	closed int
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("channel closed")
	}
	f.keys = append(f.keys, exchange+"/"+key)
	f.bodies = append(f.bodies, string(msg.Body))
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeChannel) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func runPublisher(t *testing.T, p *Publisher) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, p.Run(ctx))
	}()
	return func() {
		cancel()
		<-done
	}
}

func TestPublishDeliversInOrder(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "panel.events")
	stop := runPublisher(t, p)
	defer stop()

	p.Publish("new_post", []byte(`{"op":"new_post"}`))
	p.Publish("new_payment", []byte(`{"op":"new_payment"}`))

	require.Eventually(t, func() bool { return len(ch.published()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"panel.events/new_post", "panel.events/new_payment"}, ch.published())
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "panel.events")

	for i := 0; i < queueSize+10; i++ {
		p.Publish("new_event", nil)
	}
	assert.Len(t, p.queue, queueSize)
}

func TestPublishErrorDoesNotStopRun(t *testing.T) {
	ch := &fakeChannel{fail: true}
	p := newPublisher(ch, "panel.events")
	stop := runPublisher(t, p)
	defer stop()

	p.Publish("new_post", nil)
	require.Eventually(t, func() bool { return len(p.queue) == 0 }, time.Second, 5*time.Millisecond)

	ch.mu.Lock()
	ch.fail = false
	ch.mu.Unlock()

	p.Publish("payment_updated", nil)
	require.Eventually(t, func() bool {
		for _, k := range ch.published() {
			if k == "panel.events/payment_updated" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

func TestCloseIsIdempotent(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "panel.events")

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, ch.closed)
}
