package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	mu     sync.Mutex
	acked   []uint64
	nacked  []uint64
	dropped []uint64
	done    chan struct{}
}

func newFakeAck() *fakeAck {
	return &fakeAck{done: make(chan struct{}, 16)}
}

func (f *fakeAck) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	f.acked = append(f.acked, tag)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeAck) Nack(tag uint64, _ bool, requeue bool) error {
	f.mu.Lock()
	if requeue {
		f.nacked = append(f.nacked, tag)
	} else {
		f.dropped = append(f.dropped, tag)
	}
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeAck) Reject(uint64, bool) error { return nil }

func waitN(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for range n {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for ack/nack")
		}
	}
}

func TestConsume_AckAndNack(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ack := newFakeAck()
	deliveries := make(chan amqp.Delivery, 2)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("good")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("bad")}

	handler := func(body []byte) error {
		if string(body) == "bad" {
			return errors.New("fail")
		}
		return nil
	}

	go consume(ctx, deliveries, handler, log)
	waitN(t, ack.done, 2)

	ack.mu.Lock()
	defer ack.mu.Unlock()
	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
}

func TestConsume_DiscardedErrorIsNotRequeued(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ack := newFakeAck()
	deliveries := make(chan amqp.Delivery, 2)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte("not json")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 8, Body: []byte("smtp down")}

	handler := func(body []byte) error {
		if string(body) == "not json" {
			return fmt.Errorf("decode: %w", ErrDiscard)
		}
		return errors.New("dial tcp: connection refused")
	}

	go consume(ctx, deliveries, handler, log)
	waitN(t, ack.done, 2)

	ack.mu.Lock()
	defer ack.mu.Unlock()
	assert.Empty(t, ack.acked)
	assert.Equal(t, []uint64{7}, ack.dropped)
	assert.Equal(t, []uint64{8}, ack.nacked)
}

func TestConsume_StopsWhileWaitingForSlot(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	ctx, cancel := context.WithCancel(context.Background())

	ack := newFakeAck()
	ack.done = make(chan struct{}, prefetch+1)
	deliveries := make(chan amqp.Delivery, prefetch+1)
	for i := range prefetch + 1 {
		deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: uint64(i + 1)}
	}

	release := make(chan struct{})
	started := make(chan struct{}, prefetch)
	handler := func([]byte) error {
		started <- struct{}{}
		<-release
		return nil
	}

	done := make(chan struct{})
	go func() {
		consume(ctx, deliveries, handler, log)
		close(done)
	}()
	waitN(t, started, prefetch)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "consume blocked on a full semaphore after cancel")
	}
	close(release)
}

func TestConsume_BoundedConcurrency(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const total = prefetch * 3
	ack := newFakeAck()
	ack.done = make(chan struct{}, total)
	deliveries := make(chan amqp.Delivery, total)
	for i := range total {
		deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: uint64(i + 1)}
	}

	var mu sync.Mutex
	inFlight, peak := 0, 0
	handler := func([]byte) error {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	}

	go consume(ctx, deliveries, handler, log)
	waitN(t, ack.done, total)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, prefetch)
}

func TestConsume_StopsWhenDeliveryClosed(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	deliveries := make(chan amqp.Delivery)
	close(deliveries)

	done := make(chan struct{})
	go func() {
		consume(context.Background(), deliveries, func([]byte) error { return nil }, log)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "consume did not return after delivery channel closed")
	}
}
