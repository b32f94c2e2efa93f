// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/constants"
)

// subscriptionBuffer absorbs short bursts while a stream is writing to a slow client.
const subscriptionBuffer = 8

// # Redis Event Bus

// RedisEventBus implements EventBus with one pub/sub channel per principal.
type RedisEventBus struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// NewEventBus creates a Redis-backed EventBus.
func NewEventBus(client redis.UniversalClient, timeout time.Duration) *RedisEventBus {
	return &RedisEventBus{client: client, timeout: timeout}
}

func eventsChannel(userID string) string { return constants.RedisPrefixEvents + userID }

// Publish sends event on the principal's channel.
func (bus *RedisEventBus) Publish(ctx context.Context, event Event) error {
	ctx, cancel := context.WithTimeout(ctx, bus.timeout)
	defer cancel()

	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis_event_encode_failed: %w", err)
	}

	if err := bus.client.Publish(ctx, eventsChannel(event.UserID), payload).Err(); err != nil {
		return apperr.DataAccess("Unable to publish the session event", err)
	}

	return nil
}

/*
Subscribe opens the principal's channel and waits for Redis to confirm it, so no
event published after Subscribe returns can be missed.

Parameters:
  - ctx: context.Context (bounds the subscription's lifetime)
  - userID: string

Returns:
  - *Subscription: Must be released with Close
  - error: DataAccess when Redis does not confirm in time
*/
func (bus *RedisEventBus) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	pubsub := bus.client.Subscribe(ctx, eventsChannel(userID))

	confirmCtx, cancel := context.WithTimeout(ctx, bus.timeout)
	defer cancel()

	if _, err := pubsub.Receive(confirmCtx); err != nil {
		_ = pubsub.Close()
		return nil, apperr.DataAccess("Unable to listen for session events", err)
	}

	messages := make(chan []byte)
	go func() {
		defer close(messages)
		for message := range pubsub.Channel() {
			select {
			case messages <- []byte(message.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	return NewSubscription(ctx, messages, pubsub.Close), nil
}

// # Subscription

// Subscription is a scoped listener on one principal's session events.
//
// # Lifetime
//
// The subscription ends when its context is cancelled or Close is called, whichever
// comes first. Close is idempotent and always releases the underlying channel; callers
// should defer it right after a successful Subscribe.
type Subscription struct {
	events  chan Event
	cancel  context.CancelFunc
	release func() error
	done    chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewSubscription decodes raw payloads into events until ctx ends or Close is called.
// release is invoked exactly once.
func NewSubscription(ctx context.Context, payloads <-chan []byte, release func() error) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	subscription := &Subscription{
		events:  make(chan Event, subscriptionBuffer),
		cancel:  cancel,
		release: release,
		done:    make(chan struct{}),
	}

	go subscription.pump(ctx, payloads)
	context.AfterFunc(ctx, func() { _ = subscription.Close() })

	return subscription
}

// Events returns the channel of decoded events. It is closed when the subscription ends.
func (subscription *Subscription) Events() <-chan Event {
	return subscription.events
}

// Close ends the subscription and releases the channel. Safe to call more than once.
func (subscription *Subscription) Close() error {
	subscription.closeOnce.Do(func() {
		subscription.cancel()
		<-subscription.done
		if subscription.release != nil {
			subscription.closeErr = subscription.release()
		}
	})
	return subscription.closeErr
}

func (subscription *Subscription) pump(ctx context.Context, payloads <-chan []byte) {
	defer close(subscription.done)
	defer close(subscription.events)

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-payloads:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal(payload, &event); err != nil {
				continue
			}
			select {
			case subscription.events <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
