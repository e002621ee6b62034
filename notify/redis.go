// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const relayQueueSize = 256

// ChannelName returns the Redis channel notifications for an event travel on.
func ChannelName(eventName string) string {
	return fmt.Sprintf("quickly-judge:%s:notifications", eventName)
}

type envelope struct {
	Role    string  `json:"role"`
	Message Message `json:"message"`
}

// RedisRelay fans notifications out across server instances. Broadcast
// queues the message for PUBLISH; Run subscribes to the channel and hands
// every received message to the local Hub, including messages this
// instance published itself.
type RedisRelay struct {
	rdb     *redis.Client
	channel string
	local   *Hub
	queue   chan envelope
	ready   chan struct{}
	logger  *slog.Logger
}

func NewRedisRelay(rdb *redis.Client, eventName string, local *Hub, logger *slog.Logger) (*RedisRelay, error) {
	if eventName == "" {
		return nil, fmt.Errorf("event name cannot be empty")
	}
	if local == nil {
		return nil, fmt.Errorf("local hub is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRelay{
		rdb:     rdb,
		channel: ChannelName(eventName),
		local:   local,
		queue:   make(chan envelope, relayQueueSize),
		ready:   make(chan struct{}),
		logger:  logger,
	}, nil
}

// Broadcast queues msg for publishing and returns immediately. Recipients
// are counted by the local hubs, so the return value is always zero.
func (r *RedisRelay) Broadcast(ctx context.Context, role string, msg Message) int {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	select {
	case r.queue <- envelope{Role: role, Message: msg}:
	default:
		r.logger.Warn("notification relay queue full, message dropped",
			"role", role, "kind", msg.Kind)
	}
	return 0
}

// Ready is closed once the relay's subscription is active.
func (r *RedisRelay) Ready() <-chan struct{} {
	return r.ready
}

// Run subscribes to the event channel and pumps messages in both directions
// until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.rdb.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Wait for confirmation so nothing published after Ready is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	close(r.ready)
	r.logger.Info("notification relay subscribed", "channel", r.channel)

	incoming := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil

		case env := <-r.queue:
			payload, err := json.Marshal(env)
			if err != nil {
				r.logger.Error("failed to marshal notification", "error", err)
				continue
			}
			if err := r.rdb.Publish(ctx, r.channel, payload).Err(); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				r.logger.Error("failed to publish notification", "error", err, "role", env.Role)
			}

		case m, ok := <-incoming:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
				r.logger.Warn("ignoring malformed notification", "error", err)
				continue
			}
			r.local.Broadcast(ctx, env.Role, env.Message)
		}
	}
}
