// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-judge/models"
)

// Message kinds
const (
	KindPhase     = "phase"
	KindPublished = "published"
)

// Message is a live announcement pushed to connected clients.
type Message struct {
	Kind   string       `json:"kind"`
	Track  models.Track `json:"track,omitempty"`
	Phase  models.Phase `json:"phase,omitempty"`
	Text   string       `json:"text"`
	Icon   string       `json:"icon"`
	SentAt time.Time    `json:"sent_at"`
}

// Observer is told how many subscribers a broadcast reached.
type Observer interface {
	ObserveBroadcast(role string, delivered, dropped int)
}

const DefaultBuffer = 16

// Hub fans messages out to in-process subscribers grouped by role.
//
// Delivery is best-effort: a subscriber whose buffer is full misses the
// message, and nothing is kept for clients that connect later.
type Hub struct {
	mu       sync.RWMutex
	subs     map[string]map[*Subscription]struct{}
	buffer   int
	observer Observer
	logger   *slog.Logger
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// SetObserver installs o; call before the hub is shared.
func (h *Hub) SetObserver(o Observer) {
	h.observer = o
}

// Subscribe registers a recipient for role until Close is called.
func (h *Hub) Subscribe(role string) *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		Role:   role,
		hub:    h,
		events: make(chan Message, h.buffer),
	}

	h.mu.Lock()
	if h.subs[role] == nil {
		h.subs[role] = make(map[*Subscription]struct{})
	}
	h.subs[role][sub] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("subscriber registered", "subscription_id", sub.ID, "role", role)
	return sub
}

// Broadcast delivers msg to every subscriber of role, or to everyone when
// role is models.RoleAll. It never blocks and returns the number of
// subscribers that received the message.
func (h *Hub) Broadcast(ctx context.Context, role string, msg Message) int {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}

	delivered, dropped := 0, 0
	h.mu.RLock()
	for subRole, subs := range h.subs {
		if role != models.RoleAll && subRole != role {
			continue
		}
		for sub := range subs {
			select {
			case sub.events <- msg:
				delivered++
			default:
				dropped++
			}
		}
	}
	h.mu.RUnlock()

	if dropped > 0 {
		h.logger.Warn("notification dropped for slow subscribers",
			"role", role, "kind", msg.Kind, "dropped", dropped)
	}
	if h.observer != nil {
		h.observer.ObserveBroadcast(role, delivered, dropped)
	}
	return delivered
}

// Count returns the number of connected subscribers for role
// (all subscribers for models.RoleAll).
func (h *Hub) Count(role string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if role != models.RoleAll {
		return len(h.subs[role])
	}
	n := 0
	for _, subs := range h.subs {
		n += len(subs)
	}
	return n
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subs[sub.Role]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, sub.Role)
		}
	}
	// Broadcast sends under the read lock, so closing here is safe.
	close(sub.events)
}

// Subscription is one connected client's view of the hub.
type Subscription struct {
	ID   string
	Role string

	hub    *Hub
	events chan Message
	once   sync.Once
}

// Events returns the channel of delivered messages. It is closed by Close.
func (s *Subscription) Events() <-chan Message {
	return s.events
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		s.hub.logger.Debug("subscriber removed", "subscription_id", s.ID, "role", s.Role)
	})
}
