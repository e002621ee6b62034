// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify broadcasts live announcements to connected clients.

Clients declare a role when they connect and receive every message sent to
that role or to models.RoleAll. Delivery is best-effort and at-most-once:
there is no retry, no persistence and no catch-up for clients that were not
connected when a message was sent.

# Transports

  - Hub: in-process fan-out over buffered channels
  - RedisRelay: PUBLISH/SUBSCRIBE relay so every server instance's Hub
    receives the message

	hub := notify.NewHub(16, logger)
	sub := hub.Subscribe(models.RoleJudge)
	defer sub.Close()

	for msg := range sub.Events() {
		...
	}
*/
package notify
