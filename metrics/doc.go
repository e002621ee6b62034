// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exports Prometheus metrics for submissions, publications,
// phase changes and notification delivery. Metrics are served from a
// dedicated registry at /metrics.
package metrics
