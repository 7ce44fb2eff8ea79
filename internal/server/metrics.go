// Package server exposes Prometheus metrics for the relay: connection and
// room gauges plus counters that make the silent per-peer failure policy
// observable.
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signald_connections_active",
		Help: "Number of WebSocket connections currently joined to a room.",
	})

	roomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signald_rooms_active",
		Help: "Number of rooms with at least one member.",
	})

	messagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signald_messages_relayed_total",
		Help: "Broadcast passes performed, including passes over empty rooms.",
	})

	relayFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signald_relay_send_failures_total",
		Help: "Per-peer deliveries skipped because the peer's send buffer was full.",
	})

	messagesRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signald_messages_rate_limited_total",
		Help: "Payloads dropped before broadcast because the sender exceeded its rate limit.",
	})
)
