// Package metrics holds the Prometheus collectors of the gateway.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Connections
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connections_active",
		Help: "The current number of open WebSocket connections.",
	})
	TotalConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ws_connections_total",
		Help: "The total number of WebSocket connections accepted.",
	})
	OnlineUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "presence_online_entries",
		Help: "Authenticated connections tracked in the presence registry.",
	})

	// Events
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_events_received_total",
		Help: "Inbound client events by namespace.",
	}, []string{"namespace"})
	EventsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_events_rejected_total",
		Help: "Inbound events that never reached a handler.",
	}, []string{"reason"})
	SendQueueFull = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ws_send_queue_full_total",
		Help: "Outbound events dropped because a client queue was full.",
	})

	// State
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rooms_active",
		Help: "Chat rooms currently held in memory.",
	})
	ActiveQuizSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quiz_sessions_active",
		Help: "Quiz sessions currently held in memory.",
	})
	ContactsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contacts_submitted_total",
		Help: "Support tickets submitted.",
	})
	ContactsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contacts_resolved_total",
		Help: "Support tickets resolved.",
	})
	SweptEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_reaped_total",
		Help: "Idle entries removed by the cleanup sweeper.",
	}, []string{"kind"})

	// Auth
	AuthResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_handshakes_total",
		Help: "Connection handshakes by identity outcome.",
	}, []string{"result"})

	// Broker
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broker_events_published_total",
		Help: "Domain events delivered to a sink.",
	}, []string{"sink"})
	PublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broker_publish_failures_total",
		Help: "Domain events a sink failed to accept after retries.",
	}, []string{"sink"})
	PublishRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broker_publish_retries_total",
		Help: "Retries when publishing to a sink.",
	}, []string{"sink"})
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broker_events_dropped_total",
		Help: "Domain events dropped because the publish queue was full.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
