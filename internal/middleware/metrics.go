package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ReactionWrites counts reaction ledger mutations by outcome (added, updated, removed).
	ReactionWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_reaction_writes_total",
		Help: "Total number of reaction ledger writes by outcome",
	}, []string{"outcome"})

	// WebSocketConnections is the gauge of active feed event stream connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ripple_websocket_connections",
		Help: "Number of active WebSocket feed connections",
	})

	// BroadcastEvents counts realtime events published to the feed channel by type.
	BroadcastEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_broadcast_events_total",
		Help: "Total number of broadcast events published by type",
	}, []string{"event_type"})

	// WebSocketDrops counts outbound messages dropped due to client backpressure.
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_websocket_dropped_messages_total",
		Help: "Total number of WebSocket messages dropped by reason",
	}, []string{"reason"})
)

// InitMetrics creates the fiberprometheus middleware for the given service name.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
