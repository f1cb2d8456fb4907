package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	wsConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Total number of WebSocket connections",
		},
	)

	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	chatMessagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Total number of chat messages sent",
		},
		[]string{"kind"},
	)

	chatRoomsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_rooms_created_total",
			Help: "Total number of chat rooms created",
		},
		[]string{"room_kind"},
	)

	invitationsSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_invitations_sent_total",
			Help: "Total number of room invitations sent",
		},
	)

	supportRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_support_requests_total",
			Help: "Total number of support requests created",
		},
		[]string{"priority"},
	)
)

// MetricsMiddleware returns a Gin middleware that collects Prometheus metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpRequestsInFlight.Inc()

		c.Next()

		httpRequestsInFlight.Dec()
		duration := time.Since(start).Seconds()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// MetricsHandler returns the Prometheus metrics handler for Gin
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordWebSocketConnection increments WebSocket connection counters
func RecordWebSocketConnection() {
	wsConnectionsTotal.Inc()
	wsActiveConnections.Inc()
}

// RecordWebSocketDisconnection decrements active WebSocket connection gauge
func RecordWebSocketDisconnection() {
	wsActiveConnections.Dec()
}

// RecordMessageSent increments the chat message counter
func RecordMessageSent(kind string) {
	chatMessagesSentTotal.WithLabelValues(kind).Inc()
}

// RecordRoomCreated increments the room creation counter
func RecordRoomCreated(roomKind string) {
	chatRoomsCreatedTotal.WithLabelValues(roomKind).Inc()
}

// RecordInvitationSent increments the invitation counter
func RecordInvitationSent() {
	invitationsSentTotal.Inc()
}

// RecordSupportRequest increments the support request counter
func RecordSupportRequest(priority string) {
	supportRequestsTotal.WithLabelValues(priority).Inc()
}
