// Package metrics holds the prometheus collectors of the service. All
// Observe* methods are safe on a nil *Registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeAccepted = "accepted"
	OutcomeNotFound = "not_found"
	OutcomeExpired  = "expired"
	OutcomeRejected = "rejected"
)

type Registry struct {
	gatherer prometheus.Gatherer

	notificationsProcessed *prometheus.CounterVec
	otpOperations          *prometheus.CounterVec
	queuePublish           *prometheus.CounterVec
	httpRequests           *prometheus.CounterVec
	httpDuration           *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry when reg is nil.
func New(reg *prometheus.Registry) (*Registry, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Registry{
		gatherer: reg,
		notificationsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_processed_total",
			Help: "Notifications accepted by the pipeline, by channel and outcome.",
		}, []string{"channel", "outcome"}),
		otpOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otp_operations_total",
			Help: "OTP create/validate/delete operations, by outcome.",
		}, []string{"operation", "outcome"}),
		queuePublish: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "queue_publish_total",
			Help: "Delivery queue publish attempts, by driver and outcome.",
		}, []string{"driver", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	for _, c := range []prometheus.Collector{
		r.notificationsProcessed, r.otpOperations, r.queuePublish, r.httpRequests, r.httpDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// channelLabel keeps the label set bounded; channel is free-form input.
func channelLabel(channel string) string {
	switch channel {
	case "email", "sms", "in-app":
		return channel
	default:
		return "other"
	}
}

func (r *Registry) ObserveNotification(channel, outcome string) {
	if r == nil {
		return
	}
	r.notificationsProcessed.WithLabelValues(channelLabel(channel), outcome).Inc()
}

func (r *Registry) ObserveOtp(operation, outcome string) {
	if r == nil {
		return
	}
	r.otpOperations.WithLabelValues(operation, outcome).Inc()
}

func (r *Registry) ObservePublish(driver, outcome string) {
	if r == nil {
		return
	}
	r.queuePublish.WithLabelValues(driver, outcome).Inc()
}

// Middleware records request count and latency per route template.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		r.httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
