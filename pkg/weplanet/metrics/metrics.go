package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weplanet"

// Registry is the application registry; it is not the prometheus default registry
var Registry = prometheus.NewRegistry()

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// FamiliesCreated counts created families
	FamiliesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "families",
		Name:      "created_total",
		Help:      "Families created",
	})

	// FamilyJoins counts join attempts by outcome: joined, rejoined, already_member, full, invalid_code
	FamilyJoins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "families",
		Name:      "joins_total",
		Help:      "Join attempts by outcome",
	}, []string{"outcome"})

	// FamilyLeaves counts leaves by kind: member, transfer, dissolve
	FamilyLeaves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "families",
		Name:      "leaves_total",
		Help:      "Members leaving a family by kind",
	}, []string{"kind"})

	// MembersRemoved counts members removed by a creator
	MembersRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "families",
		Name:      "members_removed_total",
		Help:      "Members removed by the family creator",
	})

	// ActivitiesRecorded counts recorded eco activities by category
	ActivitiesRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activities",
		Name:      "recorded_total",
		Help:      "Eco activities recorded by category",
	}, []string{"category"})

	// BadgesAwarded counts badges granted to users
	BadgesAwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "badges",
		Name:      "awarded_total",
		Help:      "Badges awarded",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		FamiliesCreated,
		FamilyJoins,
		FamilyLeaves,
		MembersRemoved,
		ActivitiesRecorded,
		BadgesAwarded,
	)
}

// Middleware records request counts and latency per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
