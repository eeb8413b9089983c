package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahkan_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ApprovalTransitions counts approval row status transitions by target status.
	ApprovalTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahkan_approval_transitions_total",
		Help: "Total number of approval status transitions by resulting status",
	}, []string{"status"})

	// ProcessesFinalized counts files whose active process reached full approval.
	ProcessesFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sahkan_processes_finalized_total",
		Help: "Total number of processes where every approver approved",
	})

	// DriveCallErrors counts failed calls to the external drive store by operation.
	DriveCallErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahkan_drive_call_errors_total",
		Help: "Total number of failed drive store calls by operation",
	}, []string{"operation"})

	// DriveCallLatency records drive store call latency by operation.
	DriveCallLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sahkan_drive_call_latency_seconds",
		Help:    "External drive store call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
