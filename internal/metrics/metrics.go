package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersProcessed counts batch-loop outcomes by final status
	OrdersProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rushreport",
		Name:      "orders_processed_total",
		Help:      "Orders advanced by the fulfillment loop, by final status.",
	}, []string{"status"})

	// GenerationDuration observes provider call latency
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rushreport",
		Name:      "generation_duration_seconds",
		Help:      "Report generation latency.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// DeliveryFailures counts swallowed email transmission failures
	DeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rushreport",
		Name:      "delivery_failures_total",
		Help:      "Report delivery emails that failed to send.",
	})
)
