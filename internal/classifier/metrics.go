package classifier

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nertag",
		Subsystem: "classifier",
		Name:      "requests_total",
		Help:      "Total classification requests completed",
	})

	requestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nertag",
		Subsystem: "classifier",
		Name:      "request_duration_seconds",
		Help:      "Time from admission to completion",
		Buckets:   prometheus.DefBuckets,
	})

	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nertag",
		Subsystem: "classifier",
		Name:      "queue_depth",
		Help:      "Requests waiting behind the in-flight one",
	})

	inflightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nertag",
		Subsystem: "classifier",
		Name:      "inflight_requests",
		Help:      "Requests between admission and completion (0 or 1)",
	})

	outputLines = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nertag",
		Subsystem: "engine",
		Name:      "output_lines_total",
		Help:      "Tagged sentence lines consumed from the engine",
	})

	droppedLines = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nertag",
		Subsystem: "engine",
		Name:      "dropped_lines_total",
		Help:      "Engine output lines dropped because no request was in flight",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, queueDepth, inflightGauge, outputLines, droppedLines)
}
