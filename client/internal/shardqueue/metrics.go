package shardqueue

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "cooking_helper_client"
	metricsSubsystem = "shardqueue"
)

func shardCounter(name, help string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: metricsSubsystem, Name: name, Help: help,
	}, []string{"shard"})
}

var (
	submissionsTotal = shardCounter("submissions_total", "Jobs accepted onto a shard queue.")
	queueFullTotal   = shardCounter("queue_full_total", "Submits rejected because the shard queue stayed full.")
	jobFailuresTotal = shardCounter("job_failures_total", "Jobs that settled with an error after their last attempt.")

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: metricsSubsystem,
		Name:    "run_duration_seconds",
		Help:    "Time spent in a single Run attempt.",
		Buckets: prometheus.DefBuckets,
	}, []string{"shard"})

	// Written only by the owning worker goroutine.
	queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Subsystem: metricsSubsystem,
		Name: "queue_depth",
		Help: "Jobs waiting on each shard queue.",
	}, []string{"shard"})
)

func labelFor(i int) string { return strconv.Itoa(i) }
