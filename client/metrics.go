package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cooking_helper_client",
			Name:      "dispatched_total",
			Help:      "Writes accepted into the shard executor.",
		},
		[]string{"shard"},
	)

	dispatchFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cooking_helper_client",
			Name:      "dispatch_failures_total",
			Help:      "Dispatched writes that settled with an error.",
		},
		[]string{"shard"},
	)
)
