package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var storeMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_mutations_total",
		Help: "Total number of applied store mutations",
	},
	[]string{"store", "op"},
)
