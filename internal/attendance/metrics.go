package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var markOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rollcall_mark_submissions_total",
	Help: "Attendance marking submissions by outcome.",
}, []string{"outcome"})
