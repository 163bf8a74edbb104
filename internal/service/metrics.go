package service

import "github.com/prometheus/client_golang/prometheus"

var (
	remindersTriggeredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_triggered_total",
			Help: "Total number of reminders fired by the job registry",
		},
	)
	schedulingFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_scheduling_failures_total",
			Help: "Total number of schedule requests rejected by the job registry",
		},
	)
	successorsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_successors_created_total",
			Help: "Total number of recurring successor reminders created at trigger time",
		},
	)
)

func init() {
	prometheus.MustRegister(remindersTriggeredTotal, schedulingFailuresTotal, successorsCreatedTotal)
}
