// Package metrics expone los contadores Prometheus del tracker.
// Sin IDs de paciente ni de medicamento en labels (cardinalidad acotada).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DosesRecordedTotal cuenta tomas registradas, por resultado (taken/missed).
	DosesRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medtracker_doses_recorded_total",
		Help: "Total number of dose log entries recorded, by outcome.",
	}, []string{"outcome"})

	// RemindersSentTotal cuenta recordatorios entregados, por franja y canal.
	RemindersSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medtracker_reminders_sent_total",
		Help: "Total number of reminders delivered, by time-of-day slot and channel.",
	}, []string{"slot", "channel"})

	// ReminderFailuresTotal cuenta entregas fallidas, por canal.
	ReminderFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medtracker_reminder_failures_total",
		Help: "Total number of reminder deliveries that failed, by channel.",
	}, []string{"channel"})

	// ReportsSavedTotal cuenta reportes semanales escritos a disco.
	ReportsSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medtracker_reports_saved_total",
		Help: "Total number of weekly reports written to disk.",
	})
)

func RecordDose(taken bool) {
	outcome := "missed"
	if taken {
		outcome = "taken"
	}
	DosesRecordedTotal.WithLabelValues(outcome).Inc()
}

func RecordReminder(slot, channel string, err error) {
	if err != nil {
		ReminderFailuresTotal.WithLabelValues(channel).Inc()
		return
	}
	RemindersSentTotal.WithLabelValues(slot, channel).Inc()
}
