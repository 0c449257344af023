package notify

import (
	"context"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/reminders"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/logger"
)

// LogNotifier escribe el recordatorio en el log; es el canal por defecto.
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(ctx context.Context, r reminders.Reminder) error {
	n.log.Info(r.Message(), map[string]any{
		"patient":    r.PatientName,
		"medication": r.MedicationName,
		"dosage":     r.Dosage,
		"slot":       string(r.Slot),
		"date":       r.Date,
	})
	return nil
}
