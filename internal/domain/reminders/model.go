package reminders

import (
	"context"
	"fmt"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
)

// DoseStatus es el estado de un medicamento activo para un día.
type DoseStatus struct {
	Medication medications.Medication
	Taken      bool
	Details    string // "1 pill (Morning)"
	Reminder   string // "REMINDER: Take X at Morning" o "Taken"
}

// Reminder es un aviso a entregar por los Notifier.
type Reminder struct {
	PatientID      string
	PatientName    string
	MedicationID   string
	MedicationName string
	Dosage         string
	Slot           medications.TimeOfDay
	Date           string
}

func (r Reminder) Message() string {
	return reminderText(r.MedicationName, r.Slot)
}

// Notifier entrega recordatorios (log, webhook, ...).
type Notifier interface {
	Name() string
	Notify(ctx context.Context, r Reminder) error
}

func reminderText(name string, slot medications.TimeOfDay) string {
	return fmt.Sprintf("REMINDER: Take %s at %s", name, slot.Label())
}

func missedText(name string, slot medications.TimeOfDay) string {
	return fmt.Sprintf("%s at %s", name, slot.Label())
}
