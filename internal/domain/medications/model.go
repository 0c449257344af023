package medications

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay es la franja del día en que se toma el medicamento.
// @Enum morning, afternoon, evening, bedtime, as_needed
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Bedtime   TimeOfDay = "bedtime"
	AsNeeded  TimeOfDay = "as_needed"
)

// Slots en orden cronológico; as_needed siempre al final.
var Slots = []TimeOfDay{Morning, Afternoon, Evening, Bedtime, AsNeeded}

// ParseTimeOfDay acepta el código ("bedtime") o la etiqueta ("Bedtime", "As needed").
// Cualquier otro valor cae en as_needed.
func ParseTimeOfDay(s string) TimeOfDay {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, " ", "_")
	for _, t := range Slots {
		if v == string(t) {
			return t
		}
	}
	return AsNeeded
}

// FromMenuChoice traduce la opción 1-4 del menú de consola.
func FromMenuChoice(choice string) TimeOfDay {
	switch strings.TrimSpace(choice) {
	case "1":
		return Morning
	case "2":
		return Afternoon
	case "3":
		return Evening
	case "4":
		return Bedtime
	default:
		return AsNeeded
	}
}

func (t TimeOfDay) Label() string {
	switch t {
	case Morning:
		return "Morning"
	case Afternoon:
		return "Afternoon"
	case Evening:
		return "Evening"
	case Bedtime:
		return "Bedtime"
	default:
		return "As needed"
	}
}

func (t TimeOfDay) Order() int {
	for i, s := range Slots {
		if s == t {
			return i
		}
	}
	return len(Slots)
}

type Status string

const (
	StatusActive       Status = "active"
	StatusDiscontinued Status = "discontinued"
)

type Medication struct {
	ID        string
	PatientID string

	Name      string
	Dosage    string // "1 pill", "5ml"
	TimeOfDay TimeOfDay

	CurrentCount    int
	TotalPrescribed int

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Medication) Active() bool {
	return m.Status != StatusDiscontinued
}

// Describe devuelve la línea de listado: "Aspirin - 1 pill at Morning (29 left)".
func Describe(m Medication) string {
	return fmt.Sprintf("%s - %s at %s (%d left)", m.Name, m.Dosage, m.TimeOfDay.Label(), m.CurrentCount)
}
