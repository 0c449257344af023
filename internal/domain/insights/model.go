package insights

import "time"

const DaysPerWeek = 7

type Day struct {
	Date  time.Time
	Label string // "Mon"
}

// MedicationWeek es el registro semanal de un medicamento activo.
type MedicationWeek struct {
	MedicationID string
	Name         string
	Dosage       string

	Taken     [DaysPerWeek]bool
	TakenDays int
	Adherence float64 // porcentaje 0-100 sobre 7 días

	Remaining       int
	TotalPrescribed int
}

type DayOverview struct {
	Day    Day
	Taken  int
	Total  int
	Missed []string // "<nombre> at <franja>"
}

type WeeklySummary struct {
	PatientID   string
	PatientName string

	WeekStart time.Time
	Days      [DaysPerWeek]Day

	Medications []MedicationWeek
	Overview    [DaysPerWeek]DayOverview

	// Overall es el porcentaje de tomas hechas sobre todas las esperadas de la semana.
	Overall float64
}
