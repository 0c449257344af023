package adherence

import (
	"strings"
	"time"
)

// DateLayout es el formato de fecha civil de los registros (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// DoseLog registra si una toma del día fue hecha o no.
// Hay a lo sumo un registro por (MedicationID, Date).
type DoseLog struct {
	ID           string
	PatientID    string
	MedicationID string

	Date  string // YYYY-MM-DD
	Taken bool

	RecordedAt time.Time
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Index permite consultar rápido date -> medicationID -> taken.
type Index map[string]map[string]bool

func IndexLogs(logs []DoseLog) Index {
	ix := Index{}
	for _, l := range logs {
		day, ok := ix[l.Date]
		if !ok {
			day = map[string]bool{}
			ix[l.Date] = day
		}
		day[l.MedicationID] = l.Taken
	}
	return ix
}

func (ix Index) Taken(date, medicationID string) bool {
	return ix[date][medicationID]
}
