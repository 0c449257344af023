package adherence

import "context"

type Repository interface {
	// Upsert inserta o reemplaza el registro de (MedicationID, Date).
	Upsert(ctx context.Context, l DoseLog) error
	Get(ctx context.Context, medicationID, date string) (DoseLog, error)
	// ListByPatient devuelve los registros con from <= date <= to, ordenados por fecha.
	ListByPatient(ctx context.Context, patientID, from, to string) ([]DoseLog, error)
}
