package medications

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, m Medication) error
	Update(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	GetByName(ctx context.Context, patientID, name string) (Medication, error)
	ListByPatient(ctx context.Context, patientID string) ([]Medication, error)

	// AdjustStock suma deltas a current_count/total_prescribed en una sola operación.
	// current_count nunca queda por debajo de 0.
	AdjustStock(ctx context.Context, id string, currentDelta, totalDelta int, at time.Time) error
}
