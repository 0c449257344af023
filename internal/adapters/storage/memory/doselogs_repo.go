package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
)

type doseLogRepo struct {
	mu sync.RWMutex
	// key: medicationID|date
	byKey map[string]adherence.DoseLog
}

func NewDoseLogRepo() adherence.Repository {
	return &doseLogRepo{
		byKey: make(map[string]adherence.DoseLog),
	}
}

func doseKey(medicationID, date string) string {
	return medicationID + "|" + date
}

func (r *doseLogRepo) Upsert(ctx context.Context, l adherence.DoseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" || l.MedicationID == "" || l.Date == "" {
		return errors.New("dose log id, medication and date required")
	}
	r.byKey[doseKey(l.MedicationID, l.Date)] = l
	return nil
}

func (r *doseLogRepo) Get(ctx context.Context, medicationID, date string) (adherence.DoseLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byKey[doseKey(medicationID, date)]
	if !ok {
		return adherence.DoseLog{}, adherence.ErrNotFound
	}
	return l, nil
}

func (r *doseLogRepo) ListByPatient(ctx context.Context, patientID, from, to string) ([]adherence.DoseLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adherence.DoseLog, 0)
	for _, l := range r.byKey {
		if l.PatientID != patientID {
			continue
		}
		// YYYY-MM-DD compara bien como string
		if l.Date < from || l.Date > to {
			continue
		}
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].MedicationID < out[j].MedicationID
	})
	return out, nil
}
