package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
)

type medicationRepo struct {
	mu   sync.RWMutex
	byID map[string]medications.Medication
}

func NewMedicationRepo() medications.Repository {
	return &medicationRepo{
		byID: make(map[string]medications.Medication),
	}
}

func (r *medicationRepo) Create(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medication id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return medications.ErrAlreadyExists
	}
	for _, other := range r.byID {
		if other.PatientID == m.PatientID && strings.EqualFold(other.Name, m.Name) {
			return medications.ErrAlreadyExists
		}
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicationRepo) Update(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[m.ID]; !exists {
		return medications.ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicationRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, medications.ErrNotFound
	}
	return m, nil
}

func (r *medicationRepo) GetByName(ctx context.Context, patientID, name string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.byID {
		if m.PatientID == patientID && strings.EqualFold(m.Name, strings.TrimSpace(name)) {
			return m, nil
		}
	}
	return medications.Medication{}, medications.ErrNotFound
}

func (r *medicationRepo) ListByPatient(ctx context.Context, patientID string) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if m.PatientID == patientID {
			out = append(out, m)
		}
	}
	medications.SortBySchedule(out)
	return out, nil
}

func (r *medicationRepo) AdjustStock(ctx context.Context, id string, currentDelta, totalDelta int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.ErrNotFound
	}
	m.CurrentCount = max(m.CurrentCount+currentDelta, 0)
	m.TotalPrescribed = max(m.TotalPrescribed+totalDelta, 0)
	m.UpdatedAt = at
	r.byID[id] = m
	return nil
}
