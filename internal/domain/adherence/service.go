package adherence

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/metrics"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("dose log not found")
	ErrDiscontinued = errors.New("medication discontinued")
)

// MedicationStock es lo que adherence necesita de medications.
type MedicationStock interface {
	Get(ctx context.Context, id string) (medications.Medication, error)
	ConsumeDose(ctx context.Context, id string) (medications.Medication, error)
}

type Service struct {
	repo  Repository
	stock MedicationStock
	now   func() time.Time

	// serializa lectura previa + upsert + descuento de stock
	mu sync.Mutex
}

func NewService(repo Repository, stock MedicationStock) *Service {
	return &Service{
		repo:  repo,
		stock: stock,
		now:   time.Now,
	}
}

type RecordResult struct {
	Log        DoseLog
	Medication medications.Medication
}

// Record marca la toma del día como hecha (taken=true) o perdida (taken=false).
// El stock se descuenta solo en la transición a tomada; repetir no descuenta dos veces
// y marcar perdida después de tomada no devuelve la unidad. Un medicamento suspendido
// no admite registros nuevos (ErrDiscontinued).
func (s *Service) Record(ctx context.Context, patientID, medicationID, date string, taken bool) (RecordResult, error) {
	patientID = strings.TrimSpace(patientID)
	medicationID = strings.TrimSpace(medicationID)
	if patientID == "" || medicationID == "" {
		return RecordResult{}, ErrInvalidInput
	}
	day, err := ParseDate(date)
	if err != nil {
		return RecordResult{}, ErrInvalidInput
	}
	date = FormatDate(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.stock.Get(ctx, medicationID)
	if err != nil {
		if errors.Is(err, medications.ErrNotFound) {
			return RecordResult{}, medications.ErrNotFound
		}
		return RecordResult{}, err
	}
	if m.PatientID != patientID {
		return RecordResult{}, medications.ErrNotFound
	}
	if !m.Active() {
		return RecordResult{}, ErrDiscontinued
	}

	prev, err := s.repo.Get(ctx, medicationID, date)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return RecordResult{}, err
	}
	wasTaken := err == nil && prev.Taken

	l := DoseLog{
		ID:           prev.ID,
		PatientID:    patientID,
		MedicationID: medicationID,
		Date:         date,
		Taken:        taken,
		RecordedAt:   s.now(),
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}

	if err := s.repo.Upsert(ctx, l); err != nil {
		return RecordResult{}, err
	}
	metrics.RecordDose(taken)

	if taken && !wasTaken {
		m, err = s.stock.ConsumeDose(ctx, medicationID)
		if err != nil {
			return RecordResult{}, err
		}
	}

	return RecordResult{Log: l, Medication: m}, nil
}

// Restore guarda un registro importado sin tocar el stock (el archivo ya trae los conteos).
func (s *Service) Restore(ctx context.Context, patientID, medicationID, date string, taken bool) error {
	day, err := ParseDate(date)
	if err != nil || strings.TrimSpace(patientID) == "" || strings.TrimSpace(medicationID) == "" {
		return ErrInvalidInput
	}
	date = FormatDate(day)

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	if prev, err := s.repo.Get(ctx, medicationID, date); err == nil {
		id = prev.ID
	}

	return s.repo.Upsert(ctx, DoseLog{
		ID:           id,
		PatientID:    patientID,
		MedicationID: medicationID,
		Date:         date,
		Taken:        taken,
		RecordedAt:   s.now(),
	})
}

// ListRange devuelve los registros del paciente entre from y to (inclusive).
func (s *Service) ListRange(ctx context.Context, patientID string, from, to time.Time) ([]DoseLog, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" || to.Before(from) {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID, FormatDate(from), FormatDate(to))
}

// Today es la fecha civil local actual.
func (s *Service) Today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}
