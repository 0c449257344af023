package medications

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("medication not found")
	ErrAlreadyExists = errors.New("medication already exists")
)

// DefaultStartingCount se usa cuando la cantidad inicial no es un número válido.
const DefaultStartingCount = 30

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type AddInput struct {
	Name      string
	Dosage    string
	TimeOfDay TimeOfDay
	Count     int
}

func (s *Service) Add(ctx context.Context, patientID string, in AddInput) (Medication, error) {
	patientID = strings.TrimSpace(patientID)
	name := strings.TrimSpace(in.Name)
	if patientID == "" || name == "" {
		return Medication{}, ErrInvalidInput
	}
	if !plainField(name) || !plainField(in.Dosage) {
		return Medication{}, ErrInvalidInput
	}
	if in.Count < 0 {
		return Medication{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByName(ctx, patientID, name); err == nil {
		return Medication{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return Medication{}, err
	}

	now := s.now()
	m := Medication{
		ID:              uuid.NewString(),
		PatientID:       patientID,
		Name:            name,
		Dosage:          strings.TrimSpace(in.Dosage),
		TimeOfDay:       ParseTimeOfDay(string(in.TimeOfDay)),
		CurrentCount:    in.Count,
		TotalPrescribed: in.Count,
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List devuelve los medicamentos del paciente ordenados por franja y nombre.
func (s *Service) List(ctx context.Context, patientID string, includeDiscontinued bool) ([]Medication, error) {
	items, err := s.repo.ListByPatient(ctx, strings.TrimSpace(patientID))
	if err != nil {
		return nil, err
	}

	out := make([]Medication, 0, len(items))
	for _, m := range items {
		if !includeDiscontinued && !m.Active() {
			continue
		}
		out = append(out, m)
	}
	SortBySchedule(out)
	return out, nil
}

func (s *Service) Refill(ctx context.Context, id string, amount int) (Medication, error) {
	if amount <= 0 {
		return Medication{}, ErrInvalidInput
	}
	if _, err := s.Get(ctx, id); err != nil {
		return Medication{}, err
	}
	if err := s.repo.AdjustStock(ctx, id, amount, amount, s.now()); err != nil {
		return Medication{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// ConsumeDose descuenta una unidad del stock (mínimo 0).
func (s *Service) ConsumeDose(ctx context.Context, id string) (Medication, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Medication{}, err
	}
	if err := s.repo.AdjustStock(ctx, id, -1, 0, s.now()); err != nil {
		return Medication{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Discontinue marca el medicamento como suspendido (no se borra).
func (s *Service) Discontinue(ctx context.Context, id string) (Medication, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return Medication{}, err
	}
	if m.Status == StatusDiscontinued {
		return m, nil
	}
	m.Status = StatusDiscontinued
	m.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// ImportRecord es una fila del archivo plano legado.
type ImportRecord struct {
	Name            string
	Dosage          string
	TimeOfDay       TimeOfDay
	CurrentCount    int
	TotalPrescribed int
}

// ImportOrUpdate crea el medicamento o, si ya existe con ese nombre, pisa dosis, franja y stock.
func (s *Service) ImportOrUpdate(ctx context.Context, patientID string, rec ImportRecord) (Medication, error) {
	patientID = strings.TrimSpace(patientID)
	name := strings.TrimSpace(rec.Name)
	if patientID == "" || name == "" || rec.CurrentCount < 0 || rec.TotalPrescribed < 0 {
		return Medication{}, ErrInvalidInput
	}
	if !plainField(name) || !plainField(rec.Dosage) {
		return Medication{}, ErrInvalidInput
	}

	existing, err := s.repo.GetByName(ctx, patientID, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Medication{}, err
	}

	now := s.now()
	if err == nil {
		existing.Dosage = strings.TrimSpace(rec.Dosage)
		existing.TimeOfDay = ParseTimeOfDay(string(rec.TimeOfDay))
		existing.CurrentCount = rec.CurrentCount
		existing.TotalPrescribed = rec.TotalPrescribed
		existing.Status = StatusActive
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return Medication{}, err
		}
		return existing, nil
	}

	m := Medication{
		ID:              uuid.NewString(),
		PatientID:       patientID,
		Name:            name,
		Dosage:          strings.TrimSpace(rec.Dosage),
		TimeOfDay:       ParseTimeOfDay(string(rec.TimeOfDay)),
		CurrentCount:    rec.CurrentCount,
		TotalPrescribed: rec.TotalPrescribed,
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// plainField: sin coma ni saltos de línea, que son separadores del formato plano legado.
func plainField(s string) bool {
	return !strings.ContainsAny(s, ",\r\n")
}

// SortBySchedule ordena in-place por franja y luego por nombre.
func SortBySchedule(items []Medication) {
	sort.SliceStable(items, func(i, j int) bool {
		oi, oj := items[i].TimeOfDay.Order(), items[j].TimeOfDay.Order()
		if oi != oj {
			return oi < oj
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}
