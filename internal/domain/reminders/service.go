package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
)

type MedicationLister interface {
	List(ctx context.Context, patientID string, includeDiscontinued bool) ([]medications.Medication, error)
}

type DoseReader interface {
	ListRange(ctx context.Context, patientID string, from, to time.Time) ([]adherence.DoseLog, error)
	Today() time.Time
}

type PatientDirectory interface {
	ListAll(ctx context.Context) ([]patients.Patient, error)
}

type Service struct {
	meds     MedicationLister
	doses    DoseReader
	patients PatientDirectory
}

func NewService(meds MedicationLister, doses DoseReader, patients PatientDirectory) *Service {
	return &Service{meds: meds, doses: doses, patients: patients}
}

// Today delega en adherence para que todos los módulos compartan el mismo reloj.
func (s *Service) Today() time.Time {
	return s.doses.Today()
}

// TodayStatus devuelve el estado de cada medicamento activo para el día, en orden de franja.
func (s *Service) TodayStatus(ctx context.Context, patientID string, day time.Time) ([]DoseStatus, error) {
	meds, ix, err := s.load(ctx, patientID, day)
	if err != nil {
		return nil, err
	}

	date := adherence.FormatDate(day)
	out := make([]DoseStatus, 0, len(meds))
	for _, m := range meds {
		taken := ix.Taken(date, m.ID)
		reminder := "Taken"
		if !taken {
			reminder = reminderText(m.Name, m.TimeOfDay)
		}
		out = append(out, DoseStatus{
			Medication: m,
			Taken:      taken,
			Details:    fmt.Sprintf("%s (%s)", m.Dosage, m.TimeOfDay.Label()),
			Reminder:   reminder,
		})
	}
	return out, nil
}

// Missed lista "<nombre> at <franja>" de los medicamentos activos no tomados ese día.
func (s *Service) Missed(ctx context.Context, patientID string, day time.Time) ([]string, error) {
	status, err := s.TodayStatus(ctx, patientID, day)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0)
	for _, st := range status {
		if st.Taken {
			continue
		}
		out = append(out, missedText(st.Medication.Name, st.Medication.TimeOfDay))
	}
	return out, nil
}

// Due junta, para todos los pacientes, los medicamentos de la franja aún no tomados.
func (s *Service) Due(ctx context.Context, slot medications.TimeOfDay, day time.Time) ([]Reminder, error) {
	all, err := s.patients.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	date := adherence.FormatDate(day)
	out := make([]Reminder, 0)
	for _, p := range all {
		meds, ix, err := s.load(ctx, p.ID, day)
		if err != nil {
			return nil, err
		}
		for _, m := range meds {
			if m.TimeOfDay != slot || ix.Taken(date, m.ID) {
				continue
			}
			out = append(out, Reminder{
				PatientID:      p.ID,
				PatientName:    p.Name,
				MedicationID:   m.ID,
				MedicationName: m.Name,
				Dosage:         m.Dosage,
				Slot:           slot,
				Date:           date,
			})
		}
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, patientID string, day time.Time) ([]medications.Medication, adherence.Index, error) {
	meds, err := s.meds.List(ctx, patientID, false)
	if err != nil {
		return nil, nil, err
	}
	logs, err := s.doses.ListRange(ctx, patientID, day, day)
	if err != nil {
		return nil, nil, err
	}
	return meds, adherence.IndexLogs(logs), nil
}
