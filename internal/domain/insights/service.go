package insights

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/platform/metrics"

	"github.com/google/renameio/v2"
)

var ErrInvalidInput = errors.New("invalid input")

type PatientReader interface {
	GetByID(ctx context.Context, id string) (patients.Patient, error)
}

type MedicationLister interface {
	List(ctx context.Context, patientID string, includeDiscontinued bool) ([]medications.Medication, error)
}

type DoseReader interface {
	ListRange(ctx context.Context, patientID string, from, to time.Time) ([]adherence.DoseLog, error)
	Today() time.Time
}

type Service struct {
	patients PatientReader
	meds     MedicationLister
	doses    DoseReader
}

func NewService(patients PatientReader, meds MedicationLister, doses DoseReader) *Service {
	return &Service{patients: patients, meds: meds, doses: doses}
}

// WeekStartFor devuelve el lunes de la semana de t.
func WeekStartFor(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7 // lunes=0 ... domingo=6
	return d.AddDate(0, 0, -offset)
}

// CurrentWeekStart es el lunes de la semana actual.
func (s *Service) CurrentWeekStart() time.Time {
	return WeekStartFor(s.doses.Today())
}

// Weekly arma el resumen de 7 días consecutivos a partir de weekStart.
func (s *Service) Weekly(ctx context.Context, patientID string, weekStart time.Time) (WeeklySummary, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return WeeklySummary{}, err
	}

	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, DaysPerWeek-1)

	meds, err := s.meds.List(ctx, p.ID, false)
	if err != nil {
		return WeeklySummary{}, err
	}
	logs, err := s.doses.ListRange(ctx, p.ID, start, end)
	if err != nil {
		return WeeklySummary{}, err
	}
	ix := adherence.IndexLogs(logs)

	sum := WeeklySummary{
		PatientID:   p.ID,
		PatientName: p.Name,
		WeekStart:   start,
		Medications: make([]MedicationWeek, 0, len(meds)),
	}
	for i := range sum.Days {
		d := start.AddDate(0, 0, i)
		sum.Days[i] = Day{Date: d, Label: d.Weekday().String()[:3]}
		sum.Overview[i] = DayOverview{Day: sum.Days[i], Total: len(meds), Missed: []string{}}
	}

	totalTaken := 0
	for _, m := range meds {
		mw := MedicationWeek{
			MedicationID:    m.ID,
			Name:            m.Name,
			Dosage:          m.Dosage,
			Remaining:       m.CurrentCount,
			TotalPrescribed: m.TotalPrescribed,
		}
		for i, d := range sum.Days {
			taken := ix.Taken(adherence.FormatDate(d.Date), m.ID)
			mw.Taken[i] = taken
			if taken {
				mw.TakenDays++
				sum.Overview[i].Taken++
				continue
			}
			sum.Overview[i].Missed = append(sum.Overview[i].Missed, fmt.Sprintf("%s at %s", m.Name, m.TimeOfDay.Label()))
		}
		mw.Adherence = percent(mw.TakenDays, DaysPerWeek)
		totalTaken += mw.TakenDays
		sum.Medications = append(sum.Medications, mw)
	}
	sum.Overall = percent(totalTaken, DaysPerWeek*len(meds))

	return sum, nil
}

// SaveReport escribe el reporte de texto en dir de forma atómica y devuelve la ruta.
func (s *Service) SaveReport(ctx context.Context, patientID string, weekStart time.Time, dir string) (string, error) {
	sum, err := s.Weekly(ctx, patientID, weekStart)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("insights: create report dir: %w", err)
	}

	path := filepath.Join(dir, ReportFileName(sum.PatientName, sum.WeekStart))
	if err := renameio.WriteFile(path, []byte(Render(sum)), 0o644); err != nil {
		return "", fmt.Errorf("insights: write report: %w", err)
	}

	metrics.ReportsSavedTotal.Inc()
	return path, nil
}

// ReportFileName: "<paciente>_weekly_report_<YYYY-MM-DD>.txt".
func ReportFileName(patientName string, weekStart time.Time) string {
	return fmt.Sprintf("%s_weekly_report_%s.txt", patients.FileName(patientName), adherence.FormatDate(weekStart))
}

func percent(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
