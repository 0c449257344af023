package flatfile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
)

// ErrUnexportable: el medicamento tiene separadores en nombre o dosis y no
// sobreviviría la relectura.
var ErrUnexportable = errors.New("flatfile: field contains a separator")

type PatientStore interface {
	EnsureByName(ctx context.Context, ownerUserID, name string) (patients.Patient, error)
}

type MedicationStore interface {
	List(ctx context.Context, patientID string, includeDiscontinued bool) ([]medications.Medication, error)
	ImportOrUpdate(ctx context.Context, patientID string, rec medications.ImportRecord) (medications.Medication, error)
}

type DoseStore interface {
	Restore(ctx context.Context, patientID, medicationID, date string, taken bool) error
	ListRange(ctx context.Context, patientID string, from, to time.Time) ([]adherence.DoseLog, error)
}

// Transfer mueve datos entre los archivos legados y los repositorios.
type Transfer struct {
	patients PatientStore
	meds     MedicationStore
	doses    DoseStore
}

func NewTransfer(p PatientStore, m MedicationStore, d DoseStore) *Transfer {
	return &Transfer{patients: p, meds: m, doses: d}
}

type ImportStats struct {
	Patient     patients.Patient
	Medications int
	Logs        int
	Skipped     int
}

type ExportStats struct {
	MedsPath    string
	LogsPath    string
	Medications int
	Logs        int
}

// Import lee <dir>/<paciente>_meds.txt y _logs.txt. Los registros de toma con fecha
// no YYYY-MM-DD o con medicamento desconocido se cuentan como omitidos.
func (t *Transfer) Import(ctx context.Context, ownerUserID, patientName, dir string) (ImportStats, error) {
	patientName = strings.TrimSpace(patientName)
	if patientName == "" {
		return ImportStats{}, patients.ErrInvalidInput
	}

	medLines, skippedMeds, err := ReadMedsFile(filepath.Join(dir, MedsFileName(patientName)))
	if err != nil {
		return ImportStats{}, fmt.Errorf("flatfile: read meds: %w", err)
	}
	logLines, skippedLogs, err := ReadLogsFile(filepath.Join(dir, LogsFileName(patientName)))
	if err != nil {
		return ImportStats{}, fmt.Errorf("flatfile: read logs: %w", err)
	}

	p, err := t.patients.EnsureByName(ctx, ownerUserID, patientName)
	if err != nil {
		return ImportStats{}, err
	}
	stats := ImportStats{Patient: p, Skipped: skippedMeds + skippedLogs}

	for _, l := range medLines {
		_, err := t.meds.ImportOrUpdate(ctx, p.ID, medications.ImportRecord{
			Name:            l.Name,
			Dosage:          l.Dosage,
			TimeOfDay:       medications.ParseTimeOfDay(l.TimeOfDay),
			CurrentCount:    l.Current,
			TotalPrescribed: l.Total,
		})
		if errors.Is(err, medications.ErrInvalidInput) {
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}
		stats.Medications++
	}

	byName, err := t.medsByName(ctx, p.ID)
	if err != nil {
		return stats, err
	}
	for _, l := range logLines {
		medID, ok := byName[strings.ToLower(l.Medication)]
		if !ok {
			stats.Skipped++
			continue
		}
		err := t.doses.Restore(ctx, p.ID, medID, l.Date, l.Taken)
		if errors.Is(err, adherence.ErrInvalidInput) {
			stats.Skipped++
			continue
		}
		if err != nil {
			return stats, err
		}
		stats.Logs++
	}
	return stats, nil
}

// Export escribe los medicamentos activos y todas sus tomas en el formato legado.
func (t *Transfer) Export(ctx context.Context, p patients.Patient, dir string) (ExportStats, error) {
	meds, err := t.meds.List(ctx, p.ID, false)
	if err != nil {
		return ExportStats{}, err
	}

	names := make(map[string]string, len(meds))
	medLines := make([]MedLine, 0, len(meds))
	for _, m := range meds {
		if strings.ContainsAny(m.Name+m.Dosage, ",\r\n") {
			return ExportStats{}, fmt.Errorf("%w: %q", ErrUnexportable, m.Name)
		}
		names[m.ID] = m.Name
		medLines = append(medLines, MedLine{
			Name:      m.Name,
			Dosage:    m.Dosage,
			TimeOfDay: m.TimeOfDay.Label(),
			Current:   m.CurrentCount,
			Total:     m.TotalPrescribed,
		})
	}

	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	logs, err := t.doses.ListRange(ctx, p.ID, from, to)
	if err != nil {
		return ExportStats{}, err
	}
	logLines := make([]LogLine, 0, len(logs))
	for _, l := range logs {
		name, ok := names[l.MedicationID]
		if !ok {
			continue
		}
		logLines = append(logLines, LogLine{Date: l.Date, Medication: name, Taken: l.Taken})
	}

	stats := ExportStats{
		MedsPath:    filepath.Join(dir, MedsFileName(p.Name)),
		LogsPath:    filepath.Join(dir, LogsFileName(p.Name)),
		Medications: len(medLines),
		Logs:        len(logLines),
	}
	if err := WriteFile(stats.MedsPath, FormatMeds(medLines)); err != nil {
		return ExportStats{}, fmt.Errorf("flatfile: write meds: %w", err)
	}
	if err := WriteFile(stats.LogsPath, FormatLogs(logLines)); err != nil {
		return ExportStats{}, fmt.Errorf("flatfile: write logs: %w", err)
	}
	return stats, nil
}

func (t *Transfer) medsByName(ctx context.Context, patientID string) (map[string]string, error) {
	items, err := t.meds.List(ctx, patientID, true)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, m := range items {
		out[strings.ToLower(m.Name)] = m.ID
	}
	return out, nil
}
