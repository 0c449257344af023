package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/adherence"
)

type DoseLogsRepo struct {
	db *sql.DB
}

func NewDoseLogsRepo(db *sql.DB) *DoseLogsRepo {
	return &DoseLogsRepo{db: db}
}

func (r *DoseLogsRepo) Upsert(ctx context.Context, l adherence.DoseLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_logs (id, patient_id, medication_id, date, taken, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(medication_id, date) DO UPDATE SET
			taken = excluded.taken,
			recorded_at = excluded.recorded_at
	`, l.ID, l.PatientID, l.MedicationID, l.Date, boolToInt(l.Taken), formatTime(l.RecordedAt))
	return err
}

func (r *DoseLogsRepo) Get(ctx context.Context, medicationID, date string) (adherence.DoseLog, error) {
	l, err := scanDoseLog(r.db.QueryRowContext(ctx, doseLogColumns+`WHERE medication_id = ? AND date = ?`, medicationID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return adherence.DoseLog{}, adherence.ErrNotFound
	}
	return l, err
}

func (r *DoseLogsRepo) ListByPatient(ctx context.Context, patientID, from, to string) ([]adherence.DoseLog, error) {
	rows, err := r.db.QueryContext(ctx, doseLogColumns+`
		WHERE patient_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, medication_id ASC
	`, patientID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adherence.DoseLog, 0)
	for rows.Next() {
		l, err := scanDoseLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

const doseLogColumns = `SELECT id, patient_id, medication_id, date, taken, recorded_at FROM dose_logs `

func scanDoseLog(s rowScanner) (adherence.DoseLog, error) {
	var (
		l          adherence.DoseLog
		taken      int
		recordedAt string
	)
	if err := s.Scan(&l.ID, &l.PatientID, &l.MedicationID, &l.Date, &taken, &recordedAt); err != nil {
		return adherence.DoseLog{}, err
	}
	l.Taken = taken == 1
	l.RecordedAt = parseTime(recordedAt)
	return l, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
