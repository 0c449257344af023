package postgres

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
		VALUES ($1, $2, $3, $4::date, $5, $6)
		ON CONFLICT (medication_id, date) DO UPDATE SET
			taken = EXCLUDED.taken,
			recorded_at = EXCLUDED.recorded_at
	`, l.ID, l.PatientID, l.MedicationID, l.Date, l.Taken, l.RecordedAt)
	return err
}

func (r *DoseLogsRepo) Get(ctx context.Context, medicationID, date string) (adherence.DoseLog, error) {
	var l adherence.DoseLog
	err := r.db.QueryRowContext(ctx, doseLogColumns+`WHERE medication_id = $1 AND date = $2::date`, medicationID, date).
		Scan(&l.ID, &l.PatientID, &l.MedicationID, &l.Date, &l.Taken, &l.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return adherence.DoseLog{}, adherence.ErrNotFound
	}
	return l, err
}

func (r *DoseLogsRepo) ListByPatient(ctx context.Context, patientID, from, to string) ([]adherence.DoseLog, error) {
	rows, err := r.db.QueryContext(ctx, doseLogColumns+`
		WHERE patient_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date ASC, medication_id ASC
	`, patientID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adherence.DoseLog, 0)
	for rows.Next() {
		var l adherence.DoseLog
		if err := rows.Scan(&l.ID, &l.PatientID, &l.MedicationID, &l.Date, &l.Taken, &l.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// date sale como texto YYYY-MM-DD para no depender de la zona horaria de la sesión.
const doseLogColumns = `SELECT id, patient_id, medication_id, to_char(date, 'YYYY-MM-DD'), taken, recorded_at FROM dose_logs `
