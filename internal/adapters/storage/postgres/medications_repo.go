package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, patient_id, name, dosage, time_of_day,
			current_count, total_prescribed, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		m.ID, m.PatientID, m.Name, m.Dosage, string(m.TimeOfDay),
		m.CurrentCount, m.TotalPrescribed, string(m.Status),
		m.CreatedAt, m.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return medications.ErrAlreadyExists
	}
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			dosage = $3,
			time_of_day = $4,
			current_count = $5,
			total_prescribed = $6,
			status = $7,
			updated_at = $8
		WHERE id = $1
	`,
		m.ID, m.Name, m.Dosage, string(m.TimeOfDay),
		m.CurrentCount, m.TotalPrescribed, string(m.Status), m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return medications.ErrAlreadyExists
		}
		return err
	}
	return requireOneRow(res, medications.ErrNotFound)
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *MedicationsRepo) GetByName(ctx context.Context, patientID, name string) (medications.Medication, error) {
	return r.getOne(ctx, `WHERE patient_id = $1 AND lower(name) = lower($2)`, patientID, strings.TrimSpace(name))
}

func (r *MedicationsRepo) ListByPatient(ctx context.Context, patientID string) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx, medicationColumns+`WHERE patient_id = $1 ORDER BY created_at ASC, id ASC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicationsRepo) AdjustStock(ctx context.Context, id string, currentDelta, totalDelta int, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			current_count = GREATEST(current_count + $2, 0),
			total_prescribed = total_prescribed + $3,
			updated_at = $4
		WHERE id = $1
	`, id, currentDelta, totalDelta, at)
	if err != nil {
		return err
	}
	return requireOneRow(res, medications.ErrNotFound)
}

const medicationColumns = `
	SELECT id, patient_id, name, dosage, time_of_day,
		current_count, total_prescribed, status,
		created_at, updated_at
	FROM medications `

func (r *MedicationsRepo) getOne(ctx context.Context, where string, args ...any) (medications.Medication, error) {
	m, err := scanMedication(r.db.QueryRowContext(ctx, medicationColumns+where, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return medications.Medication{}, medications.ErrNotFound
	}
	return m, err
}

func scanMedication(s rowScanner) (medications.Medication, error) {
	var (
		m            medications.Medication
		slot, status string
	)
	if err := s.Scan(
		&m.ID, &m.PatientID, &m.Name, &m.Dosage, &slot,
		&m.CurrentCount, &m.TotalPrescribed, &status,
		&m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}
	m.TimeOfDay = medications.TimeOfDay(slot)
	m.Status = medications.Status(status)
	return m, nil
}
