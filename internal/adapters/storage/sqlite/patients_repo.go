package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mariamabdalla2350-rgb/medication-tracker/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (id, owner_user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.OwnerUserID, p.Name, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if isUniqueViolation(err) {
		return patients.ErrAlreadyExists
	}
	return err
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *PatientsRepo) GetByName(ctx context.Context, ownerUserID, name string) (patients.Patient, error) {
	return r.getOne(ctx, `WHERE owner_user_id = ? AND name = ? COLLATE NOCASE`, ownerUserID, strings.TrimSpace(name))
}

func (r *PatientsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]patients.Patient, error) {
	return r.list(ctx, `WHERE owner_user_id = ?`, ownerUserID)
}

func (r *PatientsRepo) ListAll(ctx context.Context) ([]patients.Patient, error) {
	return r.list(ctx, ``)
}

const patientColumns = `SELECT id, owner_user_id, name, created_at, updated_at FROM patients `

func (r *PatientsRepo) getOne(ctx context.Context, where string, args ...any) (patients.Patient, error) {
	p, err := scanPatient(r.db.QueryRowContext(ctx, patientColumns+where, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, err
}

func (r *PatientsRepo) list(ctx context.Context, where string, args ...any) ([]patients.Patient, error) {
	rows, err := r.db.QueryContext(ctx, patientColumns+where+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(s rowScanner) (patients.Patient, error) {
	var (
		p                    patients.Patient
		createdAt, updatedAt string
	)
	if err := s.Scan(&p.ID, &p.OwnerUserID, &p.Name, &createdAt, &updatedAt); err != nil {
		return patients.Patient{}, err
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}
