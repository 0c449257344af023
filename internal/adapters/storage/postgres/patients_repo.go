package postgres

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
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.OwnerUserID, p.Name, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return patients.ErrAlreadyExists
	}
	return err
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *PatientsRepo) GetByName(ctx context.Context, ownerUserID, name string) (patients.Patient, error) {
	return r.getOne(ctx, `WHERE owner_user_id = $1 AND lower(name) = lower($2)`, ownerUserID, strings.TrimSpace(name))
}

func (r *PatientsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]patients.Patient, error) {
	return r.list(ctx, `WHERE owner_user_id = $1`, ownerUserID)
}

func (r *PatientsRepo) ListAll(ctx context.Context) ([]patients.Patient, error) {
	return r.list(ctx, ``)
}

const patientColumns = `SELECT id, owner_user_id, name, created_at, updated_at FROM patients `

func (r *PatientsRepo) getOne(ctx context.Context, where string, args ...any) (patients.Patient, error) {
	var p patients.Patient
	err := r.db.QueryRowContext(ctx, patientColumns+where, args...).
		Scan(&p.ID, &p.OwnerUserID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
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
		var p patients.Patient
		if err := rows.Scan(&p.ID, &p.OwnerUserID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
