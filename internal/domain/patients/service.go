package patients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("patient not found")
	ErrAlreadyExists = errors.New("patient already exists")
)

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

func (s *Service) Create(ctx context.Context, ownerUserID, name string) (Patient, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	name = strings.TrimSpace(name)
	if ownerUserID == "" || name == "" {
		return Patient{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByName(ctx, ownerUserID, name); err == nil {
		return Patient{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return Patient{}, err
	}

	now := s.now()
	p := Patient{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// EnsureByName devuelve el paciente con ese nombre o lo crea.
// La consola identifica al paciente solo por nombre.
func (s *Service) EnsureByName(ctx context.Context, ownerUserID, name string) (Patient, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	name = strings.TrimSpace(name)
	if ownerUserID == "" || name == "" {
		return Patient{}, ErrInvalidInput
	}

	p, err := s.repo.GetByName(ctx, ownerUserID, name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Patient{}, err
	}
	return s.Create(ctx, ownerUserID, name)
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Patient, error) {
	return s.repo.ListByOwner(ctx, strings.TrimSpace(ownerUserID))
}

func (s *Service) ListAll(ctx context.Context) ([]Patient, error) {
	return s.repo.ListAll(ctx)
}
