package patients

import "context"

type Repository interface {
	Create(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id string) (Patient, error)
	GetByName(ctx context.Context, ownerUserID, name string) (Patient, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Patient, error)
	ListAll(ctx context.Context) ([]Patient, error)
}
