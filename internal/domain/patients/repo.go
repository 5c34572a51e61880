package patients

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Patient, error)
	Recent(ctx context.Context, limit int) ([]*Summary, error)
	Count(ctx context.Context) (int, error)
	CountBySpecies(ctx context.Context) (map[string]int, error)
}
