package owners

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *Owner) error
	GetByID(ctx context.Context, id uuid.UUID) (*Owner, error)
	Update(ctx context.Context, o *Owner) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Owner, int, error)
	Recent(ctx context.Context, limit int) ([]*OwnerSummary, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int, error)
}
