package doctor

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists doctor profiles. Listing and lookups hydrate the
// embedded UserSummary from the owning identity.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	List(ctx context.Context) ([]Doctor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	GetByUserName(ctx context.Context, name string) (*Doctor, error)
	Count(ctx context.Context) (int64, error)
}
