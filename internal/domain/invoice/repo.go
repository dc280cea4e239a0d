package invoice

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	// List returns all invoices, newest first; patientID non-nil scopes to
	// one patient.
	List(ctx context.Context, patientID *uuid.UUID) ([]Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	MarkPaid(ctx context.Context, id uuid.UUID, method string) (*Invoice, error)
}
