package appointment

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows listings to one side of the booking. Nil fields match all.
type Filter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	List(ctx context.Context, f Filter) ([]Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
