package sleepstudy

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows listings to one side of the study. Nil fields match all.
type Filter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, s *SleepStudy) error
	List(ctx context.Context, f Filter) ([]SleepStudy, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SleepStudy, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	AddDocument(ctx context.Context, d *Document) error
}
