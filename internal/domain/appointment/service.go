package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/doctor"
	"github.com/clinic/clinic/internal/domain/identity"
)

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrInvalidStatus  = errors.New("invalid status")
)

// DoctorDirectory resolves doctors for booking and listing scope.
// *doctor.Service satisfies it.
type DoctorDirectory interface {
	ByName(ctx context.Context, name string) (*doctor.Doctor, error)
	ByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error)
}

type Service struct {
	repo    Repository
	doctors DoctorDirectory
	log     zerolog.Logger
}

func NewService(repo Repository, doctors DoctorDirectory, log zerolog.Logger) *Service {
	return &Service{repo: repo, doctors: doctors, log: log}
}

// List scopes by caller role: patients see their own bookings, doctors see
// their schedule, anyone else (admin) sees everything. A doctor identity
// without a profile yet has no schedule to scope to and sees everything,
// matching the admin view.
func (s *Service) List(ctx context.Context, callerID uuid.UUID, role string) ([]Appointment, error) {
	var f Filter
	switch role {
	case identity.RolePatient:
		f.PatientID = &callerID
	case identity.RoleDoctor:
		if d, err := s.doctors.ByUserID(ctx, callerID); err == nil {
			f.DoctorID = &d.ID
		}
	}
	return s.repo.List(ctx, f)
}

type CreateInput struct {
	DoctorName  string    `json:"doctorName"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Reason      string    `json:"reason"`
}

// Create books the calling patient with a doctor referenced by display name.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, in CreateInput) (*Appointment, error) {
	if in.DoctorName == "" {
		return nil, fmt.Errorf("doctorName is required")
	}
	if in.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("scheduledAt is required")
	}

	d, err := s.doctors.ByName(ctx, in.DoctorName)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	a := &Appointment{
		DoctorID:    d.ID,
		PatientID:   patientID,
		ScheduledAt: in.ScheduledAt,
		Reason:      in.Reason,
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.log.Info().Str("appointment_id", a.ID.String()).
		Str("doctor_id", d.ID.String()).Time("scheduled_at", in.ScheduledAt).
		Msg("appointment booked")
	booked, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	return booked, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	a, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
