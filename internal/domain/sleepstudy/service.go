package sleepstudy

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
	ErrNotFound       = errors.New("sleep study not found")
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidType    = errors.New("invalid study type")
)

// DoctorDirectory resolves doctors for study requests and listing scope.
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

// List scopes by caller role the same way appointments do: patients see
// their own studies, doctors see studies assigned to them, admin sees all.
func (s *Service) List(ctx context.Context, callerID uuid.UUID, role string) ([]SleepStudy, error) {
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

type RequestInput struct {
	DoctorName    string    `json:"doctorName"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Type          string    `json:"type"`
	Notes         string    `json:"notes"`
}

// Request opens a study for the calling patient with a doctor referenced by
// display name. Type defaults to in-lab, status starts at requested.
func (s *Service) Request(ctx context.Context, patientID uuid.UUID, in RequestInput) (*SleepStudy, error) {
	if in.DoctorName == "" {
		return nil, fmt.Errorf("doctorName is required")
	}
	if in.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("scheduledDate is required")
	}
	if in.Type == "" {
		in.Type = TypeInLab
	}
	if !ValidType(in.Type) {
		return nil, ErrInvalidType
	}

	d, err := s.doctors.ByName(ctx, in.DoctorName)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	study := &SleepStudy{
		PatientID:     patientID,
		DoctorID:      d.ID,
		ScheduledDate: in.ScheduledDate,
		Status:        StatusRequested,
		Type:          in.Type,
		Notes:         in.Notes,
	}
	if err := s.repo.Create(ctx, study); err != nil {
		return nil, fmt.Errorf("create sleep study: %w", err)
	}

	s.log.Info().Str("study_id", study.ID.String()).Str("type", in.Type).
		Str("doctor_id", d.ID.String()).Msg("sleep study requested")
	requested, err := s.repo.GetByID(ctx, study.ID)
	if err != nil {
		return nil, fmt.Errorf("load sleep study: %w", err)
	}
	return requested, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*SleepStudy, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, ErrNotFound
	}
	study, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load sleep study: %w", err)
	}
	return study, nil
}

type DocumentInput struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
}

// AttachDocument records upload metadata against a study.
func (s *Service) AttachDocument(ctx context.Context, id uuid.UUID, in DocumentInput) (*SleepStudy, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	doc := &Document{
		StudyID:      id,
		Filename:     in.Filename,
		OriginalName: in.OriginalName,
		Path:         in.Path,
	}
	if err := s.repo.AddDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("attach document: %w", err)
	}
	study, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load sleep study: %w", err)
	}
	return study, nil
}
