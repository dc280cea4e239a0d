package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/identity"
)

var (
	ErrNotFound  = errors.New("invoice not found")
	ErrForbidden = errors.New("access denied")
)

type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// List scopes to the caller for patients; staff see everything.
func (s *Service) List(ctx context.Context, callerID uuid.UUID, role string) ([]Invoice, error) {
	if role == identity.RolePatient {
		return s.repo.List(ctx, &callerID)
	}
	return s.repo.List(ctx, nil)
}

type ItemInput struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type CreateInput struct {
	AppointmentID *uuid.UUID  `json:"appointment"`
	SleepStudyID  *uuid.UUID  `json:"sleepStudy"`
	Items         []ItemInput `json:"items"`
	Tax           float64     `json:"tax"`
}

func (in *CreateInput) validate() error {
	if len(in.Items) == 0 {
		return fmt.Errorf("at least one line item is required")
	}
	for _, it := range in.Items {
		if it.Description == "" {
			return fmt.Errorf("item description is required")
		}
		if it.Quantity < 1 {
			return fmt.Errorf("item quantity must be at least 1")
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("item unitPrice must not be negative")
		}
	}
	if in.Tax < 0 {
		return fmt.Errorf("tax must not be negative")
	}
	return nil
}

// Create bills the calling patient. Line totals, subtotal, and the
// percentage tax are computed server-side; due date is 30 days out.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, in CreateInput) (*Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	items := make([]Item, len(in.Items))
	var subtotal float64
	for i, it := range in.Items {
		total := float64(it.Quantity) * it.UnitPrice
		items[i] = Item{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       total,
		}
		subtotal += total
	}

	inv := &Invoice{
		PatientID:     patientID,
		AppointmentID: in.AppointmentID,
		SleepStudyID:  in.SleepStudyID,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           in.Tax,
		Total:         subtotal + subtotal*in.Tax/100,
		Status:        StatusPending,
		DueDate:       s.now().Add(DueIn),
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.log.Info().Str("invoice_id", inv.ID.String()).Float64("total", inv.Total).Msg("invoice created")
	billed, err := s.repo.GetByID(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	return billed, nil
}

// RecordPayment settles an invoice. Patients may only pay their own.
func (s *Service) RecordPayment(ctx context.Context, id, callerID uuid.UUID, role, method string) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if role == identity.RolePatient && inv.PatientID != callerID {
		return nil, ErrForbidden
	}

	paid, err := s.repo.MarkPaid(ctx, id, method)
	if err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}
	s.log.Info().Str("invoice_id", id.String()).Str("method", method).Msg("payment recorded")
	return paid, nil
}
