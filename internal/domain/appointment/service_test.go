package appointment

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/doctor"
	"github.com/clinic/clinic/internal/domain/identity"
)

type mockRepo struct {
	appts map[uuid.UUID]*Appointment
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = StatusPending
	}
	a.CreatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter) ([]Appointment, error) {
	out := []Appointment{}
	for _, a := range m.appts {
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	a.Status = status
	return a, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.appts, id)
	return nil
}

type mockDirectory struct {
	byName   map[string]*doctor.Doctor
	byUserID map[uuid.UUID]*doctor.Doctor
}

func (m *mockDirectory) ByName(_ context.Context, name string) (*doctor.Doctor, error) {
	if d, ok := m.byName[name]; ok {
		return d, nil
	}
	return nil, doctor.ErrNotFound
}

func (m *mockDirectory) ByUserID(_ context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	if d, ok := m.byUserID[userID]; ok {
		return d, nil
	}
	return nil, doctor.ErrNotFound
}

func newTestService() (*Service, *mockRepo, *mockDirectory) {
	repo := &mockRepo{appts: make(map[uuid.UUID]*Appointment)}
	dir := &mockDirectory{byName: make(map[string]*doctor.Doctor), byUserID: make(map[uuid.UUID]*doctor.Doctor)}
	return NewService(repo, dir, zerolog.New(os.Stderr)), repo, dir
}

func addDoctor(dir *mockDirectory, name string) *doctor.Doctor {
	d := &doctor.Doctor{ID: uuid.New(), UserID: uuid.New(), Specialty: "Sleep Medicine"}
	dir.byName[name] = d
	dir.byUserID[d.UserID] = d
	return d
}

func TestCreate_BooksWithNamedDoctor(t *testing.T) {
	svc, repo, dir := newTestService()
	d := addDoctor(dir, "Dr. Sarah Johnson")
	patientID := uuid.New()

	when := time.Now().Add(48 * time.Hour)
	a, err := svc.Create(nil, patientID, CreateInput{
		DoctorName: "Dr. Sarah Johnson", ScheduledAt: when, Reason: "snoring",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if a.DoctorID != d.ID || a.PatientID != patientID {
		t.Errorf("booking wired to wrong parties: %+v", a)
	}
	if a.Status != StatusPending {
		t.Errorf("expected pending status, got %s", a.Status)
	}
	if len(repo.appts) != 1 {
		t.Errorf("expected one persisted appointment, got %d", len(repo.appts))
	}
}

func TestCreate_UnknownDoctor(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(nil, uuid.New(), CreateInput{
		DoctorName: "Dr. Nobody", ScheduledAt: time.Now().Add(time.Hour),
	})
	if err != ErrDoctorNotFound {
		t.Errorf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, dir := newTestService()
	addDoctor(dir, "Dr. Sarah Johnson")

	if _, err := svc.Create(nil, uuid.New(), CreateInput{ScheduledAt: time.Now()}); err == nil {
		t.Error("expected error for missing doctorName")
	}
	if _, err := svc.Create(nil, uuid.New(), CreateInput{DoctorName: "Dr. Sarah Johnson"}); err == nil {
		t.Error("expected error for missing scheduledAt")
	}
}

func TestList_RoleScoping(t *testing.T) {
	svc, repo, dir := newTestService()
	d1 := addDoctor(dir, "Dr. Sarah Johnson")
	d2 := addDoctor(dir, "Dr. Michael Chen")

	p1, p2 := uuid.New(), uuid.New()
	seed := []*Appointment{
		{DoctorID: d1.ID, PatientID: p1, ScheduledAt: time.Now()},
		{DoctorID: d1.ID, PatientID: p2, ScheduledAt: time.Now()},
		{DoctorID: d2.ID, PatientID: p1, ScheduledAt: time.Now()},
	}
	for _, a := range seed {
		if err := repo.Create(nil, a); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := svc.List(nil, p1, identity.RolePatient)
	if err != nil {
		t.Fatalf("patient List() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("patient should see own 2 bookings, got %d", len(got))
	}

	got, err = svc.List(nil, d1.UserID, identity.RoleDoctor)
	if err != nil {
		t.Fatalf("doctor List() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("doctor should see their 2 bookings, got %d", len(got))
	}

	got, err = svc.List(nil, uuid.New(), identity.RoleAdmin)
	if err != nil {
		t.Fatalf("admin List() error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("admin should see all 3, got %d", len(got))
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, repo, dir := newTestService()
	d := addDoctor(dir, "Dr. Sarah Johnson")

	a := &Appointment{DoctorID: d.ID, PatientID: uuid.New(), ScheduledAt: time.Now()}
	if err := repo.Create(nil, a); err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.UpdateStatus(nil, a.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Errorf("expected confirmed, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(nil, a.ID, "snoozed"); err != ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateStatus(nil, uuid.New(), StatusConfirmed); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, repo, dir := newTestService()
	d := addDoctor(dir, "Dr. Sarah Johnson")

	a := &Appointment{DoctorID: d.ID, PatientID: uuid.New(), ScheduledAt: time.Now()}
	if err := repo.Create(nil, a); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := svc.Delete(nil, a.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if len(repo.appts) != 0 {
		t.Error("appointment not removed")
	}

	// Deleting an unknown id is not an error, matching the idempotent route.
	if err := svc.Delete(nil, uuid.New()); err != nil {
		t.Errorf("delete of unknown id should be a no-op, got %v", err)
	}
}
