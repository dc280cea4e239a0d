package sleepstudy

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
	studies map[uuid.UUID]*SleepStudy
	docs    map[uuid.UUID][]Document
}

func (m *mockRepo) Create(_ context.Context, s *SleepStudy) error {
	s.ID = uuid.New()
	if s.Status == "" {
		s.Status = StatusRequested
	}
	if s.Type == "" {
		s.Type = TypeInLab
	}
	s.CreatedAt = time.Now()
	m.studies[s.ID] = s
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter) ([]SleepStudy, error) {
	out := []SleepStudy{}
	for _, s := range m.studies {
		if f.PatientID != nil && s.PatientID != *f.PatientID {
			continue
		}
		if f.DoctorID != nil && s.DoctorID != *f.DoctorID {
			continue
		}
		cp := *s
		cp.Documents = m.docs[s.ID]
		out = append(out, cp)
	}
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*SleepStudy, error) {
	s, ok := m.studies[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *s
	cp.Documents = m.docs[id]
	return &cp, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	s, ok := m.studies[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	s.Status = status
	return nil
}

func (m *mockRepo) AddDocument(_ context.Context, d *Document) error {
	d.ID = uuid.New()
	d.UploadedAt = time.Now()
	m.docs[d.StudyID] = append(m.docs[d.StudyID], *d)
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
	repo := &mockRepo{studies: make(map[uuid.UUID]*SleepStudy), docs: make(map[uuid.UUID][]Document)}
	dir := &mockDirectory{byName: make(map[string]*doctor.Doctor), byUserID: make(map[uuid.UUID]*doctor.Doctor)}
	return NewService(repo, dir, zerolog.New(os.Stderr)), repo, dir
}

func addDoctor(dir *mockDirectory, name string) *doctor.Doctor {
	d := &doctor.Doctor{ID: uuid.New(), UserID: uuid.New(), Specialty: "Sleep Medicine"}
	dir.byName[name] = d
	dir.byUserID[d.UserID] = d
	return d
}

func TestRequest_Defaults(t *testing.T) {
	svc, _, dir := newTestService()
	d := addDoctor(dir, "Dr. Sarah Johnson")
	patientID := uuid.New()

	study, err := svc.Request(nil, patientID, RequestInput{
		DoctorName: "Dr. Sarah Johnson", ScheduledDate: time.Now().Add(72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Request() error: %v", err)
	}
	if study.Status != StatusRequested {
		t.Errorf("expected requested status, got %s", study.Status)
	}
	if study.Type != TypeInLab {
		t.Errorf("expected in-lab default, got %s", study.Type)
	}
	if study.DoctorID != d.ID || study.PatientID != patientID {
		t.Errorf("study wired to wrong parties: %+v", study)
	}
}

func TestRequest_InvalidType(t *testing.T) {
	svc, _, dir := newTestService()
	addDoctor(dir, "Dr. Sarah Johnson")

	_, err := svc.Request(nil, uuid.New(), RequestInput{
		DoctorName: "Dr. Sarah Johnson", ScheduledDate: time.Now(), Type: "astral",
	})
	if err != ErrInvalidType {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
}

func TestRequest_UnknownDoctor(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Request(nil, uuid.New(), RequestInput{
		DoctorName: "Dr. Nobody", ScheduledDate: time.Now(),
	})
	if err != ErrDoctorNotFound {
		t.Errorf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestList_RoleScoping(t *testing.T) {
	svc, repo, dir := newTestService()
	d1 := addDoctor(dir, "Dr. Sarah Johnson")
	d2 := addDoctor(dir, "Dr. Michael Chen")

	p1, p2 := uuid.New(), uuid.New()
	for _, s := range []*SleepStudy{
		{PatientID: p1, DoctorID: d1.ID, ScheduledDate: time.Now()},
		{PatientID: p2, DoctorID: d1.ID, ScheduledDate: time.Now()},
		{PatientID: p1, DoctorID: d2.ID, ScheduledDate: time.Now()},
	} {
		if err := repo.Create(nil, s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := svc.List(nil, p1, identity.RolePatient)
	if err != nil {
		t.Fatalf("patient List() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("patient scope: want 2, got %d", len(got))
	}

	got, err = svc.List(nil, d2.UserID, identity.RoleDoctor)
	if err != nil {
		t.Fatalf("doctor List() error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("doctor scope: want 1, got %d", len(got))
	}

	got, err = svc.List(nil, uuid.New(), identity.RoleAdmin)
	if err != nil {
		t.Fatalf("admin List() error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("admin scope: want 3, got %d", len(got))
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, repo, dir := newTestService()
	d := addDoctor(dir, "Dr. Sarah Johnson")

	s := &SleepStudy{PatientID: uuid.New(), DoctorID: d.ID, ScheduledDate: time.Now()}
	if err := repo.Create(nil, s); err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.UpdateStatus(nil, s.ID, StatusApproved)
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if updated.Status != StatusApproved {
		t.Errorf("expected approved, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(nil, s.ID, "dreaming"); err != ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateStatus(nil, uuid.New(), StatusApproved); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAttachDocument(t *testing.T) {
	svc, repo, dir := newTestService()
	d := addDoctor(dir, "Dr. Sarah Johnson")

	s := &SleepStudy{PatientID: uuid.New(), DoctorID: d.ID, ScheduledDate: time.Now()}
	if err := repo.Create(nil, s); err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.AttachDocument(nil, s.ID, DocumentInput{
		Filename: "psg-2026-01.pdf", OriginalName: "polysomnogram.pdf", Path: "/uploads/psg-2026-01.pdf",
	})
	if err != nil {
		t.Fatalf("AttachDocument() error: %v", err)
	}
	if len(updated.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(updated.Documents))
	}
	if updated.Documents[0].OriginalName != "polysomnogram.pdf" {
		t.Errorf("unexpected document: %+v", updated.Documents[0])
	}

	if _, err := svc.AttachDocument(nil, uuid.New(), DocumentInput{Filename: "x"}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
