package doctor

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/identity"
)

type mockRepo struct {
	doctors map[uuid.UUID]*Doctor
	users   *mockIdentityStore
}

func (m *mockRepo) hydrate(d *Doctor) *Doctor {
	out := *d
	if u, ok := m.users.byID[d.UserID]; ok {
		out.User = &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
	}
	return &out
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]Doctor, error) {
	out := []Doctor{}
	for _, d := range m.doctors {
		out = append(out, *m.hydrate(d))
	}
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return m.hydrate(d), nil
}

func (m *mockRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.UserID == userID {
			return m.hydrate(d), nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) GetByUserName(_ context.Context, name string) (*Doctor, error) {
	for _, d := range m.doctors {
		if u, ok := m.users.byID[d.UserID]; ok && u.Name == name {
			return m.hydrate(d), nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.doctors)), nil
}

type mockIdentityStore struct {
	byID map[uuid.UUID]*identity.User
}

func (m *mockIdentityStore) GetByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range m.byID {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockIdentityStore) Create(_ context.Context, u *identity.User) error {
	u.ID = uuid.New()
	m.byID[u.ID] = u
	return nil
}

func newTestService() (*Service, *mockRepo, *mockIdentityStore) {
	users := &mockIdentityStore{byID: make(map[uuid.UUID]*identity.User)}
	repo := &mockRepo{doctors: make(map[uuid.UUID]*Doctor), users: users}
	return NewService(repo, users, zerolog.New(os.Stderr)), repo, users
}

func TestCreate_ProvisionsIdentityAndProfile(t *testing.T) {
	svc, _, users := newTestService()

	d, err := svc.Create(nil, CreateInput{
		Name: "Dr. House", Email: "house@clinic.com", Phone: "+15550107",
		Specialty: "Diagnostics", Bio: "It's never lupus.",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if d.Specialty != "Diagnostics" {
		t.Errorf("unexpected specialty %q", d.Specialty)
	}
	if d.User == nil || d.User.Name != "Dr. House" {
		t.Fatal("expected embedded user summary")
	}

	u, err := users.GetByEmail(nil, "house@clinic.com")
	if err != nil {
		t.Fatal("expected backing identity created")
	}
	if u.Role != identity.RoleDoctor {
		t.Errorf("expected doctor role, got %s", u.Role)
	}
	if !u.IsEmailVerified {
		t.Error("admin-created doctors should be email-verified")
	}
	if u.PasswordHash == nil || *u.PasswordHash != SentinelHash {
		t.Error("expected sentinel password hash")
	}
}

func TestCreate_ExistingDoctorEmail(t *testing.T) {
	svc, _, _ := newTestService()

	in := CreateInput{Name: "Dr. House", Email: "house@clinic.com", Specialty: "Diagnostics"}
	if _, err := svc.Create(nil, in); err != nil {
		t.Fatalf("first Create() error: %v", err)
	}
	if _, err := svc.Create(nil, in); err != ErrDoctorExists {
		t.Errorf("expected ErrDoctorExists, got %v", err)
	}
}

func TestCreate_EmailHeldByOtherRole(t *testing.T) {
	svc, _, users := newTestService()

	email := "patient@example.com"
	patient := &identity.User{Name: "Pat", Email: &email, Role: identity.RolePatient}
	_ = users.Create(nil, patient)

	_, err := svc.Create(nil, CreateInput{Name: "Dr. Pat", Email: email, Specialty: "Sleep"})
	if err != ErrEmailRoleConflict {
		t.Errorf("expected ErrEmailRoleConflict, got %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	cases := []CreateInput{
		{Name: "D", Email: "d@clinic.com", Specialty: "Sleep"},
		{Name: "Dr. D", Email: "nope", Specialty: "Sleep"},
		{Name: "Dr. D", Email: "d@clinic.com", Specialty: "S"},
		{Name: "Dr. D", Email: "d@clinic.com", Phone: "bad!", Specialty: "Sleep"},
	}
	for i, in := range cases {
		if _, err := svc.Create(nil, in); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestSeed_InsertsThreeSampleDoctors(t *testing.T) {
	svc, repo, users := newTestService()

	seeded, err := svc.Seed(nil)
	if err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	if len(seeded) != 3 {
		t.Fatalf("expected 3 doctors, got %d", len(seeded))
	}
	if len(repo.doctors) != 3 {
		t.Errorf("expected 3 profiles persisted, got %d", len(repo.doctors))
	}

	u, err := users.GetByEmail(nil, "sarah.johnson@clinic.com")
	if err != nil {
		t.Fatal("expected seeded identity")
	}
	if !u.IsPhoneVerified || !u.IsEmailVerified {
		t.Error("seeded doctors should be fully verified")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService()

	if _, err := svc.Seed(nil); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if _, err := svc.Seed(nil); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}
	if len(repo.doctors) != 3 {
		t.Errorf("repeat seed must not duplicate, got %d profiles", len(repo.doctors))
	}
}

func TestSeedIfEmpty(t *testing.T) {
	svc, repo, _ := newTestService()

	if err := svc.SeedIfEmpty(nil); err != nil {
		t.Fatalf("SeedIfEmpty() error: %v", err)
	}
	if len(repo.doctors) != 3 {
		t.Fatalf("expected seed on empty store, got %d", len(repo.doctors))
	}

	// Simulate a store that already has doctors: no new inserts.
	if err := svc.SeedIfEmpty(nil); err != nil {
		t.Fatalf("second SeedIfEmpty() error: %v", err)
	}
	if len(repo.doctors) != 3 {
		t.Errorf("non-empty store must be left alone, got %d", len(repo.doctors))
	}
}

func TestByName(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Seed(nil); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	d, err := svc.ByName(nil, "Dr. Sarah Johnson")
	if err != nil {
		t.Fatalf("ByName() error: %v", err)
	}
	if d.Specialty != "Sleep Medicine" {
		t.Errorf("unexpected specialty %q", d.Specialty)
	}

	if _, err := svc.ByName(nil, "Dr. Nobody"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
