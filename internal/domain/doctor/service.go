package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/identity"
)

var (
	ErrNotFound     = errors.New("doctor not found")
	ErrDoctorExists = errors.New("doctor with this email already exists")
	// ErrEmailRoleConflict: the email belongs to an identity with a
	// non-doctor role, so a doctor profile cannot be attached to it.
	ErrEmailRoleConflict = errors.New("email already in use by a different role")
)

// SentinelHash marks an identity that cannot log in with a password.
// bcrypt never produces it, so password comparison always fails.
const SentinelHash = "!"

// IdentityStore is the slice of the identity repository doctor creation
// needs: lookup by email and creation of the backing user record.
type IdentityStore interface {
	GetByEmail(ctx context.Context, email string) (*identity.User, error)
	Create(ctx context.Context, u *identity.User) error
}

type Service struct {
	repo       Repository
	identities IdentityStore
	log        zerolog.Logger
}

func NewService(repo Repository, identities IdentityStore, log zerolog.Logger) *Service {
	return &Service{repo: repo, identities: identities, log: log}
}

func (s *Service) List(ctx context.Context) ([]Doctor, error) {
	return s.repo.List(ctx)
}

type CreateInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
	Bio       string `json:"bio"`
}

func (in *CreateInput) validate() error {
	if len(in.Name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	if !identity.ValidEmail(in.Email) {
		return fmt.Errorf("a valid email is required")
	}
	if in.Phone != "" && !identity.ValidPhone(in.Phone) {
		return identity.ErrInvalidPhone
	}
	if len(in.Specialty) < 2 {
		return fmt.Errorf("specialty must be at least 2 characters")
	}
	return nil
}

// Create provisions a doctor: a pre-verified identity the doctor will later
// claim (sentinel password hash, no OTP challenge) plus the doctor profile.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Doctor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(in.Email)

	if existing, err := s.identities.GetByEmail(ctx, email); err == nil {
		if existing.Role == identity.RoleDoctor {
			return nil, ErrDoctorExists
		}
		return nil, ErrEmailRoleConflict
	}

	user, err := s.createDoctorIdentity(ctx, in.Name, email, in.Phone, false)
	if err != nil {
		return nil, err
	}

	d := &Doctor{UserID: user.ID, Specialty: in.Specialty, Bio: in.Bio}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	s.log.Info().Str("doctor_id", d.ID.String()).Str("email", email).Msg("doctor created")
	created, err := s.repo.GetByID(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	return created, nil
}

// Get resolves a doctor profile by its id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// ByUserID resolves the doctor profile owned by an identity. Used by the
// scheduling domains to scope listings to the calling doctor.
func (s *Service) ByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// ByName resolves a doctor by the owning identity's display name, the way
// bookings reference doctors.
func (s *Service) ByName(ctx context.Context, name string) (*Doctor, error) {
	d, err := s.repo.GetByUserName(ctx, name)
	if err != nil {
		return nil, ErrNotFound
	}
	return d, nil
}

type seedEntry struct {
	name, email, phone, specialty, bio string
}

var sampleDoctors = []seedEntry{
	{
		name:      "Dr. Sarah Johnson",
		email:     "sarah.johnson@clinic.com",
		phone:     "+1-555-0101",
		specialty: "Sleep Medicine",
		bio:       "Board-certified sleep specialist with 10+ years of experience in treating sleep disorders including sleep apnea, insomnia, and circadian rhythm disorders.",
	},
	{
		name:      "Dr. Michael Chen",
		email:     "michael.chen@clinic.com",
		phone:     "+1-555-0102",
		specialty: "Pulmonology & Sleep",
		bio:       "Expert in respiratory sleep disorders and CPAP therapy management. Specializes in complex sleep breathing disorders and pulmonary conditions affecting sleep.",
	},
	{
		name:      "Dr. Emily Rodriguez",
		email:     "emily.rodriguez@clinic.com",
		phone:     "+1-555-0103",
		specialty: "Neurology & Sleep",
		bio:       "Specializes in neurological sleep disorders and sleep pattern analysis. Expert in narcolepsy, restless leg syndrome, and sleep-related movement disorders.",
	},
}

// Seed inserts the sample sleep-medicine doctors, skipping any whose email
// or profile already exists. Development convenience only.
func (s *Service) Seed(ctx context.Context) ([]Doctor, error) {
	seeded := []Doctor{}
	for _, e := range sampleDoctors {
		user, err := s.identities.GetByEmail(ctx, e.email)
		if err != nil {
			user, err = s.createDoctorIdentity(ctx, e.name, e.email, e.phone, true)
			if err != nil {
				return nil, err
			}
		}

		d, err := s.repo.GetByUserID(ctx, user.ID)
		if err != nil {
			d = &Doctor{UserID: user.ID, Specialty: e.specialty, Bio: e.bio}
			if err := s.repo.Create(ctx, d); err != nil {
				return nil, fmt.Errorf("seed %s: %w", e.email, err)
			}
			d, err = s.repo.GetByID(ctx, d.ID)
			if err != nil {
				return nil, fmt.Errorf("load seeded doctor: %w", err)
			}
		}
		seeded = append(seeded, *d)
	}
	s.log.Info().Int("count", len(seeded)).Msg("sample doctors seeded")
	return seeded, nil
}

// SeedIfEmpty runs Seed only when no doctors exist yet. Called on startup in
// development so a fresh database has someone to book with.
func (s *Service) SeedIfEmpty(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count doctors: %w", err)
	}
	if n > 0 {
		s.log.Debug().Int64("count", n).Msg("doctors already present, skipping seed")
		return nil
	}
	_, err = s.Seed(ctx)
	return err
}

func (s *Service) createDoctorIdentity(ctx context.Context, name, email, phone string, phoneVerified bool) (*identity.User, error) {
	hash := SentinelHash
	user := &identity.User{
		Name:            name,
		Email:           &email,
		PasswordHash:    &hash,
		Role:            identity.RoleDoctor,
		IsEmailVerified: true,
		IsPhoneVerified: phoneVerified,
	}
	if phone != "" {
		user.Phone = &phone
	}
	if err := s.identities.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create doctor identity: %w", err)
	}
	return user, nil
}
