package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinic/clinic/internal/platform/auth"
)

var (
	ErrInvalidPhone       = errors.New("invalid phone number format")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPMismatch        = errors.New("otp mismatch")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoPassword         = errors.New("no password set for this account")
)

const bcryptCost = 10

type Service struct {
	repo   Repository
	issuer *auth.Issuer
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, issuer *auth.Issuer, log zerolog.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, log: log, now: time.Now}
}

// RequestOTP opens (or refreshes) a verification challenge for the phone.
// A phone already owned by a verified identity is a conflict; an unverified
// identity is reused with a fresh code; otherwise a placeholder identity is
// created. The code is logged in place of SMS delivery, which is an external
// concern.
func (s *Service) RequestOTP(ctx context.Context, phone string) error {
	if !ValidPhone(phone) {
		return ErrInvalidPhone
	}

	if existing, err := s.repo.GetByPhone(ctx, phone); err == nil && existing.IsPhoneVerified {
		return ErrPhoneTaken
	}

	code, err := GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if _, _, err := s.repo.UpsertChallenge(ctx, ChallengeUpsert{
		Phone:     phone,
		OTPCode:   code,
		OTPExpiry: s.now().Add(OTPTTL),
	}); err != nil {
		if errors.Is(err, ErrPhoneTaken) {
			return ErrPhoneTaken
		}
		return fmt.Errorf("upsert challenge: %w", err)
	}

	s.log.Info().Str("phone", phone).Str("otp", code).Msg("otp issued")
	return nil
}

// VerifyOTP consumes an open challenge. Success flips is_phone_verified and
// clears both challenge fields, so a repeated call with the same code fails.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*SessionGrant, error) {
	user, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, ErrNotFound
	}

	if user.OTPCode == nil || user.OTPExpiry == nil || !s.now().Before(*user.OTPExpiry) {
		return nil, ErrOTPExpired
	}
	if *user.OTPCode != code {
		return nil, ErrOTPMismatch
	}

	if err := s.repo.ConsumeChallenge(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("consume challenge: %w", err)
	}

	return s.grant(user, user.Phone, nil)
}

// RegisterInput is the self-service registration payload. Registration always
// produces a patient; elevated roles are created through privileged flows.
type RegisterInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) validate() error {
	if len(in.Name) < 2 || len(in.Name) > 100 {
		return fmt.Errorf("name must be between 2 and 100 characters")
	}
	if !ValidPhone(in.Phone) {
		return ErrInvalidPhone
	}
	if !ValidEmail(in.Email) {
		return fmt.Errorf("a valid email is required")
	}
	if in.Password != "" && (len(in.Password) < 6 || len(in.Password) > 128) {
		return fmt.Errorf("password must be between 6 and 128 characters")
	}
	return nil
}

// Register opens a registration challenge: it reuses an unverified identity
// holding the phone (overwriting name, email, password, and challenge) or
// creates a new one; the returned bool reports which. The returned id
// identifies the pending identity; the account is usable after OTP
// verification.
func (s *Service) Register(ctx context.Context, in RegisterInput) (uuid.UUID, bool, error) {
	if err := in.validate(); err != nil {
		return uuid.Nil, false, err
	}

	excludeID := uuid.Nil
	if existing, err := s.repo.GetByPhone(ctx, in.Phone); err == nil {
		if existing.IsPhoneVerified {
			return uuid.Nil, false, ErrPhoneTaken
		}
		excludeID = existing.ID
	}

	email := strings.ToLower(in.Email)
	taken, err := s.repo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return uuid.Nil, false, ErrEmailTaken
	}

	var passwordHash *string
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("hash password: %w", err)
		}
		h := string(hashed)
		passwordHash = &h
	}

	code, err := GenerateOTP()
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("generate otp: %w", err)
	}

	user, created, err := s.repo.UpsertChallenge(ctx, ChallengeUpsert{
		Phone:        in.Phone,
		Name:         in.Name,
		Email:        &email,
		PasswordHash: passwordHash,
		OTPCode:      code,
		OTPExpiry:    s.now().Add(OTPTTL),
	})
	if err != nil {
		if errors.Is(err, ErrPhoneTaken) {
			return uuid.Nil, false, ErrPhoneTaken
		}
		return uuid.Nil, false, fmt.Errorf("upsert challenge: %w", err)
	}

	s.log.Info().Str("phone", in.Phone).Str("otp", code).Msg("otp issued")
	return user.ID, created, nil
}

// Login checks email+password. Unknown email and wrong password produce the
// same error so callers cannot probe which addresses exist.
func (s *Service) Login(ctx context.Context, email, password string) (*SessionGrant, error) {
	if !ValidEmail(email) {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < 6 || len(password) > 128 {
		return nil, fmt.Errorf("password must be between 6 and 128 characters")
	}

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == nil || *user.PasswordHash == "" {
		return nil, ErrNoPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.grant(user, nil, user.Email)
}

// CreateAdmin bootstraps an administrator account. If the email already
// belongs to an admin, the password is checked and a fresh session issued;
// any other existing owner is a conflict. Exposed only in development.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (*SessionGrant, bool, error) {
	if name == "" || email == "" || password == "" {
		return nil, false, fmt.Errorf("name, email, and password required")
	}
	email = strings.ToLower(email)

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil {
		if existing.Role != RoleAdmin {
			return nil, false, ErrEmailTaken
		}
		var stored string
		if existing.PasswordHash != nil {
			stored = *existing.PasswordHash
		}
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
			return nil, false, ErrInvalidCredentials
		}
		grant, err := s.grant(existing, nil, existing.Email)
		return grant, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	hash := string(hashed)

	admin := &User{
		Name:            name,
		Email:           &email,
		PasswordHash:    &hash,
		Role:            RoleAdmin,
		IsPhoneVerified: true,
		IsEmailVerified: true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}

	grant, err := s.grant(admin, nil, admin.Email)
	return grant, true, err
}

// Get returns the identity record for profile display.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ProfileUpdate carries the self-service profile changes. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	Name    *string  `json:"name"`
	Email   *string  `json:"email"`
	Phone   *string  `json:"phone"`
	Profile *Profile `json:"profile"`
}

// UpdateProfile applies a partial update to the caller's own record, holding
// phone and email unique across identities.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if in.Name != nil {
		if len(*in.Name) < 2 || len(*in.Name) > 100 {
			return nil, fmt.Errorf("name must be between 2 and 100 characters")
		}
		user.Name = *in.Name
	}
	if in.Email != nil {
		email := strings.ToLower(*in.Email)
		if !ValidEmail(email) {
			return nil, fmt.Errorf("a valid email is required")
		}
		taken, err := s.repo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = &email
	}
	if in.Phone != nil {
		if !ValidPhone(*in.Phone) {
			return nil, ErrInvalidPhone
		}
		taken, err := s.repo.PhoneTaken(ctx, *in.Phone, id)
		if err != nil {
			return nil, fmt.Errorf("check phone: %w", err)
		}
		if taken {
			return nil, ErrPhoneTaken
		}
		user.Phone = in.Phone
	}
	if in.Profile != nil {
		if err := mergeProfile(&user.Profile, in.Profile); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func mergeProfile(dst, src *Profile) error {
	if src.Gender != nil && !validGenders[*src.Gender] {
		return fmt.Errorf("gender must be male, female, or other")
	}
	if src.DateOfBirth != nil {
		dst.DateOfBirth = src.DateOfBirth
	}
	if src.Gender != nil {
		dst.Gender = src.Gender
	}
	if src.Address != nil {
		dst.Address = src.Address
	}
	if src.EmergencyContact != nil {
		dst.EmergencyContact = src.EmergencyContact
	}
	if src.MedicalHistory != nil {
		dst.MedicalHistory = src.MedicalHistory
	}
	if src.Medications != nil {
		dst.Medications = src.Medications
	}
	if src.Allergies != nil {
		dst.Allergies = src.Allergies
	}
	return nil
}

func (s *Service) grant(user *User, phone, email *string) (*SessionGrant, error) {
	token, err := s.issuer.Issue(user.ID.String(), user.Role, user.Name)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &SessionGrant{
		Token: token,
		User: PublicUser{
			ID:    user.ID,
			Name:  user.Name,
			Phone: phone,
			Email: email,
			Role:  user.Role,
		},
	}, nil
}
