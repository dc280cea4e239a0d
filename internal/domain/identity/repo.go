package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChallengeUpsert is the atomic update-or-create applied when an OTP challenge
// is issued for a phone number. Zero-value fields leave the stored value
// untouched on update; Name falls back to the placeholder on insert.
type ChallengeUpsert struct {
	Phone        string
	Name         string
	Email        *string
	PasswordHash *string
	OTPCode      string
	OTPExpiry    time.Time
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpsertChallenge writes the OTP challenge onto the unverified identity
	// owning the phone, creating the identity if absent, in a single atomic
	// statement. The bool reports whether a new identity was created rather
	// than an existing one reused. It returns ErrPhoneTaken when a verified
	// identity owns the phone; the store is the arbiter when two requests
	// race.
	UpsertChallenge(ctx context.Context, ch ChallengeUpsert) (*User, bool, error)

	// ConsumeChallenge marks the phone verified and clears both OTP fields.
	ConsumeChallenge(ctx context.Context, id uuid.UUID) error

	// Update persists name, email, phone, verification flags, and profile.
	Update(ctx context.Context, u *User) error

	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	PhoneTaken(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error)
}
