package identity

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// PlaceholderName is assigned to identities created by a bare OTP request,
// before registration supplies a real name.
const PlaceholderName = "Temp"

// phonePattern accepts an optional leading + followed by digits, spaces,
// hyphens, and parentheses.
var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

// ValidPhone reports whether the phone number matches the accepted format.
func ValidPhone(phone string) bool {
	return phone != "" && phonePattern.MatchString(phone)
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether the address looks like an email address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// User maps to the users table: one identity record per patient, doctor, or
// administrator. Secret and challenge fields never serialize.
type User struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Email           *string    `db:"email" json:"email,omitempty"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	PasswordHash    *string    `db:"password_hash" json:"-"`
	Role            string     `db:"role" json:"role"`
	IsPhoneVerified bool       `db:"is_phone_verified" json:"is_phone_verified"`
	IsEmailVerified bool       `db:"is_email_verified" json:"is_email_verified"`
	OTPCode         *string    `db:"otp_code" json:"-"`
	OTPExpiry       *time.Time `db:"otp_expiry" json:"-"`
	Profile         Profile    `json:"profile"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile holds the optional health profile attached to an identity.
type Profile struct {
	DateOfBirth      *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender           *string    `db:"gender" json:"gender,omitempty"`
	Address          *string    `db:"address" json:"address,omitempty"`
	EmergencyContact *string    `db:"emergency_contact" json:"emergency_contact,omitempty"`
	MedicalHistory   *string    `db:"medical_history" json:"medical_history,omitempty"`
	Allergies        *string    `db:"allergies" json:"allergies,omitempty"`
	Medications      *string    `db:"medications" json:"medications,omitempty"`
}

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

// HasOpenChallenge reports whether the record carries an unconsumed OTP
// challenge that has not yet expired at the given time.
func (u *User) HasOpenChallenge(now time.Time) bool {
	return u.OTPCode != nil && u.OTPExpiry != nil && now.Before(*u.OTPExpiry)
}

// PublicUser is the identity shape embedded in session grant responses.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone,omitempty"`
	Email *string   `json:"email,omitempty"`
	Role  string    `json:"role"`
}

// SessionGrant is the result of a successful verification or login.
type SessionGrant struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}
