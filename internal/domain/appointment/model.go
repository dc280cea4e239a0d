package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

func ValidStatus(s string) bool { return validStatuses[s] }

// Party is the name/email slice of an identity embedded in responses.
type Party struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email *string   `json:"email,omitempty"`
}

// DoctorInfo embeds the booked doctor with their owning identity.
type DoctorInfo struct {
	ID        uuid.UUID `json:"id"`
	Specialty string    `json:"specialty"`
	User      Party     `json:"user"`
}

type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctorId"`
	PatientID   uuid.UUID `db:"patient_id" json:"patientId"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduledAt"`
	Reason      string    `db:"reason" json:"reason"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Doctor  *DoctorInfo `db:"-" json:"doctor,omitempty"`
	Patient *Party      `db:"-" json:"patient,omitempty"`
}
