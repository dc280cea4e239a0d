package sleepstudy

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusRequested = "requested"
	StatusApproved  = "approved"
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusRequested: true,
	StatusApproved:  true,
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

func ValidStatus(s string) bool { return validStatuses[s] }

const (
	TypeInLab        = "in-lab"
	TypeHome         = "home"
	TypeTelemedicine = "telemedicine"
)

var validTypes = map[string]bool{
	TypeInLab:        true,
	TypeHome:         true,
	TypeTelemedicine: true,
}

func ValidType(t string) bool { return validTypes[t] }

// Document is attached study paperwork; only metadata is stored, the file
// itself lives wherever the upload pipeline put it.
type Document struct {
	ID           uuid.UUID `db:"id" json:"id"`
	StudyID      uuid.UUID `db:"study_id" json:"-"`
	Filename     string    `db:"filename" json:"filename"`
	OriginalName string    `db:"original_name" json:"originalName"`
	Path         string    `db:"path" json:"path"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploadedAt"`
}

// Party is the identity slice embedded in responses.
type Party struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email *string   `json:"email,omitempty"`
	Phone *string   `json:"phone,omitempty"`
}

// DoctorInfo embeds the assigned doctor with their owning identity.
type DoctorInfo struct {
	ID        uuid.UUID `json:"id"`
	Specialty string    `json:"specialty"`
	User      Party     `json:"user"`
}

type SleepStudy struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patientId"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctorId"`
	ScheduledDate time.Time  `db:"scheduled_date" json:"scheduledDate"`
	Status        string     `db:"status" json:"status"`
	Type          string     `db:"type" json:"type"`
	Notes         string     `db:"notes" json:"notes"`
	Results       *string    `db:"results" json:"results,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
	Documents     []Document `db:"-" json:"documents"`

	Patient *Party      `db:"-" json:"patient,omitempty"`
	Doctor  *DoctorInfo `db:"-" json:"doctor,omitempty"`
}
