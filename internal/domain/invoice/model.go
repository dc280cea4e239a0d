package invoice

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusOverdue   = "overdue"
	StatusCancelled = "cancelled"
)

// DueIn is how long the patient has to settle a new invoice.
const DueIn = 30 * 24 * time.Hour

// Item is one billed line. Total is computed at creation, never trusted
// from the client.
type Item struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// Party is the identity slice embedded in responses.
type Party struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email *string   `json:"email,omitempty"`
	Phone *string   `json:"phone,omitempty"`
}

type Invoice struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patientId"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointmentId,omitempty"`
	SleepStudyID  *uuid.UUID `db:"sleep_study_id" json:"sleepStudyId,omitempty"`
	Items         []Item     `db:"items" json:"items"`
	Subtotal      float64    `db:"subtotal" json:"subtotal"`
	Tax           float64    `db:"tax" json:"tax"`
	Total         float64    `db:"total" json:"total"`
	Status        string     `db:"status" json:"status"`
	PaymentMethod *string    `db:"payment_method" json:"paymentMethod,omitempty"`
	PaymentDate   *time.Time `db:"payment_date" json:"paymentDate,omitempty"`
	DueDate       time.Time  `db:"due_date" json:"dueDate"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`

	Patient *Party `db:"-" json:"patient,omitempty"`
}
