package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Slot is one recurring weekly availability window.
type Slot struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// UserSummary is the slice of the owning identity embedded in listings.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email *string   `json:"email,omitempty"`
	Phone *string   `json:"phone,omitempty"`
}

type Doctor struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"userId"`
	Specialty    string    `db:"specialty" json:"specialty"`
	Bio          string    `db:"bio" json:"bio"`
	Availability []Slot    `db:"availability" json:"availability"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`

	User *UserSummary `db:"-" json:"user,omitempty"`
}
