package content

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategorySleepHygiene = "sleep-hygiene"
	CategoryYoga         = "yoga"
	CategoryMeditation   = "meditation"
)

var validCategories = map[string]bool{
	CategorySleepHygiene: true,
	CategoryYoga:         true,
	CategoryMeditation:   true,
}

func ValidCategory(c string) bool { return validCategories[c] }

// Item is one wellness entry on the patient dashboard.
type Item struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Category    string    `db:"category" json:"category"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Duration    string    `db:"duration" json:"duration,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
