package holiday

import (
	"time"

	"github.com/google/uuid"
)

// Holiday marks a calendar date as non-working. Critical days additionally
// block leave requests entirely.
type Holiday struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_holidays_date"`
	Name       string    `gorm:"type:varchar(100);not null"`
	IsCritical bool      `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
