package leave

import (
	"time"

	"github.com/google/uuid"
)

type Leave struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_user_dates"`

	LeaveType string    `gorm:"type:varchar(30);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_user_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_user_dates"`
	Reason    string    `gorm:"type:text"`

	// DocumentPath is an opaque reference to an uploaded attachment; the
	// storage backend is a collaborator concern.
	DocumentPath *string `gorm:"type:varchar(255)"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	AppliedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time
}
