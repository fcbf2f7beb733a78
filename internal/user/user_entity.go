package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name  string    `gorm:"type:varchar(100);not null"`
	Email string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	// Password holds the bcrypt hash.
	Password string `gorm:"type:text;not null"`
	Role     string `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`

	// ManagerID is a self-reference; only employees have managers.
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`

	ForcePasswordChange bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
