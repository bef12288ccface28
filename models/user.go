package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User model. The identifier is generated at insert time; the password
// digest never leaves the server (excluded from JSON).
type User struct {
	ID             string `gorm:"primaryKey;size:36"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"size:255;not null;unique"`
	HashedPassword []byte `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
