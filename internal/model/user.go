package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a closed enumeration. It is fixed at user creation and never
// changes afterwards.
type Role string

const (
	RoleOfficial Role = "official"
	RoleTeacher  Role = "teacher"
	RoleStudent  Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOfficial, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;index" json:"role"`
	Position     *string   `gorm:"size:100" json:"position,omitempty"`    // officials only
	Branch       *string   `gorm:"size:50;index" json:"branch,omitempty"` // teachers and students
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
