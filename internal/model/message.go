package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageType string

const (
	MessageIndividual MessageType = "individual"
	MessageGroup      MessageType = "group"
)

// Message recipients are resolved once at send time and frozen; later
// role/branch changes do not alter membership.
type Message struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender       User        `gorm:"constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Content      string      `gorm:"type:text;not null" json:"content"`
	MessageType  MessageType `gorm:"size:20;not null" json:"message_type"`
	TargetRole   *Role       `gorm:"size:20" json:"target_role,omitempty"`
	TargetBranch *string     `gorm:"size:50" json:"target_branch,omitempty"`
	Recipients   []User      `gorm:"many2many:message_recipients;constraint:OnDelete:CASCADE" json:"recipients,omitempty"`
	IsRead       bool        `gorm:"default:false" json:"is_read"`
	CreatedAt    time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
