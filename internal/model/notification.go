package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types mirror the originating event.
const (
	NotificationMessage = "message"
	NotificationPost    = "post"
	NotificationComment = "comment"
	NotificationLike    = "like"
)

// Notification rows are only ever created as a side effect of another
// mutation, one row per recipient so read state stays independent.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient   *User     `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	ActorID     uuid.UUID `gorm:"type:uuid;not null" json:"actor_id"`
	Actor       *User     `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Type        string    `gorm:"size:50;not null" json:"type"`
	ReferenceID uuid.UUID `gorm:"type:uuid;not null" json:"reference_id"`
	Content     string    `gorm:"type:text" json:"content"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
