package dto

import (
	"time"

	"anoa.com/campusbridge/internal/model"
	"github.com/google/uuid"
)

// SendMessageRequest always carries the coarse target role so the
// permission gate has its inputs even for explicit recipient lists.
type SendMessageRequest struct {
	Content      string   `json:"content" binding:"required"`
	TargetRole   string   `json:"target_role" binding:"required,oneof=official teacher student"`
	TargetBranch *string  `json:"target_branch"`
	RecipientIDs []string `json:"recipient_ids" binding:"omitempty,dive,uuid"`
}

type MessageResponse struct {
	ID           uuid.UUID         `json:"id"`
	SenderID     uuid.UUID         `json:"sender_id"`
	SenderName   string            `json:"sender_name"`
	Content      string            `json:"content"`
	MessageType  model.MessageType `json:"message_type"`
	TargetRole   *model.Role       `json:"target_role,omitempty"`
	TargetBranch *string           `json:"target_branch,omitempty"`
	RecipientIDs []uuid.UUID       `json:"recipient_ids"`
	IsRead       bool              `json:"is_read"`
	CreatedAt    time.Time         `json:"created_at"`
}
