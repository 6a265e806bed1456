package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID     uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author       User      `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	MediaURL     *string   `gorm:"type:text" json:"media_url,omitempty"`
	MediaType    *string   `gorm:"size:50" json:"media_type,omitempty"`
	Likes        int       `gorm:"default:0" json:"likes"`
	CommentCount int       `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// PostLike is one row per (post, user). The composite key backs the
// likes == count(post_likes) invariant on Post.
type PostLike struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
