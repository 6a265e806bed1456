package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// MediaFile is an uploaded attachment carried alongside a post form.
type MediaFile struct {
	Reader   io.Reader
	FileName string
	MimeType string
}

type CreatePostRequest struct {
	Content string `form:"content" binding:"required"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

type PostResponse struct {
	ID           uuid.UUID `json:"id"`
	AuthorID     uuid.UUID `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	Content      string    `json:"content"`
	MediaURL     *string   `json:"media_url,omitempty"`
	MediaType    *string   `json:"media_type,omitempty"`
	Likes        int       `json:"likes"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PostFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type PaginatedPostResponse struct {
	Data []PostResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}
