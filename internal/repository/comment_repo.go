package repository

import (
	"context"
	"errors"

	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	// Create inserts the comment and bumps the parent post's comment count
	// in the same transaction. Returns the new count.
	Create(ctx context.Context, comment *model.Comment) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	FindByPostID(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)
	// Delete removes the comment and its like rows and decrements the
	// parent post's comment count, clamped at zero. Returns the new count.
	Delete(ctx context.Context, id uuid.UUID) (int, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		n, err := adjustCommentCount(tx, comment.PostID, 1)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	return count, err
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByPostID(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.First(&comment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		n, err := adjustCommentCount(tx, comment.PostID, -1)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	return count, err
}

// adjustCommentCount applies the delta to the post's denormalized comment
// count. GREATEST keeps the count from ever going negative under a lost
// decrement.
func adjustCommentCount(tx *gorm.DB, postID uuid.UUID, delta int) (int, error) {
	res := tx.Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("GREATEST(comment_count + ?, 0)", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apperror.ErrNotFound
	}

	var post model.Post
	if err := tx.Select("comment_count").First(&post, "id = ?", postID).Error; err != nil {
		return 0, err
	}
	return post.CommentCount, nil
}
