package repository

import (
	"context"
	"errors"

	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	// TogglePostLike flips the (post, user) like membership and keeps the
	// denormalized counter in step, as one transaction holding a row lock
	// on the post. Returns the new direction and counter value.
	TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error)
	ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error)
	IsPostLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	IsCommentLiked(ctx context.Context, commentID, userID uuid.UUID) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error) {
	var (
		liked bool
		likes int
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		// Membership decides direction; both writes commit or neither does.
		var existing []model.PostLike
		if err := tx.Where("post_id = ? AND user_id = ?", postID, userID).
			Limit(1).Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) > 0 {
			if err := tx.Where("post_id = ? AND user_id = ?", postID, userID).
				Delete(&model.PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Post{}).Where("id = ?", postID).
				UpdateColumn("likes", gorm.Expr("GREATEST(likes - 1, 0)")).Error; err != nil {
				return err
			}
			liked = false
		} else {
			if err := tx.Create(&model.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Post{}).Where("id = ?", postID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return err
			}
			liked = true
		}

		var refreshed model.Post
		if err := tx.Select("likes").First(&refreshed, "id = ?", postID).Error; err != nil {
			return err
		}
		likes = refreshed.Likes
		return nil
	})

	return liked, likes, err
}

func (r *likeRepository) ToggleCommentLike(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error) {
	var (
		liked bool
		likes int
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&comment, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		var existing []model.CommentLike
		if err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			Limit(1).Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) > 0 {
			if err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
				Delete(&model.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Comment{}).Where("id = ?", commentID).
				UpdateColumn("likes", gorm.Expr("GREATEST(likes - 1, 0)")).Error; err != nil {
				return err
			}
			liked = false
		} else {
			if err := tx.Create(&model.CommentLike{CommentID: commentID, UserID: userID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Comment{}).Where("id = ?", commentID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return err
			}
			liked = true
		}

		var refreshed model.Comment
		if err := tx.Select("likes").First(&refreshed, "id = ?", commentID).Error; err != nil {
			return err
		}
		likes = refreshed.Likes
		return nil
	})

	return liked, likes, err
}

func (r *likeRepository) IsPostLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) IsCommentLiked(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
