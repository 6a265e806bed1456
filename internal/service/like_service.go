package service

import (
	"context"

	"anoa.com/campusbridge/internal/dto"
	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/internal/repository"
	"github.com/google/uuid"
)

type LikeService interface {
	// TogglePostLike flips the caller's like on the post and returns the
	// new direction and counter. Repeating the call flips state again.
	TogglePostLike(ctx context.Context, userID, postID uuid.UUID) (*dto.ToggleLikeResponse, error)
	ToggleCommentLike(ctx context.Context, userID, commentID uuid.UUID) (*dto.ToggleLikeResponse, error)
}

type likeService struct {
	likeRepo            repository.LikeRepository
	postRepo            repository.PostRepository
	commentRepo         repository.CommentRepository
	notificationService NotificationService
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository, commentRepo repository.CommentRepository, notificationService NotificationService) LikeService {
	return &likeService{
		likeRepo:            likeRepo,
		postRepo:            postRepo,
		commentRepo:         commentRepo,
		notificationService: notificationService,
	}
}

func (s *likeService) TogglePostLike(ctx context.Context, userID, postID uuid.UUID) (*dto.ToggleLikeResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, likes, err := s.likeRepo.TogglePostLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	// Only a fresh like notifies, and never the author liking their own.
	if liked && post.AuthorID != userID {
		s.notificationService.Dispatch(ctx, &model.Notification{
			RecipientID: post.AuthorID,
			ActorID:     userID,
			Type:        model.NotificationLike,
			ReferenceID: postID,
			Content:     "Someone liked your post",
		})
	}

	return &dto.ToggleLikeResponse{Liked: liked, Likes: likes}, nil
}

func (s *likeService) ToggleCommentLike(ctx context.Context, userID, commentID uuid.UUID) (*dto.ToggleLikeResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	liked, likes, err := s.likeRepo.ToggleCommentLike(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	if liked && comment.AuthorID != userID {
		s.notificationService.Dispatch(ctx, &model.Notification{
			RecipientID: comment.AuthorID,
			ActorID:     userID,
			Type:        model.NotificationLike,
			ReferenceID: commentID,
			Content:     "Someone liked your comment",
		})
	}

	return &dto.ToggleLikeResponse{Liked: liked, Likes: likes}, nil
}
