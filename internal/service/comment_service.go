package service

import (
	"context"
	"fmt"

	"anoa.com/campusbridge/internal/dto"
	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/internal/repository"
	"anoa.com/campusbridge/pkg/apperror"
	"github.com/google/uuid"
)

type CommentService interface {
	CreateComment(ctx context.Context, authorID, postID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetCommentsByPostID(ctx context.Context, postID uuid.UUID) ([]dto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error
}

type commentService struct {
	commentRepo         repository.CommentRepository
	postRepo            repository.PostRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, userRepo repository.UserRepository, notificationService NotificationService) CommentService {
	return &commentService{
		commentRepo:         commentRepo,
		postRepo:            postRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *commentService) CreateComment(ctx context.Context, authorID, postID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	content := sanitizeContent(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content must not be empty", apperror.ErrInvalidInput)
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}

	// Insert and parent count bump commit together.
	if _, err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if post.AuthorID != authorID {
		author, err := s.userRepo.FindByID(ctx, authorID)
		actorName := "Someone"
		if err == nil {
			actorName = author.FullName
		}
		s.notificationService.Dispatch(ctx, &model.Notification{
			RecipientID: post.AuthorID,
			ActorID:     authorID,
			Type:        model.NotificationComment,
			ReferenceID: comment.ID,
			Content:     fmt.Sprintf("%s commented on your post", actorName),
		})
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return toCommentResponse(created), nil
}

func (s *commentService) GetCommentsByPostID(ctx context.Context, postID uuid.UUID) ([]dto.CommentResponse, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *toCommentResponse(&comments[i]))
	}
	return responses, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return apperror.ErrForbidden
	}

	_, err = s.commentRepo.Delete(ctx, commentID)
	return err
}

func toCommentResponse(comment *model.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:         comment.ID,
		PostID:     comment.PostID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.Author.FullName,
		Content:    comment.Content,
		Likes:      comment.Likes,
		CreatedAt:  comment.CreatedAt,
	}
}
