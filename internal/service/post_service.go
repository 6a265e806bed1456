package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"anoa.com/campusbridge/internal/dto"
	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/internal/repository"
	"anoa.com/campusbridge/pkg/apperror"
	"anoa.com/campusbridge/pkg/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest, media *dto.MediaFile) (*dto.PostResponse, error)
	GetFeed(ctx context.Context, filter dto.PostFilter) (*dto.PaginatedPostResponse, error)
	GetPostByID(ctx context.Context, postID uuid.UUID) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, userID, postID uuid.UUID, req dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
}

type postService struct {
	postRepo     repository.PostRepository
	mediaStorage storage.MediaStorage
	redisClient  *redis.Client
	cooldown     time.Duration
}

func NewPostService(postRepo repository.PostRepository, mediaStorage storage.MediaStorage, redisClient *redis.Client, cooldown time.Duration) PostService {
	return &postService{
		postRepo:     postRepo,
		mediaStorage: mediaStorage,
		redisClient:  redisClient,
		cooldown:     cooldown,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest, media *dto.MediaFile) (*dto.PostResponse, error) {
	content := sanitizeContent(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content must not be empty", apperror.ErrInvalidInput)
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, authorID, "post", s.cooldown)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, authorID, "post")
		return nil, apperror.New(0, fmt.Sprintf("you can only post every %.0f seconds, wait %.0f seconds", s.cooldown.Seconds(), ttl.Seconds()), apperror.ErrRateLimited)
	}

	var mediaURL, mediaType *string
	if media != nil && media.Reader != nil && s.mediaStorage != nil {
		url, err := s.mediaStorage.UploadMedia(ctx, media.Reader, "posts", media.FileName)
		if err != nil {
			_ = ClearRateLimit(ctx, s.redisClient, authorID, "post")
			return nil, err
		}
		mediaURL = &url
		if kind := mediaKind(media.MimeType); kind != "" {
			mediaType = &kind
		}
	}

	post := &model.Post{
		AuthorID:  authorID,
		Content:   content,
		MediaURL:  mediaURL,
		MediaType: mediaType,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, authorID, "post")
		return nil, err
	}

	created, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return toPostResponse(created), nil
}

func (s *postService) GetFeed(ctx context.Context, filter dto.PostFilter) (*dto.PaginatedPostResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 50 {
		limit = 20
	}

	posts, total, err := s.postRepo.FindAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, *toPostResponse(&posts[i]))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &dto.PaginatedPostResponse{
		Data: responses,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *postService) GetPostByID(ctx context.Context, postID uuid.UUID) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return toPostResponse(post), nil
}

func (s *postService) UpdatePost(ctx context.Context, userID, postID uuid.UUID, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	content := sanitizeContent(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content must not be empty", apperror.ErrInvalidInput)
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, apperror.ErrForbidden
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return toPostResponse(post), nil
}

func (s *postService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return apperror.ErrForbidden
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	// Stored media is cleaned up best-effort after the row is gone.
	if post.MediaURL != nil && s.mediaStorage != nil {
		if err := s.mediaStorage.DeleteMedia(ctx, *post.MediaURL); err != nil {
			log.Printf("[post] failed to delete media %s: %v", *post.MediaURL, err)
		}
	}

	return nil
}

// mediaKind reduces a mime type to the stored media type tag.
func mediaKind(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	if idx := strings.Index(mimeType, "/"); idx > 0 {
		return mimeType[:idx]
	}
	return mimeType
}

func toPostResponse(post *model.Post) *dto.PostResponse {
	return &dto.PostResponse{
		ID:           post.ID,
		AuthorID:     post.AuthorID,
		AuthorName:   post.Author.FullName,
		Content:      post.Content,
		MediaURL:     post.MediaURL,
		MediaType:    post.MediaType,
		Likes:        post.Likes,
		CommentCount: post.CommentCount,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}
}
