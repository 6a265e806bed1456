package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/internal/repository"
	"anoa.com/campusbridge/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	// Dispatch is best-effort: it runs after the primary mutation has
	// committed, and a failed write is logged and swallowed so it can
	// never fail the action that triggered it.
	Dispatch(ctx context.Context, notification *model.Notification)
	GetNotifications(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, recipientID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *notificationService) Dispatch(ctx context.Context, notification *model.Notification) {
	if err := s.repo.Create(ctx, notification); err != nil {
		log.Printf("[notification] dispatch failed (type=%s recipient=%s): %v",
			notification.Type, notification.RecipientID, err)
		return
	}

	// Post-commit event emission for interested consumers.
	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", notification.RecipientID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			if err := s.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
				log.Printf("[notification] publish failed (recipient=%s): %v",
					notification.RecipientID, err)
			}
		}
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.repo.GetByRecipientID(ctx, recipientID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, recipientID, id uuid.UUID) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.RecipientID != recipientID {
		return apperror.ErrForbidden
	}
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}
