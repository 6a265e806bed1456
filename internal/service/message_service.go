package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"anoa.com/campusbridge/internal/dto"
	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/internal/repository"
	"anoa.com/campusbridge/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type MessageService interface {
	SendMessage(ctx context.Context, senderID uuid.UUID, req dto.SendMessageRequest) (*dto.MessageResponse, error)
	// GetThread merges both directions between the two users into one
	// sequence ascending by creation time.
	GetThread(ctx context.Context, userID, otherID uuid.UUID) ([]dto.MessageResponse, error)
	// GetInbox returns every message the user sent or received, newest
	// first.
	GetInbox(ctx context.Context, userID uuid.UUID) ([]dto.MessageResponse, error)
	MarkAsRead(ctx context.Context, userID, messageID uuid.UUID) error
	DeleteMessage(ctx context.Context, userID, messageID uuid.UUID) error
}

type messageService struct {
	messageRepo         repository.MessageRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
	redisClient         *redis.Client
	cooldown            time.Duration
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, notificationService NotificationService, redisClient *redis.Client, cooldown time.Duration) MessageService {
	return &messageService{
		messageRepo:         messageRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		redisClient:         redisClient,
		cooldown:            cooldown,
	}
}

func (s *messageService) SendMessage(ctx context.Context, senderID uuid.UUID, req dto.SendMessageRequest) (*dto.MessageResponse, error) {
	content := sanitizeContent(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content must not be empty", apperror.ErrInvalidInput)
	}

	targetRole := model.Role(req.TargetRole)
	if !targetRole.Valid() {
		return nil, fmt.Errorf("%w: unknown target role %q", apperror.ErrInvalidInput, req.TargetRole)
	}

	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	// Coarse role/branch gate. Explicit recipients are not re-checked
	// individually afterwards.
	if !CanSend(sender, targetRole, req.TargetBranch) {
		return nil, apperror.ErrForbidden
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, senderID, "message", s.cooldown)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, senderID, "message")
		return nil, apperror.New(0, fmt.Sprintf("you are sending too fast, wait %.0f seconds", ttl.Seconds()), apperror.ErrRateLimited)
	}

	messageType, recipients, err := s.resolveRecipients(ctx, sender, targetRole, req)
	if err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, senderID, "message")
		return nil, err
	}

	message := &model.Message{
		SenderID:     sender.ID,
		Sender:       *sender,
		Content:      content,
		MessageType:  messageType,
		TargetRole:   &targetRole,
		TargetBranch: req.TargetBranch,
		Recipients:   recipients,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, senderID, "message")
		return nil, err
	}

	// Fan-out after the message committed: one notification per resolved
	// recipient so read state stays per-user.
	for _, recipient := range recipients {
		s.notificationService.Dispatch(ctx, &model.Notification{
			RecipientID: recipient.ID,
			ActorID:     sender.ID,
			Type:        model.NotificationMessage,
			ReferenceID: message.ID,
			Content:     fmt.Sprintf("New message from %s", sender.FullName),
		})
	}

	return toMessageResponse(message), nil
}

// resolveRecipients expands the request into the concrete recipient
// snapshot frozen into the message. An empty result is valid.
func (s *messageService) resolveRecipients(ctx context.Context, sender *model.User, targetRole model.Role, req dto.SendMessageRequest) (model.MessageType, []model.User, error) {
	if len(req.RecipientIDs) > 0 {
		ids := make([]uuid.UUID, 0, len(req.RecipientIDs))
		for _, raw := range req.RecipientIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return "", nil, fmt.Errorf("%w: invalid recipient id %q", apperror.ErrInvalidInput, raw)
			}
			ids = append(ids, id)
		}

		users, err := s.userRepo.FindByIDs(ctx, ids)
		if err != nil {
			return "", nil, err
		}
		if len(users) != len(ids) {
			return "", nil, fmt.Errorf("%w: one or more recipients do not exist", apperror.ErrNotFound)
		}
		return model.MessageIndividual, users, nil
	}

	branch := req.TargetBranch
	if branch == nil && sender.Role == model.RoleTeacher {
		branch = sender.Branch
	}
	// Officials without an explicit branch reach every branch.

	users, err := s.userRepo.FindByRole(ctx, targetRole, branch)
	if err != nil {
		return "", nil, err
	}

	recipients := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.ID == sender.ID {
			continue
		}
		recipients = append(recipients, u)
	}

	return model.MessageGroup, recipients, nil
}

func (s *messageService) GetThread(ctx context.Context, userID, otherID uuid.UUID) ([]dto.MessageResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, otherID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindBetween(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}

	// Stable sort keeps insertion order on equal timestamps.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return toMessageResponses(messages), nil
}

func (s *messageService) GetInbox(ctx context.Context, userID uuid.UUID) ([]dto.MessageResponse, error) {
	messages, err := s.messageRepo.FindForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})

	return toMessageResponses(messages), nil
}

func (s *messageService) MarkAsRead(ctx context.Context, userID, messageID uuid.UUID) error {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}

	isRecipient := false
	for _, recipient := range message.Recipients {
		if recipient.ID == userID {
			isRecipient = true
			break
		}
	}
	if !isRecipient {
		return apperror.ErrForbidden
	}

	return s.messageRepo.MarkAsRead(ctx, messageID)
}

func (s *messageService) DeleteMessage(ctx context.Context, userID, messageID uuid.UUID) error {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != userID {
		return apperror.ErrForbidden
	}
	return s.messageRepo.Delete(ctx, messageID)
}

func toMessageResponse(message *model.Message) *dto.MessageResponse {
	recipientIDs := make([]uuid.UUID, 0, len(message.Recipients))
	for _, recipient := range message.Recipients {
		recipientIDs = append(recipientIDs, recipient.ID)
	}

	return &dto.MessageResponse{
		ID:           message.ID,
		SenderID:     message.SenderID,
		SenderName:   message.Sender.FullName,
		Content:      message.Content,
		MessageType:  message.MessageType,
		TargetRole:   message.TargetRole,
		TargetBranch: message.TargetBranch,
		RecipientIDs: recipientIDs,
		IsRead:       message.IsRead,
		CreatedAt:    message.CreatedAt,
	}
}

func toMessageResponses(messages []model.Message) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, *toMessageResponse(&messages[i]))
	}
	return responses
}
