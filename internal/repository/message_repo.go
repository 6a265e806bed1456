package repository

import (
	"context"
	"errors"

	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	// Create persists the message together with its frozen recipient set.
	Create(ctx context.Context, message *model.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	// FindBetween returns all messages exchanged between the two users, in
	// either direction. Ordering is left to the assembler.
	FindBetween(ctx context.Context, userA, userB uuid.UUID) ([]model.Message, error)
	// FindForUser returns messages the user sent or received.
	FindForUser(ctx context.Context, userID uuid.UUID) ([]model.Message, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var message model.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipients").
		First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) FindBetween(ctx context.Context, userA, userB uuid.UUID) ([]model.Message, error) {
	var messages []model.Message
	recipientOf := r.db.Table("message_recipients").Select("message_id").Where("user_id = ?", userB)
	recipientOfReverse := r.db.Table("message_recipients").Select("message_id").Where("user_id = ?", userA)

	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipients").
		Where("(sender_id = ? AND id IN (?)) OR (sender_id = ? AND id IN (?))",
			userA, recipientOf, userB, recipientOfReverse).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]model.Message, error) {
	var messages []model.Message
	recipientOf := r.db.Table("message_recipients").Select("message_id").Where("user_id = ?", userID)

	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipients").
		Where("sender_id = ? OR id IN (?)", userID, recipientOf).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *messageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM message_recipients WHERE message_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Message{}, "id = ?", id).Error
	})
}
