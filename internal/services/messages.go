package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"warbler/internal/models"

	"gorm.io/gorm"
)

type MessageService struct {
	db    *gorm.DB
	stats *StatsService
}

func NewMessageService(db *gorm.DB, stats *StatsService) *MessageService {
	return &MessageService{
		db:    db,
		stats: stats,
	}
}

func (s *MessageService) Create(ctx context.Context, userID uint, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) > models.MaxMessageLength {
		return nil, ErrInvalidMessage
	}

	msg := models.Message{Text: text, UserID: userID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, userID).Error; err != nil {
			return storeError(err)
		}
		return storeError(tx.Create(&msg).Error)
	})
	if err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx, userID)
	return &msg, nil
}

func (s *MessageService) Get(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.db.WithContext(ctx).Preload("User").First(&msg, id).Error; err != nil {
		return nil, storeError(err)
	}
	return &msg, nil
}

// Delete removes a message owned by userID together with its likes.
func (s *MessageService) Delete(ctx context.Context, userID, id uint) error {
	var likers []uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		if err := tx.First(&msg, id).Error; err != nil {
			return storeError(err)
		}
		if msg.UserID != userID {
			return ErrForbidden
		}

		if err := tx.Model(&models.Like{}).Where("message_id = ?", id).Pluck("user_id", &likers).Error; err != nil {
			return err
		}
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&msg).Error
	})
	if err != nil {
		return err
	}

	s.stats.Invalidate(ctx, append(likers, userID)...)
	return nil
}

// ListForUser returns the newest messages written by userID.
func (s *MessageService) ListForUser(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Timeline returns the newest messages by userID and the users they follow.
func (s *MessageService) Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	db := s.db.WithContext(ctx)
	followed := db.Model(&models.Follow{}).Select("user_being_followed_id").Where("user_following_id = ?", userID)

	var messages []models.Message
	err := db.
		Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
