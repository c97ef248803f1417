package services

import (
	"context"

	"warbler/internal/models"

	"gorm.io/gorm"
)

type LikeService struct {
	db    *gorm.DB
	stats *StatsService
}

func NewLikeService(db *gorm.DB, stats *StatsService) *LikeService {
	return &LikeService{
		db:    db,
		stats: stats,
	}
}

// Toggle likes the message, or unlikes it when a like already exists, and
// reports whether the message is liked afterwards.
func (s *LikeService) Toggle(ctx context.Context, userID, messageID uint) (bool, error) {
	var liked bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		if err := tx.First(&msg, messageID).Error; err != nil {
			return storeError(err)
		}

		res := tx.Where("user_id = ? AND message_id = ?", userID, messageID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		liked = true
		return storeError(tx.Create(&models.Like{UserID: userID, MessageID: messageID}).Error)
	})
	if err != nil {
		return false, err
	}

	s.stats.Invalidate(ctx, userID)
	return liked, nil
}

// ListLiked returns the messages userID liked, most recently liked first.
func (s *LikeService) ListLiked(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC, likes.id DESC").
		Find(&messages).Error
	return messages, err
}

// LikedIDs returns the set of message ids userID liked.
func (s *LikeService) LikedIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ?", userID).
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
