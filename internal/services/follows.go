package services

import (
	"context"

	"warbler/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowService struct {
	db    *gorm.DB
	stats *StatsService
}

func NewFollowService(db *gorm.DB, stats *StatsService) *FollowService {
	return &FollowService{
		db:    db,
		stats: stats,
	}
}

// Follow makes followerID follow followedID. Following twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, followedID).Error; err != nil {
			return storeError(err)
		}
		edge := models.Follow{UserBeingFollowedID: followedID, UserFollowingID: followerID}
		return storeError(tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error)
	})
	if err != nil {
		return err
	}

	s.stats.Invalidate(ctx, followerID, followedID)
	return nil
}

// Unfollow removes the edge if present.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	err := s.db.WithContext(ctx).
		Where("user_being_followed_id = ? AND user_following_id = ?", followedID, followerID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return err
	}

	s.stats.Invalidate(ctx, followerID, followedID)
	return nil
}

// Toggle removes an existing edge or creates a missing one and reports
// whether followerID follows followedID afterwards.
func (s *FollowService) Toggle(ctx context.Context, followerID, followedID uint) (bool, error) {
	following, err := s.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		return false, err
	}
	if following {
		return false, s.Unfollow(ctx, followerID, followedID)
	}
	return true, s.Follow(ctx, followerID, followedID)
}

// IsFollowing reports whether userID follows otherID.
func (s *FollowService) IsFollowing(ctx context.Context, userID, otherID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_being_followed_id = ? AND user_following_id = ?", otherID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsFollowedBy reports whether otherID follows userID.
func (s *FollowService) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.IsFollowing(ctx, otherID, userID)
}

// ListFollowing returns the users userID follows, oldest edge first.
func (s *FollowService) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.user_being_followed_id = users.id").
		Where("follows.user_following_id = ?", userID).
		Order("follows.created_at, users.id").
		Find(&users).Error
	return users, err
}

// ListFollowers returns the users following userID, oldest edge first.
func (s *FollowService) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.user_following_id = users.id").
		Where("follows.user_being_followed_id = ?", userID).
		Order("follows.created_at, users.id").
		Find(&users).Error
	return users, err
}

// FollowingIDs returns the set of user ids userID follows.
func (s *FollowService) FollowingIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_following_id = ?", userID).
		Pluck("user_being_followed_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
