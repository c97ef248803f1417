package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"warbler/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const statsTTL = 5 * time.Minute

// ProfileStats are the four counters shown on a profile page.
type ProfileStats struct {
	Messages  int64 `json:"messages"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
}

// StatsService counts profile stats, caching them in Redis when available.
// A nil Redis client skips the cache. Invalidate is also safe on a nil
// *StatsService, so write paths may run without one.
type StatsService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *zap.Logger
}

func NewStatsService(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *StatsService {
	return &StatsService{
		db:     db,
		rdb:    rdb,
		logger: logger,
	}
}

func statsKey(userID uint) string {
	return fmt.Sprintf("warbler:stats:%d", userID)
}

func (s *StatsService) ForUser(ctx context.Context, userID uint) (ProfileStats, error) {
	var stats ProfileStats

	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, statsKey(userID)).Result()
		if err == nil {
			if err := json.Unmarshal([]byte(val), &stats); err == nil {
				return stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Debug("Stats cache unavailable", zap.Error(err))
		}
	}

	stats, err := s.count(ctx, userID)
	if err != nil {
		return ProfileStats{}, err
	}

	if s.rdb != nil {
		data, _ := json.Marshal(stats)
		if err := s.rdb.Set(ctx, statsKey(userID), data, statsTTL).Err(); err != nil {
			s.logger.Debug("Failed to cache stats", zap.Error(err))
		}
	}

	return stats, nil
}

func (s *StatsService) count(ctx context.Context, userID uint) (ProfileStats, error) {
	var stats ProfileStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Message{}).Where("user_id = ?", userID).Count(&stats.Messages).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Follow{}).Where("user_following_id = ?", userID).Count(&stats.Following).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Follow{}).Where("user_being_followed_id = ?", userID).Count(&stats.Followers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Like{}).Where("user_id = ?", userID).Count(&stats.Likes).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// Invalidate drops cached stats for the given users.
func (s *StatsService) Invalidate(ctx context.Context, userIDs ...uint) {
	if s == nil || s.rdb == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = statsKey(id)
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", zap.Error(err), zap.Uints("user_ids", userIDs))
	}
}
