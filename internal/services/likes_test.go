package services

import (
	"context"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService(t *testing.T) {
	db := setupTestDB(t)
	service := NewLikeService(db, nil)
	ctx := context.Background()

	author := createUser(t, db, 123456, "testuser")
	fan := createUser(t, db, 9876543, "anothertestuser")
	m1 := createMessage(t, db, 1, author.ID, "to be liked")
	m2 := createMessage(t, db, 2, author.ID, "also good")

	t.Run("Like", func(t *testing.T) {
		liked, err := service.Toggle(ctx, fan.ID, m1.ID)
		require.NoError(t, err)
		assert.True(t, liked)

		var likes []models.Like
		db.Where("user_id = ?", fan.ID).Find(&likes)
		require.Len(t, likes, 1)
		assert.Equal(t, m1.ID, likes[0].MessageID)
	})

	t.Run("Liked IDs And List", func(t *testing.T) {
		_, err := service.Toggle(ctx, fan.ID, m2.ID)
		require.NoError(t, err)

		ids, err := service.LikedIDs(ctx, fan.ID)
		require.NoError(t, err)
		assert.Equal(t, map[uint]bool{m1.ID: true, m2.ID: true}, ids)

		messages, err := service.ListLiked(ctx, fan.ID)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		require.NotNil(t, messages[0].User)
		assert.Equal(t, "testuser", messages[0].User.Username)
	})

	t.Run("Unlike", func(t *testing.T) {
		liked, err := service.Toggle(ctx, fan.ID, m1.ID)
		require.NoError(t, err)
		assert.False(t, liked)

		var count int64
		db.Model(&models.Like{}).Where("user_id = ? AND message_id = ?", fan.ID, m1.ID).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Own Message", func(t *testing.T) {
		liked, err := service.Toggle(ctx, author.ID, m1.ID)
		require.NoError(t, err)
		assert.True(t, liked)

		var count int64
		db.Model(&models.Like{}).Where("user_id = ? AND message_id = ?", author.ID, m1.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Missing Message", func(t *testing.T) {
		_, err := service.Toggle(ctx, fan.ID, 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
