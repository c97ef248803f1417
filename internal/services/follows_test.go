package services

import (
	"context"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService(t *testing.T) {
	db := setupTestDB(t)
	service := NewFollowService(db, nil)
	ctx := context.Background()
	u1 := createUser(t, db, 1111, "testuser1")
	u2 := createUser(t, db, 2222, "testuser2")

	t.Run("No Relations Initially", func(t *testing.T) {
		followers, err := service.ListFollowers(ctx, u1.ID)
		require.NoError(t, err)
		assert.Empty(t, followers)
	})

	t.Run("Follow", func(t *testing.T) {
		require.NoError(t, service.Follow(ctx, u1.ID, u2.ID))

		following, err := service.ListFollowing(ctx, u1.ID)
		require.NoError(t, err)
		require.Len(t, following, 1)
		assert.Equal(t, uint(2222), following[0].ID)

		followers, err := service.ListFollowers(ctx, u2.ID)
		require.NoError(t, err)
		require.Len(t, followers, 1)
		assert.Equal(t, uint(1111), followers[0].ID)

		reverse, err := service.ListFollowing(ctx, u2.ID)
		require.NoError(t, err)
		assert.Empty(t, reverse)
		reverse, err = service.ListFollowers(ctx, u1.ID)
		require.NoError(t, err)
		assert.Empty(t, reverse)
	})

	t.Run("Membership", func(t *testing.T) {
		ok, err := service.IsFollowing(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = service.IsFollowing(ctx, u2.ID, u1.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = service.IsFollowedBy(ctx, u2.ID, u1.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = service.IsFollowedBy(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Follow Twice Is Idempotent", func(t *testing.T) {
		require.NoError(t, service.Follow(ctx, u1.ID, u2.ID))

		var count int64
		db.Model(&models.Follow{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Following IDs", func(t *testing.T) {
		ids, err := service.FollowingIDs(ctx, u1.ID)
		require.NoError(t, err)
		assert.Equal(t, map[uint]bool{2222: true}, ids)
	})

	t.Run("Toggle", func(t *testing.T) {
		following, err := service.Toggle(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		assert.False(t, following)

		ok, _ := service.IsFollowing(ctx, u1.ID, u2.ID)
		assert.False(t, ok)

		following, err = service.Toggle(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		assert.True(t, following)
	})

	t.Run("Unfollow", func(t *testing.T) {
		require.NoError(t, service.Unfollow(ctx, u1.ID, u2.ID))
		following, err := service.ListFollowing(ctx, u1.ID)
		require.NoError(t, err)
		assert.Empty(t, following)

		// Unfollowing again is harmless
		assert.NoError(t, service.Unfollow(ctx, u1.ID, u2.ID))
	})

	t.Run("Self Follow Rejected", func(t *testing.T) {
		err := service.Follow(ctx, u1.ID, u1.ID)
		assert.ErrorIs(t, err, ErrSelfFollow)
	})

	t.Run("Unknown User", func(t *testing.T) {
		err := service.Follow(ctx, u1.ID, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
