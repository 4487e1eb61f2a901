package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/internal/models"
)

func TestFollowCreatesEdgeCountsAndNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")

	require.NoError(t, env.users.Follow(ctx, alice.ID.String(), bob.ID.String()))

	followers, err := env.users.GetFollowers(ctx, bob.ID.String())
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)

	following, err := env.users.GetFollowing(ctx, alice.ID.String())
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)

	var refreshedAlice, refreshedBob models.User
	require.NoError(t, env.db.First(&refreshedAlice, "id = ?", alice.ID).Error)
	require.NoError(t, env.db.First(&refreshedBob, "id = ?", bob.ID).Error)
	assert.Equal(t, int64(1), refreshedAlice.Following)
	assert.Equal(t, int64(1), refreshedBob.Followers)

	notifications := notificationsFor(t, env.db, bob.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationFollow, notifications[0].Kind)
	assert.Equal(t, alice.ID, notifications[0].SenderID)
	assert.Nil(t, notifications[0].PostID)
}

func TestFollowRejectsSelfAndMissingTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")

	err := env.users.Follow(ctx, alice.ID.String(), alice.ID.String())
	assert.Equal(t, KindConflict, KindOf(err))

	err = env.users.Follow(ctx, alice.ID.String(), uuid.NewString())
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestFollowTwiceIsRejectedWithoutSideEffects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")

	require.NoError(t, env.users.Follow(ctx, alice.ID.String(), bob.ID.String()))

	err := env.users.Follow(ctx, alice.ID.String(), bob.ID.String())
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "already following", err.Error())

	assert.Len(t, notificationsFor(t, env.db, bob.ID), 1)

	var refreshedBob models.User
	require.NoError(t, env.db.First(&refreshedBob, "id = ?", bob.ID).Error)
	assert.Equal(t, int64(1), refreshedBob.Followers)
}

func TestUnfollowRemovesEdgeButKeepsNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")

	require.NoError(t, env.users.Follow(ctx, alice.ID.String(), bob.ID.String()))
	require.NoError(t, env.users.Unfollow(ctx, alice.ID.String(), bob.ID.String()))

	following, err := env.users.GetFollowing(ctx, alice.ID.String())
	require.NoError(t, err)
	assert.Empty(t, following)

	var refreshedBob models.User
	require.NoError(t, env.db.First(&refreshedBob, "id = ?", bob.ID).Error)
	assert.Equal(t, int64(0), refreshedBob.Followers)

	// The follow notification outlives the edge.
	assert.Len(t, notificationsFor(t, env.db, bob.ID), 1)
}

func TestUnfollowWithoutEdgeIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")

	err := env.users.Unfollow(ctx, alice.ID.String(), bob.ID.String())
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")

	bio := "writes about distributed systems"
	updated, err := env.users.UpdateProfile(ctx, alice.ID.String(), alice.ID.String(), &UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)

	_, err = env.users.UpdateProfile(ctx, bob.ID.String(), alice.ID.String(), &UpdateProfileRequest{Bio: &bio})
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestDeleteAccountRemovesEdgesAndNotifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")

	require.NoError(t, env.users.Follow(ctx, alice.ID.String(), bob.ID.String()))
	require.NoError(t, env.users.Follow(ctx, bob.ID.String(), alice.ID.String()))

	require.NoError(t, env.users.DeleteAccount(ctx, alice.ID.String(), alice.ID.String()))

	var edges int64
	require.NoError(t, env.db.Model(&models.Follow{}).Count(&edges).Error)
	assert.Zero(t, edges)

	assert.Empty(t, notificationsFor(t, env.db, alice.ID))
	assert.Empty(t, notificationsFor(t, env.db, bob.ID))

	_, err := env.users.GetProfile(ctx, alice.ID.String())
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = env.users.GetProfile(ctx, bob.ID.String())
	assert.NoError(t, err)

	err = env.users.DeleteAccount(ctx, bob.ID.String(), alice.ID.String())
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	createTestUser(t, env.db, "alice")

	_, err := env.users.Search(ctx, "", 0, 20)
	assert.Equal(t, KindValidation, KindOf(err))

	found, err := env.users.Search(ctx, "ali", 0, 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice", found[0].Username)
}
