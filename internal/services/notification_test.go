package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/internal/models"
)

func TestNotificationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	carol := createTestUser(t, env.db, "carol")
	post := createTestPost(t, env, alice, "Busy Post")

	// A like, a comment, and a follow land in alice's inbox.
	_, err := env.posts.ToggleLike(ctx, bob.ID.String(), post.ID.String())
	require.NoError(t, err)
	_, err = env.comments.Create(ctx, carol.ID.String(), &CreateCommentRequest{
		PostID:  post.ID.String(),
		Content: "nice",
	})
	require.NoError(t, err)
	require.NoError(t, env.users.Follow(ctx, bob.ID.String(), alice.ID.String()))

	list, err := env.notifications.List(ctx, alice.ID.String())
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, n := range list {
		assert.False(t, n.IsRead)
		assert.NotEmpty(t, n.Sender.Username)
	}

	count, err := env.notifications.UnreadCount(ctx, alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	marked, err := env.notifications.MarkRead(ctx, alice.ID.String(), list[0].ID.String())
	require.NoError(t, err)
	assert.True(t, marked.IsRead)

	count, err = env.notifications.UnreadCount(ctx, alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, env.notifications.MarkAllRead(ctx, alice.ID.String()))

	count, err = env.notifications.UnreadCount(ctx, alice.ID.String())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkReadIsReceiverOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")

	require.NoError(t, env.users.Follow(ctx, bob.ID.String(), alice.ID.String()))

	list, err := env.notifications.List(ctx, alice.ID.String())
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = env.notifications.MarkRead(ctx, bob.ID.String(), list[0].ID.String())
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = env.notifications.MarkRead(ctx, alice.ID.String(), list[0].ID.String())
	require.NoError(t, err)
}

func TestNotificationListResolvesRelatedPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	post := createTestPost(t, env, alice, "Referenced")

	_, err := env.posts.ToggleLike(ctx, bob.ID.String(), post.ID.String())
	require.NoError(t, err)
	require.NoError(t, env.users.Follow(ctx, bob.ID.String(), alice.ID.String()))

	list, err := env.notifications.List(ctx, alice.ID.String())
	require.NoError(t, err)
	require.Len(t, list, 2)

	byKind := map[models.NotificationKind]*models.Notification{}
	for _, n := range list {
		byKind[n.Kind] = n
	}

	like := byKind[models.NotificationLike]
	require.NotNil(t, like)
	require.NotNil(t, like.Post)
	assert.Equal(t, "referenced", like.Post.Slug)

	follow := byKind[models.NotificationFollow]
	require.NotNil(t, follow)
	assert.Nil(t, follow.Post)
}
