package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/internal/models"
)

func TestCreateCommentNotifiesPostAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	post := createTestPost(t, env, alice, "Discussable")

	comment, err := env.comments.Create(ctx, bob.ID.String(), &CreateCommentRequest{
		PostID:  post.ID.String(),
		Content: "great read",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", comment.Author.Username)
	assert.Nil(t, comment.ParentID)

	notifications := notificationsFor(t, env.db, alice.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationComment, notifications[0].Kind)
	assert.Equal(t, bob.ID, notifications[0].SenderID)
}

func TestCommentingOwnPostDoesNotNotify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	post := createTestPost(t, env, alice, "Soliloquy")

	_, err := env.comments.Create(ctx, alice.ID.String(), &CreateCommentRequest{
		PostID:  post.ID.String(),
		Content: "first!",
	})
	require.NoError(t, err)

	assert.Empty(t, notificationsFor(t, env.db, alice.ID))
}

func TestReplyNotifiesPostAuthorNotParentAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	carol := createTestUser(t, env.db, "carol")
	post := createTestPost(t, env, alice, "Discussable")

	parent, err := env.comments.Create(ctx, bob.ID.String(), &CreateCommentRequest{
		PostID:  post.ID.String(),
		Content: "great read",
	})
	require.NoError(t, err)

	parentID := parent.ID.String()
	_, err = env.comments.Create(ctx, carol.ID.String(), &CreateCommentRequest{
		PostID:   post.ID.String(),
		Content:  "agreed",
		ParentID: &parentID,
	})
	require.NoError(t, err)

	// The reply notifies the post author, never the parent's author.
	assert.Len(t, notificationsFor(t, env.db, alice.ID), 2)
	assert.Empty(t, notificationsFor(t, env.db, bob.ID))
}

func TestReplyParentMustBelongToSamePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	first := createTestPost(t, env, alice, "First Post")
	second := createTestPost(t, env, alice, "Second Post")

	parent, err := env.comments.Create(ctx, alice.ID.String(), &CreateCommentRequest{
		PostID:  first.ID.String(),
		Content: "on the first post",
	})
	require.NoError(t, err)

	parentID := parent.ID.String()
	_, err = env.comments.Create(ctx, alice.ID.String(), &CreateCommentRequest{
		PostID:   second.ID.String(),
		Content:  "cross-post reply",
		ParentID: &parentID,
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	missing := uuid.NewString()
	_, err = env.comments.Create(ctx, alice.ID.String(), &CreateCommentRequest{
		PostID:   second.ID.String(),
		Content:  "orphan reply",
		ParentID: &missing,
	})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestAssembleThread(t *testing.T) {
	top1 := &models.Comment{ID: uuid.New(), Content: "top 1"}
	top2 := &models.Comment{ID: uuid.New(), Content: "top 2"}
	reply1 := &models.Comment{ID: uuid.New(), Content: "reply 1", ParentID: &top1.ID}
	reply2 := &models.Comment{ID: uuid.New(), Content: "reply 2", ParentID: &top1.ID}
	deepReply := &models.Comment{ID: uuid.New(), Content: "reply to a reply", ParentID: &reply1.ID}

	threads := AssembleThread([]*models.Comment{top1, reply1, top2, reply2, deepReply})

	require.Len(t, threads, 2)
	assert.Equal(t, top1.ID, threads[0].Comment.ID)
	assert.Equal(t, top2.ID, threads[1].Comment.ID)

	require.Len(t, threads[0].Replies, 2)
	assert.Equal(t, reply1.ID, threads[0].Replies[0].ID)
	assert.Equal(t, reply2.ID, threads[0].Replies[1].ID)

	// Replies to replies are flattened out of the tree, and a childless
	// thread carries an empty slice rather than nil.
	assert.NotNil(t, threads[1].Replies)
	assert.Empty(t, threads[1].Replies)
}

func TestAssembleThreadEmptyInput(t *testing.T) {
	assert.Empty(t, AssembleThread(nil))
	assert.NotNil(t, AssembleThread(nil))
}

func TestGetThreadOrdersOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	post := createTestPost(t, env, alice, "Threaded")

	var ids []uuid.UUID
	for _, content := range []string{"one", "two", "three"} {
		c, err := env.comments.Create(ctx, alice.ID.String(), &CreateCommentRequest{
			PostID:  post.ID.String(),
			Content: content,
		})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	threads, err := env.comments.GetThread(ctx, post.ID.String())
	require.NoError(t, err)
	require.Len(t, threads, 3)
	for i, thread := range threads {
		assert.Equal(t, ids[i], thread.Comment.ID)
	}
}

func TestDeleteCommentIsAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	post := createTestPost(t, env, alice, "Moderated")

	comment, err := env.comments.Create(ctx, bob.ID.String(), &CreateCommentRequest{
		PostID:  post.ID.String(),
		Content: "delete me",
	})
	require.NoError(t, err)

	err = env.comments.Delete(ctx, alice.ID.String(), comment.ID.String())
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, env.comments.Delete(ctx, bob.ID.String(), comment.ID.String()))

	err = env.comments.Delete(ctx, bob.ID.String(), comment.ID.String())
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestToggleCommentLikeNeverNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	post := createTestPost(t, env, alice, "Quotable")

	comment, err := env.comments.Create(ctx, alice.ID.String(), &CreateCommentRequest{
		PostID:  post.ID.String(),
		Content: "like this",
	})
	require.NoError(t, err)

	liked, toggle, err := env.comments.ToggleLike(ctx, bob.ID.String(), comment.ID.String())
	require.NoError(t, err)
	assert.Equal(t, comment.ID, liked.ID)
	assert.True(t, toggle.Liked)
	require.Len(t, toggle.Likes, 1)
	assert.Equal(t, bob.ID, toggle.Likes[0])

	// Comment likes are silent.
	assert.Empty(t, notificationsFor(t, env.db, alice.ID))

	_, toggle, err = env.comments.ToggleLike(ctx, bob.ID.String(), comment.ID.String())
	require.NoError(t, err)
	assert.False(t, toggle.Liked)
	assert.Empty(t, toggle.Likes)
}
