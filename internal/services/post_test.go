package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/internal/models"
)

func createTestPost(t *testing.T, env *testEnv, author *models.User, title string) *models.Post {
	t.Helper()

	post, err := env.posts.Create(context.Background(), author.ID.String(), &CreatePostRequest{
		Title:   title,
		Content: "some content",
	})
	require.NoError(t, err)
	return post
}

func TestCreatePostDerivesSlug(t *testing.T) {
	env := newTestEnv(t)
	alice := createTestUser(t, env.db, "alice")

	post := createTestPost(t, env, alice, "Hello & World!!")
	assert.Equal(t, "hello-and-world", post.Slug)
	assert.Equal(t, "General", post.Category)
	assert.Equal(t, "alice", post.Author.Username)

	fetched, err := env.posts.GetBySlug(context.Background(), "hello-and-world")
	require.NoError(t, err)
	assert.Equal(t, post.ID, fetched.ID)
}

func TestCreatePostRejectsDuplicateSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")

	createTestPost(t, env, alice, "Same Title")

	// Distinct titles that normalize to the same slug still collide.
	_, err := env.posts.Create(ctx, bob.ID.String(), &CreatePostRequest{
		Title:   "same   title",
		Content: "other content",
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestUpdatePostReslugsOnTitleChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	post := createTestPost(t, env, alice, "Original Title")

	title := "Brand New Title"
	updated, err := env.posts.Update(ctx, alice.ID.String(), post.ID.String(), &UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "brand-new-title", updated.Slug)

	_, err = env.posts.Update(ctx, bob.ID.String(), post.ID.String(), &UpdatePostRequest{Title: &title})
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestDeletePostIsAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	post := createTestPost(t, env, alice, "Short Lived")

	err := env.posts.Delete(ctx, bob.ID.String(), post.ID.String())
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, env.posts.Delete(ctx, alice.ID.String(), post.ID.String()))

	_, err = env.posts.GetByID(ctx, post.ID.String())
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestTogglePostLikeIsAnInvolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	post := createTestPost(t, env, alice, "Likeable")

	toggle, err := env.posts.ToggleLike(ctx, bob.ID.String(), post.ID.String())
	require.NoError(t, err)
	assert.True(t, toggle.Liked)
	require.Len(t, toggle.Likes, 1)
	assert.Equal(t, bob.ID, toggle.Likes[0])

	toggle, err = env.posts.ToggleLike(ctx, bob.ID.String(), post.ID.String())
	require.NoError(t, err)
	assert.False(t, toggle.Liked)
	assert.Empty(t, toggle.Likes)

	var refreshed models.Post
	require.NoError(t, env.db.First(&refreshed, "id = ?", post.ID).Error)
	assert.Equal(t, int64(0), refreshed.LikeCount)
}

func TestPostLikeNotifiesAuthorOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")
	post := createTestPost(t, env, alice, "Likeable")

	_, err := env.posts.ToggleLike(ctx, bob.ID.String(), post.ID.String())
	require.NoError(t, err)

	notifications := notificationsFor(t, env.db, alice.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationLike, notifications[0].Kind)
	assert.Equal(t, bob.ID, notifications[0].SenderID)
	require.NotNil(t, notifications[0].PostID)
	assert.Equal(t, post.ID, *notifications[0].PostID)

	// Unliking never notifies.
	_, err = env.posts.ToggleLike(ctx, bob.ID.String(), post.ID.String())
	require.NoError(t, err)
	assert.Len(t, notificationsFor(t, env.db, alice.ID), 1)
}

func TestLikingOwnPostDoesNotNotify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	post := createTestPost(t, env, alice, "Self Regard")

	toggle, err := env.posts.ToggleLike(ctx, alice.ID.String(), post.ID.String())
	require.NoError(t, err)
	assert.True(t, toggle.Liked)

	assert.Empty(t, notificationsFor(t, env.db, alice.ID))
}

func TestSearchPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := createTestUser(t, env.db, "alice")
	createTestPost(t, env, alice, "Gardening for Gophers")
	createTestPost(t, env, alice, "Unrelated")

	_, err := env.posts.Search(ctx, "", 0, 20)
	assert.Equal(t, KindValidation, KindOf(err))

	found, err := env.posts.Search(ctx, "gopher", 0, 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "gardening-for-gophers", found[0].Slug)
}
