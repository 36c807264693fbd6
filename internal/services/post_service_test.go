package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelog/drivelog-be/internal/apperr"
)

func TestPostLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db, nil)
	alice := seedUser(t, db)
	bob := seedUser(t, db)

	post, err := svc.CreatePost(alice.ID, PostCreate{
		Title: "Weekend detailing",
		Body:  "Clay bar, polish, wax. Eight hours well spent.",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, post.AuthorID)

	t.Run("anyone can read", func(t *testing.T) {
		got, err := svc.GetPostByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Title, got.Title)
	})

	t.Run("non-author cannot modify", func(t *testing.T) {
		title := "hijacked"
		_, err := svc.UpdatePost(post.ID, bob.ID, PostUpdate{Title: &title})
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("non-author cannot delete", func(t *testing.T) {
		err := svc.DeletePost(post.ID, bob.ID)
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("author can modify", func(t *testing.T) {
		title := "Weekend detailing, part 2"
		got, err := svc.UpdatePost(post.ID, alice.ID, PostUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Weekend detailing, part 2", got.Title)
	})

	t.Run("author can delete", func(t *testing.T) {
		require.NoError(t, svc.DeletePost(post.ID, alice.ID))
		_, err := svc.GetPostByID(post.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := svc.GetPostByID("missing")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestGetPostsFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db, nil)
	alice := seedUser(t, db)
	bob := seedUser(t, db)

	for i := 0; i < 3; i++ {
		_, err := svc.CreatePost(alice.ID, PostCreate{Title: "a", Body: "b"})
		require.NoError(t, err)
	}
	_, err := svc.CreatePost(bob.ID, PostCreate{Title: "c", Body: "d"})
	require.NoError(t, err)

	t.Run("by author", func(t *testing.T) {
		posts, err := svc.GetPosts(PostFilter{AuthorID: alice.ID})
		require.NoError(t, err)
		assert.Len(t, posts, 3)
	})

	t.Run("limit and offset", func(t *testing.T) {
		posts, err := svc.GetPosts(PostFilter{Limit: 2, Offset: 3})
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})
}
