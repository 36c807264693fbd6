package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelog/drivelog-be/internal/apperr"
)

func TestCommentLifecycle(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db, nil)
	svc := NewCommentService(db)
	alice := seedUser(t, db)
	bob := seedUser(t, db)

	post, err := posts.CreatePost(alice.ID, PostCreate{Title: "t", Body: "b"})
	require.NoError(t, err)

	comment, err := svc.CreateComment(post.ID, bob.ID, "Looks great")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, comment.AuthorID)

	t.Run("commenting on a missing post", func(t *testing.T) {
		_, err := svc.CreateComment("missing", bob.ID, "hello?")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("anyone can list", func(t *testing.T) {
		comments, err := svc.GetCommentsByPost(post.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})

	t.Run("post author cannot edit someone else's comment", func(t *testing.T) {
		_, err := svc.UpdateComment(comment.ID, post.ID, alice.ID, "edited")
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("comment author can edit", func(t *testing.T) {
		got, err := svc.UpdateComment(comment.ID, post.ID, bob.ID, "Looks even better")
		require.NoError(t, err)
		assert.Equal(t, "Looks even better", got.Body)
	})

	t.Run("non-author cannot delete", func(t *testing.T) {
		err := svc.DeleteComment(comment.ID, post.ID, alice.ID)
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("author can delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteComment(comment.ID, post.ID, bob.ID))
		comments, err := svc.GetCommentsByPost(post.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("comment id under the wrong post is hidden", func(t *testing.T) {
		other, err := posts.CreatePost(alice.ID, PostCreate{Title: "t2", Body: "b2"})
		require.NoError(t, err)
		c, err := svc.CreateComment(other.ID, bob.ID, "misplaced")
		require.NoError(t, err)

		_, err = svc.UpdateComment(c.ID, post.ID, bob.ID, "edited")
		assert.True(t, apperr.IsNotFound(err))
	})
}
