package server

import (
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentFlow(t *testing.T) {
	_, app, db := setupTestServer(t)

	authorToken := registerAndLogin(t, app, "blogger")
	readerToken := registerAndLogin(t, app, "lurker")

	_, post := doJSON(t, app, http.MethodPost, "/api/posts", authorToken, map[string]any{
		"title": "Commentable", "content": "discuss", "categories": []string{"talk"},
	})
	postID := idString(post["id"])

	t.Run("Anonymous Comment Denied", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/posts/"+postID+"/comments", "", map[string]string{
			"text": "drive-by",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Blank Text Keyed By Field", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/posts/"+postID+"/comments", readerToken, map[string]string{
			"text": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		fields, ok := body["fields"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "This field may not be blank.", fields["text"])
	})

	t.Run("Comment On Missing Post 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/posts/99999/comments", readerToken, map[string]string{
			"text": "hello?",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Create Notifies Post Author", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/posts/"+postID+"/comments", readerToken, map[string]string{
			"text": "well said",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "well said", body["text"])

		var author models.User
		require.NoError(t, db.Where("username = ?", "blogger").First(&author).Error)

		var notifications []models.Notification
		require.NoError(t, db.Where("user_id = ?", author.ID).Find(&notifications).Error)
		require.Len(t, notifications, 1)
		assert.Equal(t, "New comment on your post: well said", notifications[0].Message)
	})

	t.Run("Author Sees Notification In Feed", func(t *testing.T) {
		resp, notifications := doJSONList(t, app, "/api/notifications", authorToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, notifications, 1)
		assert.Equal(t, "New comment on your post: well said", notifications[0]["message"])
	})

	t.Run("Reader Has No Notifications", func(t *testing.T) {
		resp, notifications := doJSONList(t, app, "/api/notifications", readerToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, notifications)
	})

	t.Run("Anonymous List Comments Allowed", func(t *testing.T) {
		resp, comments := doJSONList(t, app, "/api/posts/"+postID+"/comments", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, comments, 1)
		assert.Equal(t, "well said", comments[0]["text"])
	})

	t.Run("Comments Count Computed On Post", func(t *testing.T) {
		_, detail := doJSON(t, app, http.MethodGet, "/api/posts/"+postID, "", nil)
		assert.EqualValues(t, 1, detail["comments_count"])
	})

	t.Run("Stranger Cannot Edit Comment", func(t *testing.T) {
		_, comments := doJSONList(t, app, "/api/posts/"+postID+"/comments", "")
		commentID := idString(comments[0]["id"])

		resp, _ := doJSON(t, app, http.MethodPut, "/api/posts/"+postID+"/comments/"+commentID, authorToken, map[string]string{
			"text": "rewritten by admin-wannabe",
		})
		// The post's author does not own the comment.
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, body := doJSON(t, app, http.MethodPut, "/api/posts/"+postID+"/comments/"+commentID, readerToken, map[string]string{
			"text": "edited by owner",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "edited by owner", body["text"])
	})

	t.Run("Comment Under Wrong Post 404", func(t *testing.T) {
		_, comments := doJSONList(t, app, "/api/posts/"+postID+"/comments", "")
		commentID := idString(comments[0]["id"])

		resp, _ := doJSON(t, app, http.MethodPut, "/api/posts/99999/comments/"+commentID, readerToken, map[string]string{
			"text": "misrouted",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Owner Deletes Comment", func(t *testing.T) {
		_, comments := doJSONList(t, app, "/api/posts/"+postID+"/comments", "")
		commentID := idString(comments[0]["id"])

		resp, _ := doJSON(t, app, http.MethodDelete, "/api/posts/"+postID+"/comments/"+commentID, readerToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		_, comments = doJSONList(t, app, "/api/posts/"+postID+"/comments", "")
		assert.Empty(t, comments)
	})
}

func TestCategoryEndpoints(t *testing.T) {
	_, app, db := setupTestServer(t)

	userToken := registerAndLogin(t, app, "plebeian")
	adminToken := registerAndLogin(t, app, "overlord")
	promoteToAdmin(t, db, "overlord")

	t.Run("Non Admin Create Forbidden", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/categories", userToken, map[string]string{
			"name": "forbidden-fruit",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Anonymous Create Unauthorized", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/categories", "", map[string]string{
			"name": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Admin Creates", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/categories", adminToken, map[string]string{
			"name": "announcements",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "announcements", body["name"])
	})

	t.Run("Anyone Lists", func(t *testing.T) {
		resp, categories := doJSONList(t, app, "/api/categories", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, categories, 1)
		assert.Equal(t, "announcements", categories[0]["name"])
	})
}

func TestSubscriptionEndpoints(t *testing.T) {
	_, app, _ := setupTestServer(t)

	token := registerAndLogin(t, app, "subscriber")

	t.Run("Anonymous Denied", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/subscriptions/subscribe", "", map[string]any{
			"category": "golang",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Subscribe And List", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/subscriptions/subscribe", token, map[string]any{
			"category":       "golang",
			"is_post_update": true,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "golang", body["category"])
		assert.Equal(t, true, body["is_post_update"])

		resp, subs := doJSONList(t, app, "/api/subscriptions", token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, subs, 1)
	})
}
