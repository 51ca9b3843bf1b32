package server

import (
	"net/http"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndFetchPost(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t, nil)
	_, token := createTestUser(t, s, "author")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", token, map[string]string{
		"content": "first post",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Post
	decodeBody(t, resp, &created)
	assert.Equal(t, "first post", created.Content)
	assert.Equal(t, models.PrivacyPublic, created.Privacy)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/posts/1", "", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.Post
	decodeBody(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "author", fetched.User.Username)
}

func TestCreatePostValidation(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t, nil)
	_, token := createTestUser(t, s, "author")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", token, map[string]string{
		"content": "",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/posts", token, map[string]string{
		"content": "x", "privacy": "friends-only",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFeedRespectsPrivacy(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t, nil)
	_, ownerToken := createTestUser(t, s, "owner")
	_, viewerToken := createTestUser(t, s, "viewer")

	for _, body := range []map[string]string{
		{"content": "everyone sees this"},
		{"content": "only I see this", "privacy": models.PrivacyPrivate},
	} {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", ownerToken, body))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var feed []models.Post

	// Another user's feed excludes the private post.
	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/feed", viewerToken, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "everyone sees this", feed[0].Content)

	// The author sees both.
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/feed", ownerToken, nil))
	require.NoError(t, err)
	decodeBody(t, resp, &feed)
	assert.Len(t, feed, 2)

	// Fetching the private post directly 404s for other viewers.
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/posts/2", viewerToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateAndDeletePostOwnership(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t, nil)
	_, ownerToken := createTestUser(t, s, "owner")
	_, intruderToken := createTestUser(t, s, "intruder")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", ownerToken, map[string]string{
		"content": "mine",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/api/posts/1", intruderToken, map[string]string{
		"content": "hijacked",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/api/posts/1", intruderToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/api/posts/1", ownerToken, map[string]string{
		"content": "edited",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Post
	decodeBody(t, resp, &updated)
	assert.Equal(t, "edited", updated.Content)

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/api/posts/1", ownerToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestGetPostInvalidID(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t, nil)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/posts/banana", "", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
