package server

import (
	"net/http"
	"testing"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactOverHTTP(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t, nil)
	_, authorToken := createTestUser(t, s, "author")
	_, reactorToken := createTestUser(t, s, "reactor")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", authorToken, map[string]string{
		"content": "react to me",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// First tap adds.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/reactions/post/1", reactorToken, map[string]string{
		"type": "Love",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result service.ReactResult
	decodeBody(t, resp, &result)
	assert.Equal(t, service.ReactionAdded, result.Status)
	assert.Equal(t, "Love", result.Type)

	// Different type retypes in place.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/reactions/post/1", reactorToken, map[string]string{
		"type": "Haha",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.Equal(t, service.ReactionUpdated, result.Status)

	// Same type toggles off.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/reactions/post/1", reactorToken, map[string]string{
		"type": "Haha",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.Equal(t, service.ReactionRemoved, result.Status)

	// Unknown target type is a 400, missing target a 404.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/reactions/story/1", reactorToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/reactions/post/99", reactorToken, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLikeAliasReturnsDecoratedPost(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t, nil)
	_, authorToken := createTestUser(t, s, "author")
	_, fanToken := createTestUser(t, s, "fan")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", authorToken, map[string]string{
		"content": "like me",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/posts/1/like", fanToken, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var post models.Post
	decodeBody(t, resp, &post)
	assert.Equal(t, 1, post.LikesCount)
	assert.True(t, post.Liked)
	assert.Equal(t, models.DefaultReactionType, post.UserReaction)
	require.Len(t, post.RecentReactors, 1)
	assert.Equal(t, "fan", post.RecentReactors[0].Username)

	// Second tap through the alias unlikes.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/posts/1/like", fanToken, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &post)
	assert.Equal(t, 0, post.LikesCount)
	assert.False(t, post.Liked)
}

func TestGetReactors(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t, nil)
	_, authorToken := createTestUser(t, s, "author")
	_, fan1Token := createTestUser(t, s, "fan1")
	_, fan2Token := createTestUser(t, s, "fan2")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", authorToken, map[string]string{
		"content": "popular",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, token := range []string{fan1Token, fan2Token} {
		resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/reactions/post/1", token, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/reactions/post/1", "", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reactions []models.Reaction
	decodeBody(t, resp, &reactions)
	require.Len(t, reactions, 2)
	for _, r := range reactions {
		assert.NotEmpty(t, r.User.Username)
		assert.Equal(t, models.DefaultReactionType, r.Type)
	}
}
