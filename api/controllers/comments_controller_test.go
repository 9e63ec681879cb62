package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	"Yatube/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymousCannotComment(t *testing.T) {
	app := newTestApp(t)
	leo := app.user(t, "leo")
	p := app.post(t, leo, nil, "post")

	w := app.postForm(postPath(p, "leo")+"comment/", url.Values{"text": {"hi"}}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/login/")

	comments, err := models.GetComments(app.server.DB, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestAddComment(t *testing.T) {
	app := newTestApp(t)
	leo := app.user(t, "leo")
	mia := app.user(t, "mia")
	p := app.post(t, leo, nil, "post")

	w := app.postForm(postPath(p, "leo")+"comment/", url.Values{"text": {"nice post"}}, app.cookie(t, mia))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, postPath(p, "leo"), w.Header().Get("Location"))

	page := app.get(postPath(p, "leo"), nil).Body.String()
	assert.Contains(t, page, "nice post")

	w = app.postForm(postPath(p, "leo")+"comment/", url.Values{"text": {"  "}}, app.cookie(t, mia))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Text is required")

	w = app.get(postPath(p, "leo")+"comment/", app.cookie(t, mia))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, postPath(p, "leo"), w.Header().Get("Location"))
}

func TestCommentDeletePermissions(t *testing.T) {
	app := newTestApp(t)
	owner := app.user(t, "owner")
	commenter := app.user(t, "commenter")
	stranger := app.user(t, "stranger")
	p := app.post(t, owner, nil, "post")

	comment := func(text string) *models.Comment {
		c := &models.Comment{PostID: p.ID, AuthorID: commenter.ID, Text: text}
		_, err := c.SaveComment(app.server.DB)
		require.NoError(t, err)
		return c
	}
	deletePath := func(c *models.Comment) string {
		return postPath(p, "owner") + "comment/" + itoa(c.ID) + "/delete/"
	}
	exists := func(c *models.Comment) bool {
		_, err := models.FindComment(app.server.DB, p.ID, c.ID)
		return err == nil
	}

	first := comment("first")
	w := app.postForm(deletePath(first), url.Values{}, app.cookie(t, stranger))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, postPath(p, "owner"), w.Header().Get("Location"))
	assert.True(t, exists(first), "a stranger cannot delete the comment")

	app.postForm(deletePath(first), url.Values{}, app.cookie(t, commenter))
	assert.False(t, exists(first), "the comment author can delete it")

	second := comment("second")
	app.postForm(deletePath(second), url.Values{}, app.cookie(t, owner))
	assert.False(t, exists(second), "the post author can delete it")

	w = app.postForm(postPath(p, "owner")+"comment/999/delete/", url.Values{}, app.cookie(t, owner))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletingPostRemovesComments(t *testing.T) {
	app := newTestApp(t)
	leo := app.user(t, "leo")
	p := app.post(t, leo, nil, "post")
	c := &models.Comment{PostID: p.ID, AuthorID: leo.ID, Text: "c"}
	_, err := c.SaveComment(app.server.DB)
	require.NoError(t, err)

	app.postForm(postPath(p, "leo")+"delete/", url.Values{}, app.cookie(t, leo))

	var n int64
	require.NoError(t, app.server.DB.Model(&models.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
}
