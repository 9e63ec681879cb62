package controllers

import (
	"Yatube/api/models"
	"Yatube/api/policy"
	"Yatube/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// AddComment attaches a comment by the current account to the post. An
// invalid comment re-renders the post page with the message.
func (server *Server) AddComment(c *gin.Context) {
	post, err := server.resolvePost(c)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	user := httpctx.CurrentUser(c)
	if !policy.CanComment(user) {
		server.redirect(c, postURL(post))
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: user.ID,
		Text:     c.PostForm("text"),
	}
	comment.Prepare()
	if errorMessages := comment.Validate(); len(errorMessages) > 0 {
		server.renderPost(c, post, map[string]string{"text": c.PostForm("text")}, errorMessages)
		return
	}

	if _, err := comment.SaveComment(server.DB.WithContext(c.Request.Context())); err != nil {
		server.serverError(c, err)
		return
	}
	server.redirect(c, postURL(post))
}

// CommentRedirect sends GET requests on the comment endpoint, typically the
// return trip from the login page, to the post page.
func (server *Server) CommentRedirect(c *gin.Context) {
	post, err := server.resolvePost(c)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	server.redirect(c, postURL(post))
}

// CommentDelete removes a comment when the current account wrote it or owns
// the post. Anyone else is returned to the post page with nothing changed.
func (server *Server) CommentDelete(c *gin.Context) {
	post, err := server.resolvePost(c)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	commentID, err := parseID(c.Param("comment_id"))
	if err != nil {
		server.NotFound(c)
		return
	}

	db := server.DB.WithContext(c.Request.Context())
	comment, err := models.FindComment(db, post.ID, commentID)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}

	if policy.CanDeleteComment(httpctx.CurrentUser(c), comment, post) {
		if _, err := comment.DeleteAComment(db); err != nil {
			server.serverError(c, err)
			return
		}
	}
	server.redirect(c, postURL(post))
}
