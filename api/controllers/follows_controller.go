package controllers

import (
	"errors"
	"net/http"

	"Yatube/api/feed"
	"Yatube/api/models"
	"Yatube/api/policy"
	"Yatube/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// FollowIndex shows the posts of every author the current account follows.
func (server *Server) FollowIndex(c *gin.Context) {
	user := httpctx.CurrentUser(c)
	page, err := server.Feed.Followed(c.Request.Context(), user.ID, feed.ParsePage(c.Query("page")))
	if err != nil {
		server.serverError(c, err)
		return
	}
	server.render(c, http.StatusOK, "posts/follow.html", gin.H{
		"Title": "Following",
		"Page":  page,
	})
}

// ProfileFollow subscribes the current account to the author. Following
// yourself or following twice changes nothing.
func (server *Server) ProfileFollow(c *gin.Context) {
	author, err := server.resolveUser(c)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}

	follower := httpctx.CurrentUser(c)
	if policy.CanFollow(follower, author) {
		created, err := models.CreateFollow(server.DB.WithContext(c.Request.Context()), follower.ID, author.ID)
		if err != nil && !errors.Is(err, models.ErrSelfFollow) {
			server.serverError(c, err)
			return
		}
		if created {
			log.Debug().Uint("follower", follower.ID).Uint("followed", author.ID).Msg("follow created")
		}
	}
	server.redirect(c, profileURL(author.Username))
}

func (server *Server) ProfileUnfollow(c *gin.Context) {
	author, err := server.resolveUser(c)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}

	follower := httpctx.CurrentUser(c)
	if _, err := models.DeleteFollow(server.DB.WithContext(c.Request.Context()), follower.ID, author.ID); err != nil {
		server.serverError(c, err)
		return
	}
	server.redirect(c, profileURL(author.Username))
}
