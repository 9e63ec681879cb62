package controllers

import (
	"errors"
	"strconv"
	"strings"

	"Yatube/api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errInvalidIdentifier = errors.New("invalid identifier")

func parseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || n == 0 {
		return 0, errInvalidIdentifier
	}
	return uint(n), nil
}

// isNotFound reports lookups that should answer with the 404 page.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, errInvalidIdentifier)
}

func (server *Server) resolveUser(c *gin.Context) (*models.User, error) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return (&models.User{}).FindUserByUsername(server.DB.WithContext(c.Request.Context()), username)
}

// resolvePost finds the post named by the path, which must belong to the
// account in the same path.
func (server *Server) resolvePost(c *gin.Context) (*models.Post, error) {
	id, err := parseID(c.Param("post_id"))
	if err != nil {
		return nil, err
	}
	return models.FindAuthorPost(server.DB.WithContext(c.Request.Context()), c.Param("username"), id)
}

// lookupFailed renders the 404 page for missing resources and the 500 page
// for anything else.
func (server *Server) lookupFailed(c *gin.Context, err error) {
	if isNotFound(err) {
		server.NotFound(c)
		return
	}
	server.serverError(c, err)
}

func postURL(post *models.Post) string {
	return "/" + post.Author.Username + "/" + strconv.FormatUint(uint64(post.ID), 10) + "/"
}

func profileURL(username string) string {
	return "/" + username + "/"
}
