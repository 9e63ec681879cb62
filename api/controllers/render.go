package controllers

import (
	"net/http"
	"strconv"
	"time"

	"Yatube/api/models"
	"Yatube/api/utils/httpctx"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// render adds the values every page shows: the current account, the year and
// the number of registered users.
func (server *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = httpctx.CurrentUser(c)
	data["Year"] = time.Now().Year()
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	if _, ok := data["Form"]; !ok {
		data["Form"] = map[string]string{}
	}

	count, err := models.CountProfiles(server.DB.WithContext(c.Request.Context()))
	if err != nil {
		log.Warn().Err(err).Msg("count profiles")
	}
	data["UserCount"] = count

	c.HTML(status, name, data)
}

// NotFound renders the 404 page.
func (server *Server) NotFound(c *gin.Context) {
	server.render(c, http.StatusNotFound, "misc/404.html", gin.H{
		"Title": "Page not found",
		"Path":  c.Request.URL.Path,
	})
}

func (server *Server) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	if hub := server.requestHub(c); hub != nil {
		hub.CaptureException(err)
	}
	server.render(c, http.StatusInternalServerError, "misc/500.html", gin.H{"Title": "Server error"})
}

func (server *Server) recoverPanic(c *gin.Context, recovered interface{}) {
	log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("panic recovered")
	if hub := server.requestHub(c); hub != nil {
		hub.Recover(recovered)
	}
	server.render(c, http.StatusInternalServerError, "misc/500.html", gin.H{"Title": "Server error"})
	c.Abort()
}

func (server *Server) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// requestHub scopes a Sentry hub to the current request.
func (server *Server) requestHub(c *gin.Context) *sentry.Hub {
	if server.Sentry == nil {
		return nil
	}
	hub := server.Sentry.Clone()
	hub.Scope().SetRequest(c.Request)
	if id, ok := httpctx.CurrentUserID(c); ok {
		hub.Scope().SetUser(sentry.User{ID: strconv.FormatUint(uint64(id), 10)})
	}
	return hub
}
