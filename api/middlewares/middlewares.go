package middlewares

import (
	"net/http"
	"net/url"
	"strings"

	"Yatube/api/auth"
	"Yatube/api/models"
	"Yatube/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LoginPath is where anonymous visitors are sent for protected pages.
const LoginPath = "/auth/login/"

// Session attaches the account named by the session token, if any. Requests
// without a valid token continue anonymously.
func Session(db *gorm.DB, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := tokens.ExtractTokenID(c.Request)
		if err != nil {
			c.Next()
			return
		}

		user, err := (&models.User{}).FindUserByID(db.WithContext(c.Request.Context()), userID)
		if err != nil {
			log.Debug().Err(err).Uint("user_id", userID).Msg("session user not found")
			c.Next()
			return
		}

		httpctx.SetCurrentUser(c, user)
		c.Next()
	}
}

// LoginRequired redirects anonymous visitors to the login page, remembering
// where they were going.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpctx.CurrentUser(c) != nil {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginRedirectURL(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// BodyLimit rejects request bodies larger than limit. A declared length over
// the limit is refused before the body is read; otherwise reads fail once
// limit bytes have been consumed.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.String(http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func LoginRedirectURL(next string) string {
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return next
}
