package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"Yatube/api/auth"
	"Yatube/api/middlewares"
	"Yatube/api/models"
	"Yatube/api/security"
	"Yatube/api/utils/formaterror"
	"Yatube/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var errBadCredentials = errors.New("incorrect username or password")

const mailTimeout = 10 * time.Second

func (server *Server) SignupForm(c *gin.Context) {
	server.render(c, http.StatusOK, "auth/signup.html", gin.H{"Title": "Sign up"})
}

// Signup registers an account with its profile, logs it in and sends the
// welcome email.
func (server *Server) Signup(c *gin.Context) {
	form := map[string]string{
		"first_name": c.PostForm("first_name"),
		"last_name":  c.PostForm("last_name"),
		"username":   c.PostForm("username"),
		"email":      c.PostForm("email"),
	}
	user := models.User{
		Username:  form["username"],
		FirstName: form["first_name"],
		LastName:  form["last_name"],
		Email:     form["email"],
		Password:  c.PostForm("password"),
	}

	user.Prepare()
	errorMessages := user.Validate("")
	if user.Password != c.PostForm("password2") {
		errorMessages["password2"] = "Passwords do not match"
	}
	if _, ok := errorMessages["username"]; !ok {
		_, err := (&models.User{}).FindUserByUsername(server.DB.WithContext(c.Request.Context()), user.Username)
		if err == nil {
			errorMessages["username"] = "A user with that username already exists"
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			server.serverError(c, err)
			return
		}
	}
	if len(errorMessages) > 0 {
		server.render(c, http.StatusOK, "auth/signup.html", gin.H{
			"Title":  "Sign up",
			"Form":   form,
			"Errors": errorMessages,
		})
		return
	}

	userCreated, err := user.SaveUser(server.DB.WithContext(c.Request.Context()))
	if err != nil {
		server.render(c, http.StatusOK, "auth/signup.html", gin.H{
			"Title":  "Sign up",
			"Form":   form,
			"Errors": formaterror.FormatError(err.Error()),
		})
		return
	}

	if err := server.startSession(c, userCreated.ID); err != nil {
		server.serverError(c, err)
		return
	}
	server.sendWelcome(c.Request.Context(), userCreated)
	server.redirect(c, "/")
}

// sendWelcome never fails the signup; delivery problems are only logged.
func (server *Server) sendWelcome(ctx context.Context, user *models.User) {
	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()
	if err := server.Mailer.SendWelcome(ctx, user); err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("welcome email failed")
	}
}

func (server *Server) LoginForm(c *gin.Context) {
	server.render(c, http.StatusOK, "auth/login.html", gin.H{
		"Title": "Log in",
		"Next":  middlewares.SafeNext(c.Query("next"), ""),
	})
}

// Login checks the credentials and sends the visitor on to next, when it is a
// local path, or to the main page.
func (server *Server) Login(c *gin.Context) {
	next := middlewares.SafeNext(c.Query("next"), "")
	form := map[string]string{"username": c.PostForm("username")}

	user := models.User{Username: c.PostForm("username"), Password: c.PostForm("password")}
	user.Prepare()
	errorMessages := user.Validate("login")
	if len(errorMessages) == 0 {
		signedIn, err := server.SignIn(c.Request.Context(), user.Username, user.Password)
		switch {
		case errors.Is(err, errBadCredentials):
			errorMessages["form"] = "Please enter a correct username and password"
		case err != nil:
			server.serverError(c, err)
			return
		default:
			if err := server.startSession(c, signedIn.ID); err != nil {
				server.serverError(c, err)
				return
			}
			server.redirect(c, middlewares.SafeNext(next, "/"))
			return
		}
	}

	server.render(c, http.StatusOK, "auth/login.html", gin.H{
		"Title":  "Log in",
		"Next":   next,
		"Form":   form,
		"Errors": errorMessages,
	})
}

// SignIn returns the account matching username and password.
func (server *Server) SignIn(ctx context.Context, username, password string) (*models.User, error) {
	user, err := (&models.User{}).FindUserByUsername(server.DB.WithContext(ctx), username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := security.VerifyPassword(user.Password, password); err != nil {
		return nil, errBadCredentials
	}
	return user, nil
}

func (server *Server) Logout(c *gin.Context) {
	server.setTokenCookie(c, "", -1)
	httpctx.ClearCurrentUser(c)
	server.render(c, http.StatusOK, "auth/logged_out.html", gin.H{"Title": "Logged out"})
}

func (server *Server) startSession(c *gin.Context, userID uint) error {
	token, err := server.Tokens.CreateToken(userID)
	if err != nil {
		return err
	}
	server.setTokenCookie(c, token, int(server.Tokens.TTL().Seconds()))
	return nil
}

func (server *Server) setTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", server.Config.IsProduction(), true)
}
