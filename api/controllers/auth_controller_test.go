package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	"Yatube/api/auth"
	"Yatube/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(w interface{ Result() *http.Response }) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func signupForm(username string) url.Values {
	return url.Values{
		"first_name": {"Leo"},
		"last_name":  {"Tolstoy"},
		"username":   {username},
		"email":      {username + "@example.com"},
		"password":   {"war-and-peace"},
		"password2":  {"war-and-peace"},
	}
}

func TestSignupCreatesAccountAndLogsIn(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/auth/signup/", signupForm("leo"), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	user, err := (&models.User{}).FindUserByUsername(app.server.DB, "leo")
	require.NoError(t, err)
	assert.Equal(t, "Leo", user.FirstName)
	count, err := models.CountProfiles(app.server.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	sent := app.mail.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "leo@example.com", sent[0].To)

	page := app.get("/", &http.Cookie{Name: auth.CookieName, Value: cookie.Value})
	assert.Contains(t, page.Body.String(), `href="/auth/logout/"`)
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp(t)
	app.user(t, "leo")

	cases := map[string]struct {
		form    url.Values
		message string
	}{
		"taken username": {signupForm("leo"), "already exists"},
		"reserved username": {signupForm("follow"), "not available"},
		"password mismatch": {func() url.Values {
			f := signupForm("mia")
			f.Set("password2", "something-else")
			return f
		}(), "Passwords do not match"},
		"short password": {func() url.Values {
			f := signupForm("mia")
			f.Set("password", "short")
			f.Set("password2", "short")
			return f
		}(), "at least 8 characters"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := app.postForm("/auth/signup/", tc.form, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
			assert.Nil(t, sessionCookie(w))
		})
	}

	count, err := models.CountUsers(app.server.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLoginHonoursSafeNext(t *testing.T) {
	app := newTestApp(t)
	app.user(t, "leo")
	creds := url.Values{"username": {"leo"}, "password": {"password123"}}

	w := app.postForm("/auth/login/?next=%2Fnew%2F", creds, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/new/", w.Header().Get("Location"))
	assert.NotNil(t, sessionCookie(w))

	w = app.postForm("/auth/login/?next=https%3A%2F%2Fevil.example%2F", creds, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.user(t, "leo")

	for _, creds := range []url.Values{
		{"username": {"leo"}, "password": {"wrong-password"}},
		{"username": {"nobody"}, "password": {"password123"}},
	} {
		w := app.postForm("/auth/login/", creds, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Please enter a correct username and password")
		assert.Nil(t, sessionCookie(w))
	}
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	leo := app.user(t, "leo")

	w := app.get("/auth/logout/", app.cookie(t, leo))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "You have logged out")
	assert.Contains(t, w.Body.String(), `href="/auth/signup/"`)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}
