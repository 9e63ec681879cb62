package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndParseToken(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	token, err := tokens.CreateToken(42)
	require.NoError(t, err)

	uid, err := tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), uid)
}

func TestParseTokenRejectsOtherSecret(t *testing.T) {
	token, err := NewTokens("one", time.Hour).CreateToken(7)
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tokens := NewTokens("test-secret", -time.Minute)
	token, err := tokens.CreateToken(7)
	require.NoError(t, err)

	_, err = tokens.ParseToken(token)
	assert.Error(t, err)
}

func TestExtractTokenIDFromCookieAndHeader(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	token, err := tokens.CreateToken(3)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	uid, err := tokens.ExtractTokenID(req)
	require.NoError(t, err)
	assert.Equal(t, uint(3), uid)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	uid, err = tokens.ExtractTokenID(req)
	require.NoError(t, err)
	assert.Equal(t, uint(3), uid)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	_, err = tokens.ExtractTokenID(req)
	assert.ErrorIs(t, err, ErrNoToken)
}
