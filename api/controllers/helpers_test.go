package controllers_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"Yatube/api/auth"
	"Yatube/api/cache"
	"Yatube/api/config"
	"Yatube/api/controllers"
	"Yatube/api/database/databasetest"
	"Yatube/api/mailer"
	"Yatube/api/models"
	"Yatube/api/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) messages() []mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Message(nil), r.sent...)
}

type testApp struct {
	server *controllers.Server
	mail   *recordingSender
	disk   *storage.Disk
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppEnv:        "test",
		SiteURL:       "http://localhost:8000",
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		PageSize:      10,
		IndexCacheTTL: 20 * time.Second,
	}
	sender := &recordingSender{}
	disk := storage.NewDisk(t.TempDir(), "/media")

	server := &controllers.Server{}
	err := server.Initialize(cfg, controllers.Dependencies{
		DB:      databasetest.New(t),
		Cache:   cache.NewMemory(),
		Storage: disk,
		Mailer:  mailer.New(sender, cfg.SiteURL),
	})
	require.NoError(t, err)
	return &testApp{server: server, mail: sender, disk: disk}
}

func (a *testApp) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "password123"}
	u.Prepare()
	_, err := u.SaveUser(a.server.DB)
	require.NoError(t, err)
	return u
}

func (a *testApp) group(t *testing.T, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: strings.ToUpper(slug), Slug: slug, Description: "about " + slug}
	_, err := g.SaveGroup(a.server.DB)
	require.NoError(t, err)
	return g
}

func (a *testApp) post(t *testing.T, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	_, err := p.SavePost(a.server.DB)
	require.NoError(t, err)
	return p
}

func (a *testApp) cookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, err := a.server.Tokens.CreateToken(user.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func (a *testApp) get(path string, as *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if as != nil {
		req.AddCookie(as)
	}
	w := httptest.NewRecorder()
	a.server.Router.ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(path string, form url.Values, as *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if as != nil {
		req.AddCookie(as)
	}
	w := httptest.NewRecorder()
	a.server.Router.ServeHTTP(w, req)
	return w
}

// postMultipart submits fields plus one file named fileField.
func (a *testApp) postMultipart(t *testing.T, path string, fields map[string]string, fileField string, file []byte, as *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile(fileField, "upload.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if as != nil {
		req.AddCookie(as)
	}
	w := httptest.NewRecorder()
	a.server.Router.ServeHTTP(w, req)
	return w
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func postPath(p *models.Post, username string) string {
	return "/" + username + "/" + itoa(p.ID) + "/"
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
