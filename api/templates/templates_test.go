package templates_test

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"Yatube/api/feed"
	"Yatube/api/models"
	"Yatube/api/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, tmpl *template.Template, name string, data map[string]interface{}) string {
	t.Helper()
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	if _, ok := data["Form"]; !ok {
		data["Form"] = map[string]string{}
	}
	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func TestEveryPageParses(t *testing.T) {
	tmpl, err := templates.Load(nil)
	require.NoError(t, err)

	for _, name := range []string{
		"posts/index.html", "posts/group.html", "posts/profile.html", "posts/post.html",
		"posts/new_post.html", "posts/follow.html", "users/edit.html",
		"auth/signup.html", "auth/login.html", "auth/logged_out.html",
		"misc/404.html", "misc/500.html", "about/author.html", "about/tech.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestIndexRendersPostsAndPaginator(t *testing.T) {
	tmpl, err := templates.Load(nil)
	require.NoError(t, err)

	group := &models.Group{ID: 1, Title: "Cats", Slug: "cats"}
	page := &feed.Page{
		Posts: []models.Post{{
			ID:        7,
			Text:      "first paragraph\n\nsecond <b>paragraph</b>",
			CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			AuthorID:  3,
			Author:    models.User{ID: 3, Username: "leo", FirstName: "Leo"},
			Group:     group,
			Image:     "posts/a.jpg",
		}},
		Number:   1,
		NumPages: 2,
		Count:    11,
		PerPage:  10,
	}
	viewer := &models.User{ID: 3, Username: "leo"}

	out := render(t, tmpl, "posts/index.html", map[string]interface{}{
		"User":      viewer,
		"Page":      page,
		"Year":      2024,
		"UserCount": int64(5),
	})

	assert.Contains(t, out, "<p>first paragraph</p>")
	assert.Contains(t, out, "second &lt;b&gt;paragraph&lt;/b&gt;")
	assert.Contains(t, out, `href="/group/cats/"`)
	assert.Contains(t, out, `src="/media/posts/a.jpg"`)
	assert.Contains(t, out, `href="/leo/7/edit/"`)
	assert.Contains(t, out, `href="?page=2"`)
	assert.Contains(t, out, "Registered users: 5")
}

func TestAnonymousVisitorSeesLoginLinks(t *testing.T) {
	tmpl, err := templates.Load(nil)
	require.NoError(t, err)

	var anonymous *models.User
	out := render(t, tmpl, "posts/index.html", map[string]interface{}{
		"User": anonymous,
		"Page": &feed.Page{Number: 1, NumPages: 1},
	})
	assert.Contains(t, out, `href="/auth/login/"`)
	assert.Contains(t, out, "No posts yet.")
	assert.NotContains(t, out, "pagination")
}

func TestMediaURLOverride(t *testing.T) {
	tmpl, err := templates.Load(template.FuncMap{
		"mediaURL": func(key string) string { return "https://cdn.example/" + key },
	})
	require.NoError(t, err)

	out := render(t, tmpl, "users/edit.html", map[string]interface{}{
		"User":    &models.User{ID: 1, Username: "leo"},
		"Profile": &models.Profile{Photo: "avatars/x.jpg"},
		"Errors":  map[string]string{"email": "Invalid Email"},
	})
	assert.Contains(t, out, `src="https://cdn.example/avatars/x.jpg"`)
	assert.Contains(t, out, "Invalid Email")
}
