package models_test

import (
	"testing"
	"time"

	"Yatube/api/database/databasetest"
	"Yatube/api/models"
	"Yatube/api/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "password123"}
	u.Prepare()
	saved, err := u.SaveUser(db)
	require.NoError(t, err)
	return saved
}

func TestSaveUserHashesPasswordAndCreatesProfile(t *testing.T) {
	db := databasetest.New(t)
	u := createUser(t, db, "leo")

	assert.NotEqual(t, "password123", u.Password)
	assert.NoError(t, security.VerifyPassword(u.Password, "password123"))

	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", u.ID).Take(&profile).Error)
	count, err := models.CountProfiles(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUsernameIsUnique(t *testing.T) {
	db := databasetest.New(t)
	createUser(t, db, "leo")

	dup := &models.User{Username: "leo", Email: "other@example.com", Password: "password123"}
	_, err := dup.SaveUser(db)
	assert.Error(t, err)

	count, err := models.CountUsers(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "failed signup must not leave a partial account")
}

func TestUserValidate(t *testing.T) {
	cases := []struct {
		name  string
		user  models.User
		field string
	}{
		{"missing username", models.User{Email: "a@b.co", Password: "password123"}, "username"},
		{"bad username", models.User{Username: "bad name", Email: "a@b.co", Password: "password123"}, "username"},
		{"reserved username", models.User{Username: "follow", Email: "a@b.co", Password: "password123"}, "username"},
		{"short password", models.User{Username: "leo", Email: "a@b.co", Password: "short"}, "password"},
		{"bad email", models.User{Username: "leo", Email: "nope", Password: "password123"}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.user.Prepare()
			errs := tc.user.Validate("")
			assert.Contains(t, errs, tc.field)
		})
	}

	ok := models.User{Username: "leo.t", Email: "LEO@Example.com ", Password: "password123"}
	ok.Prepare()
	assert.Empty(t, ok.Validate(""))
	assert.Equal(t, "leo@example.com", ok.Email)
}

func TestFindOrCreateProfileIsIdempotent(t *testing.T) {
	db := databasetest.New(t)
	u := &models.User{Username: "legacy", Email: "legacy@example.com", Password: "x"}
	require.NoError(t, db.Create(u).Error)

	first, err := models.FindOrCreateProfile(db, u.ID)
	require.NoError(t, err)
	second, err := models.FindOrCreateProfile(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpdatePostKeepsAuthorAndCreatedAt(t *testing.T) {
	db := databasetest.New(t)
	author := createUser(t, db, "leo")
	other := createUser(t, db, "mia")

	post := &models.Post{Text: "first", AuthorID: author.ID}
	_, err := post.SavePost(db)
	require.NoError(t, err)
	created := post.CreatedAt

	edit := &models.Post{ID: post.ID, Text: "second", AuthorID: other.ID}
	updated, err := edit.UpdatePost(db)
	require.NoError(t, err)

	assert.Equal(t, "second", updated.Text)
	assert.Equal(t, author.ID, updated.AuthorID)
	assert.WithinDuration(t, created, updated.CreatedAt, time.Millisecond)
}

func TestPostValidateRejectsUnknownGroup(t *testing.T) {
	db := databasetest.New(t)
	missing := uint(99)
	post := &models.Post{Text: "hi", AuthorID: 1, GroupID: &missing}
	assert.Contains(t, post.Validate(db), "group")

	empty := &models.Post{AuthorID: 1}
	empty.Prepare()
	assert.Contains(t, empty.Validate(db), "text")
}

func TestDeletePostRemovesComments(t *testing.T) {
	db := databasetest.New(t)
	author := createUser(t, db, "leo")
	post := &models.Post{Text: "with comments", AuthorID: author.ID}
	_, err := post.SavePost(db)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		c := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "c"}
		_, err := c.SaveComment(db)
		require.NoError(t, err)
	}

	affected, err := post.DeletePost(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var remaining int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestFindAuthorPostChecksUsername(t *testing.T) {
	db := databasetest.New(t)
	author := createUser(t, db, "leo")
	createUser(t, db, "mia")
	post := &models.Post{Text: "mine", AuthorID: author.ID}
	_, err := post.SavePost(db)
	require.NoError(t, err)

	found, err := models.FindAuthorPost(db, "leo", post.ID)
	require.NoError(t, err)
	assert.Equal(t, "leo", found.Author.Username)

	_, err = models.FindAuthorPost(db, "mia", post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFollowEdges(t *testing.T) {
	db := databasetest.New(t)
	a := createUser(t, db, "leo")
	b := createUser(t, db, "mia")

	created, err := models.CreateFollow(db, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = models.CreateFollow(db, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created, "second follow must not add a row")

	_, err = models.CreateFollow(db, a.ID, a.ID)
	assert.ErrorIs(t, err, models.ErrSelfFollow)

	following, err := models.IsFollowing(db, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, _ := models.CountFollowers(db, b.ID)
	assert.Equal(t, int64(1), followers)

	removed, err := models.DeleteFollow(db, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var edges int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&edges).Error)
	assert.Zero(t, edges)
}

func TestSelfFollowRejectedByDatabase(t *testing.T) {
	db := databasetest.New(t)
	a := createUser(t, db, "leo")

	err := db.Create(&models.Follow{FollowerID: a.ID, FollowedID: a.ID}).Error
	assert.Error(t, err)
}

func TestCommentsNewestFirst(t *testing.T) {
	db := databasetest.New(t)
	author := createUser(t, db, "leo")
	post := &models.Post{Text: "p", AuthorID: author.ID}
	_, err := post.SavePost(db)
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"old", "mid", "new"} {
		c := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: text, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		_, err := c.SaveComment(db)
		require.NoError(t, err)
	}

	comments, err := models.GetComments(db, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "new", comments[0].Text)
	assert.Equal(t, "leo", comments[0].Author.Username)

	counts, err := models.CountPostComments(db, []uint{post.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[post.ID])
}
