package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"Yatube/api/feed"
	"Yatube/api/models"
	"Yatube/api/policy"
	"Yatube/api/storage"
	"Yatube/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const postImagePrefix = "posts"

// Index shows the global feed through the page cache.
func (server *Server) Index(c *gin.Context) {
	page, err := server.Feed.GlobalCached(c.Request.Context(), feed.ParsePage(c.Query("page")))
	if err != nil {
		server.serverError(c, err)
		return
	}
	server.render(c, http.StatusOK, "posts/index.html", gin.H{"Page": page})
}

func (server *Server) GroupPosts(c *gin.Context) {
	group, page, err := server.Feed.ByGroup(c.Request.Context(), c.Param("slug"), feed.ParsePage(c.Query("page")))
	if errors.Is(err, feed.ErrNotFound) {
		server.NotFound(c)
		return
	}
	if err != nil {
		server.serverError(c, err)
		return
	}
	server.render(c, http.StatusOK, "posts/group.html", gin.H{
		"Title": group.Title,
		"Group": group,
		"Page":  page,
	})
}

// Profile shows an author's posts with their profile card.
func (server *Server) Profile(c *gin.Context) {
	author, page, err := server.Feed.ByAuthor(c.Request.Context(), c.Param("username"), feed.ParsePage(c.Query("page")))
	if errors.Is(err, feed.ErrNotFound) {
		server.NotFound(c)
		return
	}
	if err != nil {
		server.serverError(c, err)
		return
	}

	data, err := server.authorCard(c.Request.Context(), httpctx.CurrentUser(c), author)
	if err != nil {
		server.serverError(c, err)
		return
	}
	data["Title"] = author.DisplayName()
	data["Page"] = page
	server.render(c, http.StatusOK, "posts/profile.html", data)
}

// authorCard collects what the author sidebar shows.
func (server *Server) authorCard(ctx context.Context, viewer, author *models.User) (gin.H, error) {
	db := server.DB.WithContext(ctx)

	profile, err := models.FindOrCreateProfile(db, author.ID)
	if err != nil {
		return nil, err
	}
	followers, err := models.CountFollowers(db, author.ID)
	if err != nil {
		return nil, err
	}
	following, err := models.CountFollowing(db, author.ID)
	if err != nil {
		return nil, err
	}
	posts, err := models.CountUserPosts(db, author.ID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewer != nil && viewer.ID != author.ID {
		if isFollowing, err = models.IsFollowing(db, viewer.ID, author.ID); err != nil {
			return nil, err
		}
	}

	return gin.H{
		"Author":         author,
		"Profile":        profile,
		"Followers":      followers,
		"FollowingCount": following,
		"PostCount":      posts,
		"Following":      isFollowing,
	}, nil
}

// PostView shows one post with its comments and the comment form.
func (server *Server) PostView(c *gin.Context) {
	post, err := server.resolvePost(c)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	server.renderPost(c, post, nil, nil)
}

func (server *Server) renderPost(c *gin.Context, post *models.Post, form, errs map[string]string) {
	comments, err := models.GetComments(server.DB.WithContext(c.Request.Context()), post.ID)
	if err != nil {
		server.serverError(c, err)
		return
	}
	post.CommentCount = int64(len(comments))

	data, err := server.authorCard(c.Request.Context(), httpctx.CurrentUser(c), &post.Author)
	if err != nil {
		server.serverError(c, err)
		return
	}
	data["Title"] = post.Excerpt()
	data["Post"] = post
	data["Comments"] = comments
	if form != nil {
		data["Form"] = form
	}
	if errs != nil {
		data["Errors"] = errs
	}
	server.render(c, http.StatusOK, "posts/post.html", data)
}

func (server *Server) renderPostForm(c *gin.Context, post *models.Post, form, errs map[string]string) {
	groups, err := models.FindAllGroups(server.DB.WithContext(c.Request.Context()))
	if err != nil {
		server.serverError(c, err)
		return
	}
	data := gin.H{
		"Title":  "New post",
		"Groups": groups,
		"Form":   form,
		"Errors": errs,
		"Edit":   post != nil,
	}
	if post != nil {
		data["Title"] = "Edit post"
		data["Post"] = post
	}
	server.render(c, http.StatusOK, "posts/new_post.html", data)
}

func (server *Server) NewPostForm(c *gin.Context) {
	server.renderPostForm(c, nil, map[string]string{}, map[string]string{})
}

// NewPost publishes a post for the current account and returns to the main
// page. The cached main page is left as is and catches up on expiry.
func (server *Server) NewPost(c *gin.Context) {
	user := httpctx.CurrentUser(c)
	if !policy.CanCreatePost(user) {
		server.redirect(c, "/")
		return
	}

	post := models.Post{AuthorID: user.ID}
	form, errorMessages := server.bindPostForm(c, &post)
	if len(errorMessages) > 0 {
		server.renderPostForm(c, nil, form, errorMessages)
		return
	}

	if _, err := post.SavePost(server.DB.WithContext(c.Request.Context())); err != nil {
		server.serverError(c, err)
		return
	}
	server.redirect(c, "/")
}

// bindPostForm copies the submitted text, group and image onto post. The image
// is stored only once the text and group are valid.
func (server *Server) bindPostForm(c *gin.Context, post *models.Post) (map[string]string, map[string]string) {
	form := map[string]string{
		"text":  c.PostForm("text"),
		"group": c.PostForm("group"),
	}

	post.Text = form["text"]
	post.GroupID = nil
	errorMessages := map[string]string{}
	if raw := form["group"]; raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			errorMessages["group"] = "Select a valid group"
		} else {
			gid := uint(id)
			post.GroupID = &gid
		}
	}

	post.Prepare()
	for field, msg := range post.Validate(server.DB.WithContext(c.Request.Context())) {
		if _, seen := errorMessages[field]; !seen {
			errorMessages[field] = msg
		}
	}
	if len(errorMessages) > 0 {
		return form, errorMessages
	}

	key, msg, err := server.saveUpload(c, "image", postImagePrefix, storage.PostImageSize)
	if err != nil {
		errorMessages["form"] = "Could not store the image, please try again"
		_ = c.Error(err)
		return form, errorMessages
	}
	if msg != "" {
		errorMessages["image"] = msg
		return form, errorMessages
	}
	if key != "" {
		post.Image = key
	}
	return form, errorMessages
}

func (server *Server) PostEditForm(c *gin.Context) {
	post, ok := server.editablePost(c)
	if !ok {
		return
	}
	form := map[string]string{"text": post.Text}
	if post.GroupID != nil {
		form["group"] = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	server.renderPostForm(c, post, form, map[string]string{})
}

func (server *Server) PostEdit(c *gin.Context) {
	post, ok := server.editablePost(c)
	if !ok {
		return
	}

	edit := models.Post{ID: post.ID, AuthorID: post.AuthorID, Image: post.Image}
	form, errorMessages := server.bindPostForm(c, &edit)
	if len(errorMessages) > 0 {
		server.renderPostForm(c, post, form, errorMessages)
		return
	}

	previousImage := post.Image
	if _, err := edit.UpdatePost(server.DB.WithContext(c.Request.Context())); err != nil {
		server.serverError(c, err)
		return
	}
	if previousImage != "" && previousImage != edit.Image {
		server.deleteUpload(c.Request.Context(), previousImage)
	}
	server.redirect(c, postURL(post))
}

// editablePost resolves the post in the path and checks that the current
// account owns it. Anyone else is sent back to the post page.
func (server *Server) editablePost(c *gin.Context) (*models.Post, bool) {
	post, err := server.resolvePost(c)
	if err != nil {
		server.lookupFailed(c, err)
		return nil, false
	}
	if !policy.CanEditPost(httpctx.CurrentUser(c), post) {
		server.redirect(c, postURL(post))
		return nil, false
	}
	return post, true
}

// PostDelete removes the post with its comments and returns to the author's
// profile.
func (server *Server) PostDelete(c *gin.Context) {
	post, err := server.resolvePost(c)
	if err != nil {
		server.lookupFailed(c, err)
		return
	}
	if !policy.CanDeletePost(httpctx.CurrentUser(c), post) {
		server.redirect(c, postURL(post))
		return
	}

	if _, err := post.DeletePost(server.DB.WithContext(c.Request.Context())); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			server.NotFound(c)
			return
		}
		server.serverError(c, err)
		return
	}
	if post.Image != "" {
		server.deleteUpload(c.Request.Context(), post.Image)
	}
	server.redirect(c, profileURL(post.Author.Username))
}
