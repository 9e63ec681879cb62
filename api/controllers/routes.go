package controllers

import (
	"Yatube/api/middlewares"
	"Yatube/api/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initializeRoutes() {
	s.Router.GET("/health", s.Health)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if disk, ok := s.Storage.(*storage.Disk); ok {
		s.Router.Static("/media", disk.Root)
	}

	s.Router.GET("/", s.Index)
	s.Router.GET("/group/:slug/", s.GroupPosts)
	s.Router.GET("/about/author/", s.AboutAuthor)
	s.Router.GET("/about/tech/", s.AboutTech)

	authGroup := s.Router.Group("/auth")
	{
		authGroup.GET("/signup/", s.SignupForm)
		authGroup.POST("/signup/", s.loginLimiter.Middleware(), s.Signup)
		authGroup.GET("/login/", s.LoginForm)
		authGroup.POST("/login/", s.loginLimiter.Middleware(), s.Login)
		authGroup.GET("/logout/", s.Logout)
	}

	loginRequired := middlewares.LoginRequired()
	uploadLimit := middlewares.BodyLimit(maxUploadRequestBytes)
	s.Router.GET("/new/", loginRequired, s.NewPostForm)
	s.Router.POST("/new/", loginRequired, uploadLimit, s.NewPost)
	s.Router.GET("/follow/", loginRequired, s.FollowIndex)
	s.Router.GET("/profile/edit/", loginRequired, s.ProfileEditForm)
	s.Router.POST("/profile/edit/", loginRequired, uploadLimit, s.ProfileEdit)

	// Account pages. Usernames that collide with the paths above are rejected
	// at signup.
	s.Router.GET("/:username/", s.Profile)
	s.Router.GET("/:username/follow/", loginRequired, s.ProfileFollow)
	s.Router.GET("/:username/unfollow/", loginRequired, s.ProfileUnfollow)
	s.Router.GET("/:username/:post_id/", s.PostView)
	s.Router.GET("/:username/:post_id/edit/", loginRequired, s.PostEditForm)
	s.Router.POST("/:username/:post_id/edit/", loginRequired, uploadLimit, s.PostEdit)
	s.Router.POST("/:username/:post_id/delete/", loginRequired, s.PostDelete)
	s.Router.GET("/:username/:post_id/comment/", loginRequired, s.CommentRedirect)
	s.Router.POST("/:username/:post_id/comment/", loginRequired, s.AddComment)
	s.Router.POST("/:username/:post_id/comment/:comment_id/delete/", loginRequired, s.CommentDelete)
}
