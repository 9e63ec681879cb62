package controllers

import (
	"net/http"
	"strings"
	"time"

	"Yatube/api/models"
	"Yatube/api/policy"
	"Yatube/api/storage"
	"Yatube/api/utils/formaterror"
	"Yatube/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const avatarPrefix = "avatars"

func (server *Server) ProfileEditForm(c *gin.Context) {
	user := httpctx.CurrentUser(c)
	profile, err := models.FindOrCreateProfile(server.DB.WithContext(c.Request.Context()), user.ID)
	if err != nil {
		server.serverError(c, err)
		return
	}

	form := map[string]string{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
	}
	if profile.DateOfBirth != nil {
		form["date_of_birth"] = profile.DateOfBirth.Format(models.DateOfBirthLayout)
	}
	server.renderProfileForm(c, profile, form, map[string]string{})
}

func (server *Server) renderProfileForm(c *gin.Context, profile *models.Profile, form, errs map[string]string) {
	server.render(c, http.StatusOK, "users/edit.html", gin.H{
		"Title":   "Edit profile",
		"Profile": profile,
		"Form":    form,
		"Errors":  errs,
	})
}

// ProfileEdit saves the account names, email, birth date and photo of the
// current account together.
func (server *Server) ProfileEdit(c *gin.Context) {
	user := httpctx.CurrentUser(c)
	db := server.DB.WithContext(c.Request.Context())

	profile, err := models.FindOrCreateProfile(db, user.ID)
	if err != nil {
		server.serverError(c, err)
		return
	}
	if !policy.CanEditProfile(user, profile) {
		server.redirect(c, profileURL(user.Username))
		return
	}

	form := map[string]string{
		"first_name":    c.PostForm("first_name"),
		"last_name":     c.PostForm("last_name"),
		"email":         c.PostForm("email"),
		"date_of_birth": strings.TrimSpace(c.PostForm("date_of_birth")),
	}

	edited := models.User{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: form["first_name"],
		LastName:  form["last_name"],
		Email:     form["email"],
	}
	edited.Prepare()
	errorMessages := edited.Validate("update")

	updated := models.Profile{ID: profile.ID, UserID: user.ID, Photo: profile.Photo}
	if raw := form["date_of_birth"]; raw != "" {
		dob, err := time.Parse(models.DateOfBirthLayout, raw)
		if err != nil {
			errorMessages["date_of_birth"] = "Enter a valid date"
		} else {
			updated.DateOfBirth = &dob
		}
	}
	for field, msg := range updated.Validate() {
		errorMessages[field] = msg
	}
	if len(errorMessages) > 0 {
		server.renderProfileForm(c, profile, form, errorMessages)
		return
	}

	key, msg, err := server.saveUpload(c, "photo", avatarPrefix, storage.AvatarSize)
	if err != nil {
		server.serverError(c, err)
		return
	}
	if msg != "" {
		server.renderProfileForm(c, profile, form, map[string]string{"photo": msg})
		return
	}
	if key != "" {
		updated.Photo = key
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := edited.UpdateAUser(tx); err != nil {
			return err
		}
		_, err := updated.UpdateProfile(tx)
		return err
	})
	if err != nil {
		if key != "" {
			server.deleteUpload(c.Request.Context(), key)
		}
		server.renderProfileForm(c, profile, form, formaterror.FormatError(err.Error()))
		return
	}
	if key != "" && profile.Photo != "" {
		server.deleteUpload(c.Request.Context(), profile.Photo)
	}
	server.redirect(c, profileURL(user.Username))
}
