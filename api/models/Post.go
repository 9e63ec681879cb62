package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image"`

	CommentCount int64 `gorm:"-" json:"comment_count"`
}

// Excerpt is the short label used in listings and logs.
func (p *Post) Excerpt() string {
	if utf8.RuneCountInString(p.Text) <= 15 {
		return p.Text
	}
	return string([]rune(p.Text)[:15])
}

func (p *Post) Prepare() {
	p.Text = strings.TrimSpace(p.Text)
	if p.GroupID != nil && *p.GroupID == 0 {
		p.GroupID = nil
	}
}

func (p *Post) Validate(db *gorm.DB) map[string]string {
	var errorMessages = make(map[string]string)
	if p.Text == "" {
		errorMessages["text"] = "Text is required"
	}
	if p.AuthorID == 0 {
		errorMessages["author"] = "Author is required"
	}
	if p.GroupID != nil {
		var count int64
		if err := db.Model(&Group{}).Where("id = ?", *p.GroupID).Count(&count).Error; err != nil || count == 0 {
			errorMessages["group"] = "Select a valid group"
		}
	}
	return errorMessages
}

func (p *Post) SavePost(db *gorm.DB) (*Post, error) {
	p.ID = 0
	if err := db.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePost writes the editable fields only; author and creation time are
// fixed once the post exists.
func (p *Post) UpdatePost(db *gorm.DB) (*Post, error) {
	err := db.Model(&Post{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"text":       p.Text,
		"group_id":   p.GroupID,
		"image":      p.Image,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return FindPost(db, p.ID)
}

// DeletePost removes the post and its comments.
func (p *Post) DeletePost(db *gorm.DB) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", p.ID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", p.ID).Delete(&Post{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}

func FindPost(db *gorm.DB, id uint) (*Post, error) {
	var post Post
	err := db.Preload("Author").Preload("Group").Where("id = ?", id).Take(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindAuthorPost loads a post only if it belongs to username.
func FindAuthorPost(db *gorm.DB, username string, id uint) (*Post, error) {
	var post Post
	err := db.Preload("Author").Preload("Group").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.id = ? AND users.username = ?", id, username).
		Take(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func CountUserPosts(db *gorm.DB, uid uint) (int64, error) {
	var count int64
	err := db.Model(&Post{}).Where("author_id = ?", uid).Count(&count).Error
	return count, err
}
