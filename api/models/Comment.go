package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Comment) Prepare() {
	c.ID = 0
	c.Text = strings.TrimSpace(c.Text)
	c.Author = User{}
	c.Post = Post{}
}

func (c *Comment) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if c.Text == "" {
		errorMessages["text"] = "Text is required"
	}
	if c.AuthorID == 0 {
		errorMessages["author"] = "Author is required"
	}
	if c.PostID == 0 {
		errorMessages["post"] = "Post is required"
	}
	return errorMessages
}

func (c *Comment) SaveComment(db *gorm.DB) (*Comment, error) {
	if err := db.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetComments lists the comments of a post, newest first.
func GetComments(db *gorm.DB, postID uint) ([]Comment, error) {
	comments := []Comment{}
	err := db.Preload("Author").Where("post_id = ?", postID).
		Order("created_at desc").Order("id desc").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func FindComment(db *gorm.DB, postID, id uint) (*Comment, error) {
	var comment Comment
	err := db.Preload("Post").Where("id = ? AND post_id = ?", id, postID).Take(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Comment) DeleteAComment(db *gorm.DB) (int64, error) {
	result := db.Where("id = ?", c.ID).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountPostComments returns comment totals keyed by post id.
func CountPostComments(db *gorm.DB, postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID uint
		Total  int64
	}
	err := db.Model(&Comment{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}
