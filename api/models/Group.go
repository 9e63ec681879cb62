package models

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

type Group struct {
	ID          uint   `gorm:"primary_key;autoIncrement" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func (g *Group) Prepare() {
	g.Title = strings.TrimSpace(g.Title)
	g.Slug = strings.ToLower(strings.TrimSpace(g.Slug))
	g.Description = strings.TrimSpace(g.Description)
}

func (g *Group) Validate() map[string]string {
	var errorMessages = make(map[string]string)
	if g.Title == "" {
		errorMessages["title"] = "Title is required"
	}
	if !slugPattern.MatchString(g.Slug) {
		errorMessages["slug"] = "Slug may contain only letters, digits, hyphens and underscores"
	}
	return errorMessages
}

func (g *Group) SaveGroup(db *gorm.DB) (*Group, error) {
	if err := db.Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func FindGroupBySlug(db *gorm.DB, slug string) (*Group, error) {
	var group Group
	if err := db.Where("slug = ?", slug).Take(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func FindAllGroups(db *gorm.DB) ([]Group, error) {
	groups := []Group{}
	err := db.Order("title asc").Find(&groups).Error
	return groups, err
}
