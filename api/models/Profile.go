package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Profile struct {
	ID          uint       `gorm:"primary_key;autoIncrement" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`
	Photo       string     `gorm:"size:255" json:"photo"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

const DateOfBirthLayout = "2006-01-02"

// FindOrCreateProfile returns the profile of uid, creating an empty one for
// accounts registered before profiles existed.
func FindOrCreateProfile(db *gorm.DB, uid uint) (*Profile, error) {
	profile := Profile{UserID: uid}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&profile).Error
	if err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", uid).Take(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *Profile) Validate() map[string]string {
	var errorMessages = make(map[string]string)
	if p.DateOfBirth != nil && p.DateOfBirth.After(time.Now()) {
		errorMessages["date_of_birth"] = "Date of birth cannot be in the future"
	}
	return errorMessages
}

func (p *Profile) UpdateProfile(db *gorm.DB) (*Profile, error) {
	err := db.Model(&Profile{}).Where("user_id = ?", p.UserID).Updates(map[string]interface{}{
		"date_of_birth": p.DateOfBirth,
		"photo":         p.Photo,
		"updated_at":    time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", p.UserID).Take(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func CountProfiles(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Profile{}).Count(&count).Error
	return count, err
}
