package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Follow struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique;check:follows_no_self_follow,follower_id <> followed_id" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique" json:"followed_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

var ErrSelfFollow = errors.New("cannot follow yourself")

// CreateFollow inserts the edge unless it already exists. created reports
// whether a new row was written.
func CreateFollow(db *gorm.DB, followerID, followedID uint) (created bool, err error) {
	if followerID == followedID {
		return false, ErrSelfFollow
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Take(&User{}, followedID).Error; err != nil {
			return err
		}
		follow := Follow{
			FollowerID: followerID,
			FollowedID: followedID,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
		if result.Error != nil {
			return result.Error
		}
		created = result.RowsAffected > 0
		return nil
	})
	return created, err
}

func DeleteFollow(db *gorm.DB, followerID, followedID uint) (int64, error) {
	result := db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&Follow{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func IsFollowing(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

func CountFollowers(db *gorm.DB, uid uint) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("followed_id = ?", uid).Count(&count).Error
	return count, err
}

func CountFollowing(db *gorm.DB, uid uint) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("follower_id = ?", uid).Count(&count).Error
	return count, err
}

// FollowedIDs is the subquery of accounts uid follows.
func FollowedIDs(db *gorm.DB, uid uint) *gorm.DB {
	return db.Model(&Follow{}).Select("followed_id").Where("follower_id = ?", uid)
}
