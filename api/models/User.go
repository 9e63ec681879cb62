package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"Yatube/api/security"

	"github.com/badoux/checkmail"
	"gorm.io/gorm"
)

type User struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Username  string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Email     string    `gorm:"size:254;not null" json:"-"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Usernames that would be shadowed by a top-level route.
var reservedUsernames = map[string]struct{}{
	"about":   {},
	"auth":    {},
	"follow":  {},
	"group":   {},
	"health":  {},
	"media":   {},
	"metrics": {},
	"new":     {},
	"profile": {},
	"static":  {},
}

func IsReservedUsername(username string) bool {
	_, ok := reservedUsernames[strings.ToLower(username)]
	return ok
}

// DisplayName is the full name when known, otherwise the username.
func (u User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

func (u *User) HashPassword() error {
	hashedPassword, err := security.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) Prepare() {
	u.Username = strings.TrimSpace(u.Username)
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

func (u *User) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	switch strings.ToLower(action) {
	case "update":
		if u.Email == "" {
			errorMessages["email"] = "Required Email"
		} else if err := checkmail.ValidateFormat(u.Email); err != nil {
			errorMessages["email"] = "Invalid Email"
		}
	case "login":
		if u.Username == "" {
			errorMessages["username"] = "Required Username"
		}
		if u.Password == "" {
			errorMessages["password"] = "Required Password"
		}
	default:
		switch {
		case u.Username == "":
			errorMessages["username"] = "Required Username"
		case len(u.Username) > 150 || !usernamePattern.MatchString(u.Username):
			errorMessages["username"] = "Username may contain only letters, digits and @/./+/-/_"
		case IsReservedUsername(u.Username):
			errorMessages["username"] = "This username is not available"
		}
		if u.Password == "" {
			errorMessages["password"] = "Required Password"
		} else if len(u.Password) < 8 {
			errorMessages["password"] = "Password should be at least 8 characters"
		}
		if u.Email == "" {
			errorMessages["email"] = "Required Email"
		} else if err := checkmail.ValidateFormat(u.Email); err != nil {
			errorMessages["email"] = "Invalid Email"
		}
	}
	return errorMessages
}

// SaveUser hashes the password and stores the account together with its
// profile.
func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	if err := u.HashPassword(); err != nil {
		return nil, err
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return tx.Create(&Profile{UserID: u.ID}).Error
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) FindUserByID(db *gorm.DB, uid uint) (*User, error) {
	var user User
	if err := db.Where("id = ?", uid).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *User) FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	if err := db.Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateAUser writes the editable account fields. Username and password are
// left untouched.
func (u *User) UpdateAUser(db *gorm.DB) (*User, error) {
	if u.ID == 0 {
		return nil, errors.New("user id is required")
	}
	err := db.Model(&User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	if err := db.Where("id = ?", u.ID).Take(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func CountUsers(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&User{}).Count(&count).Error
	return count, err
}
