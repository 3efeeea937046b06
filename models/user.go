package models

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrEmptyUsername = errors.New("username is required")

// User is an analyst allowed to query the costing API. Disabled accounts keep
// their history but cannot log in.
type User struct {
	gorm.Model
	Username    string `gorm:"size:64;uniqueIndex;not null"`
	Password    string `gorm:"not null"`
	Disabled    bool   `gorm:"not null;default:false"`
	LastLoginAt *time.Time
}

// NormalizeUsername is the stored form of a login name.
func NormalizeUsername(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (u *User) BeforeSave(*gorm.DB) error {
	u.Username = NormalizeUsername(u.Username)
	if u.Username == "" {
		return ErrEmptyUsername
	}
	return nil
}

func (u *User) HashPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// Authenticate reports whether password opens this account.
func (u *User) Authenticate(password string) bool {
	if u.Disabled {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// RecordLogin stamps LastLoginAt without touching UpdatedAt.
func (u *User) RecordLogin(db *gorm.DB, at time.Time) error {
	at = at.UTC()
	if err := db.Model(u).UpdateColumn("last_login_at", at).Error; err != nil {
		return err
	}
	u.LastLoginAt = &at
	return nil
}
