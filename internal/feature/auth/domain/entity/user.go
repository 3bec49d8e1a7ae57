// Package entity defines the domain entities for the auth feature.
package entity

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// OwnerID is the fixed primary key of the single owner record.
// The application never stores a user under any other ID.
const OwnerID uint = 1

// User is the owner of the watchlist.
type User struct {
	ID uint `gorm:"primaryKey"`

	// Name is shown in page headers.
	Name string `gorm:"size:20"`

	// UserName is the login identifier.
	UserName string `gorm:"column:user_name;size:20"`

	// PasswordHash is a bcrypt digest. It never holds a plaintext password.
	PasswordHash string `gorm:"column:password_hash;size:128"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "user"
}

// SetPassword hashes plain with bcrypt and stores the digest.
func (u *User) SetPassword(plain string) error {
	if plain == "" {
		return errors.New("password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hashed)
	return nil
}

// ValidatePassword reports whether plain matches the stored digest.
// A user without a digest never validates.
func (u *User) ValidatePassword(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
