// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the login identifier. Exact-match unique across all users;
	// the unique index is the authoritative guard against duplicates.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// FirstName and LastName are the display names, at most 50 characters.
	FirstName string `gorm:"size:50;not null"`
	LastName  string `gorm:"size:50;not null"`

	// Password is the bcrypt hash. Plaintext is never stored and the hash
	// is never serialized.
	Password string `gorm:"size:255;not null" json:"-"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// TableName pins the table to auth_user.
func (User) TableName() string {
	return "auth_user"
}

// Sanitized returns a copy of u without the password hash.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Password = ""
	return &cp
}
