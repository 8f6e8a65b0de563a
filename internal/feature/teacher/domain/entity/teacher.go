// Package entity defines the domain entities for the teacher feature.
package entity

import (
	"time"

	authentity "faculty_backend/internal/feature/auth/domain/entity"
)

// Gender is the self-declared gender of a teacher.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the enumerated values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Teacher is the profile attached to a user. One per user by convention;
// storage does not enforce uniqueness of UserID.
type Teacher struct {
	ID uint `gorm:"primaryKey"`

	// UserID references auth_user.id. Deleting the user deletes the profile.
	UserID uint             `gorm:"index;not null"`
	User   *authentity.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	UniversityName string `gorm:"size:100;not null"`
	Gender         Gender `gorm:"size:10;not null;check:chk_teachers_gender,gender IN ('male','female','other')"`
	YearJoined     int    `gorm:"not null;check:chk_teachers_year_joined,year_joined > 1900"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table to teachers.
func (Teacher) TableName() string {
	return "teachers"
}

// Changes is a partial update. Nil fields are left untouched.
type Changes struct {
	UniversityName *string
	Gender         *Gender
	YearJoined     *int
}

// Empty reports whether c carries no field.
func (c Changes) Empty() bool {
	return c.UniversityName == nil && c.Gender == nil && c.YearJoined == nil
}
