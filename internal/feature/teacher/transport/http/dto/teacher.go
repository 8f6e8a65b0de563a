// Package dto はteacherフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"faculty_backend/internal/feature/teacher/domain/entity"
)

// TeacherRes is a teacher joined with the public fields of its user.
type TeacherRes struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	UniversityName string    `json:"university_name"`
	Gender         string    `json:"gender"`
	YearJoined     int       `json:"year_joined"`
	Email          string    `json:"email,omitempty"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromTeacher converts an entity to its response shape.
func FromTeacher(t *entity.Teacher) TeacherRes {
	res := TeacherRes{
		ID:             t.ID,
		UserID:         t.UserID,
		UniversityName: t.UniversityName,
		Gender:         string(t.Gender),
		YearJoined:     t.YearJoined,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.User != nil {
		res.Email = t.User.Email
		res.FirstName = t.User.FirstName
		res.LastName = t.User.LastName
	}
	return res
}

// FromTeachers converts a slice of entities.
func FromTeachers(ts []entity.Teacher) []TeacherRes {
	out := make([]TeacherRes, 0, len(ts))
	for i := range ts {
		out = append(out, FromTeacher(&ts[i]))
	}
	return out
}

// CreateTeacherReq is the body of POST /teachers.
type CreateTeacherReq struct {
	UserID         uint   `json:"user_id"`
	UniversityName string `json:"university_name"`
	Gender         string `json:"gender"`
	YearJoined     int    `json:"year_joined"`
}

// UpdateTeacherReq is the body of PUT /teachers/:id. Absent fields are left untouched.
type UpdateTeacherReq struct {
	UniversityName *string `json:"university_name"`
	Gender         *string `json:"gender"`
	YearJoined     *int    `json:"year_joined"`
}
