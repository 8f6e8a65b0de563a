package dto

import (
	"time"

	"faculty_backend/internal/feature/auth/domain/entity"
)

// UserRes is the public view of a user. It has no password field.
type UserRes struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromUser converts an entity to its public view.
func FromUser(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ProfileRes is the body of GET /auth/profile.
type ProfileRes struct {
	User UserRes `json:"user"`
}
