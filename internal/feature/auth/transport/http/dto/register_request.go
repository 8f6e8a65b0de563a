package dto

import teacherdto "faculty_backend/internal/feature/teacher/transport/http/dto"

// RegisterReq is the body of POST /auth/register.
// Rules are enforced by the usecase so that every field error is reported at once.
type RegisterReq struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// RegisterTeacherReq is the body of POST /auth/register-teacher.
type RegisterTeacherReq struct {
	RegisterReq
	UniversityName string `json:"university_name"`
	Gender         string `json:"gender"`
	YearJoined     int    `json:"year_joined"`
}

// RegisterRes is returned on successful account registration.
type RegisterRes struct {
	Message string  `json:"message"`
	User    UserRes `json:"user"`
}

// RegisterTeacherRes is returned on successful compound registration.
type RegisterTeacherRes struct {
	Message string                `json:"message"`
	User    UserRes               `json:"user"`
	Teacher teacherdto.TeacherRes `json:"teacher"`
}
