// Package usecase はteacherフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	authdomain "faculty_backend/internal/feature/auth/domain"
	authentity "faculty_backend/internal/feature/auth/domain/entity"
	"faculty_backend/internal/feature/teacher/domain"
	"faculty_backend/internal/feature/teacher/domain/entity"
	"faculty_backend/internal/platform/validation"
)

// TeacherRepository は教員エンティティの永続化層を抽象化します。
type TeacherRepository interface {
	List(ctx context.Context) ([]entity.Teacher, error)
	FindByID(ctx context.Context, id uint) (*entity.Teacher, error)
	Create(ctx context.Context, t *entity.Teacher) error
	Update(ctx context.Context, id uint, changes entity.Changes) error
	Delete(ctx context.Context, id uint) error
}

// UserFinder resolves the user a teacher profile is attached to.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
}

// CreateInput attaches a profile to an existing user.
type CreateInput struct {
	UserID         uint   `json:"user_id" validate:"required"`
	UniversityName string `json:"university_name" validate:"required,min=2,max=100"`
	Gender         string `json:"gender" validate:"required,oneof=male female other"`
	YearJoined     int    `json:"year_joined" validate:"required,gt=1900,notfuture"`
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	UniversityName *string `json:"university_name" validate:"omitnil,min=2,max=100"`
	Gender         *string `json:"gender" validate:"omitnil,oneof=male female other"`
	YearJoined     *int    `json:"year_joined" validate:"omitnil,gt=1900,notfuture"`
}

func (in UpdateInput) changes() entity.Changes {
	c := entity.Changes{
		UniversityName: in.UniversityName,
		YearJoined:     in.YearJoined,
	}
	if in.Gender != nil {
		g := entity.Gender(*in.Gender)
		c.Gender = &g
	}
	return c
}

// TeacherUsecase implements teacher profile CRUD.
type TeacherUsecase struct {
	teachers  TeacherRepository
	users     UserFinder
	validator *validation.Validator
}

// NewTeacherUsecase はTeacherUsecaseの新しいインスタンスを生成します。
func NewTeacherUsecase(teachers TeacherRepository, users UserFinder, v *validation.Validator) *TeacherUsecase {
	return &TeacherUsecase{teachers: teachers, users: users, validator: v}
}

// List returns every teacher joined with its user.
func (u *TeacherUsecase) List(ctx context.Context) ([]entity.Teacher, error) {
	teachers, err := u.teachers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// Get returns one teacher or domain.ErrTeacherNotFound.
func (u *TeacherUsecase) Get(ctx context.Context, id uint) (*entity.Teacher, error) {
	return u.teachers.FindByID(ctx, id)
}

// Create は既存ユーザーに教員プロフィールを追加します。
// user_id が存在しないユーザーを指す場合はバリデーションエラーを返します。
func (u *TeacherUsecase) Create(ctx context.Context, in CreateInput) (*entity.Teacher, error) {
	if err := u.validator.Struct(in); err != nil {
		return nil, err
	}

	if _, err := u.users.FindByID(ctx, in.UserID); err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return nil, validation.NewError("user_id", "does not reference an existing user")
		}
		return nil, fmt.Errorf("find user %d: %w", in.UserID, err)
	}

	t := &entity.Teacher{
		UserID:         in.UserID,
		UniversityName: in.UniversityName,
		Gender:         entity.Gender(in.Gender),
		YearJoined:     in.YearJoined,
	}
	if err := u.teachers.Create(ctx, t); err != nil {
		// 事前確認とINSERTの間にユーザーが削除された場合
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return nil, validation.NewError("user_id", "does not reference an existing user")
		}
		return nil, fmt.Errorf("create teacher: %w", err)
	}
	return u.teachers.FindByID(ctx, t.ID)
}

// Update applies a partial update and returns the stored row.
func (u *TeacherUsecase) Update(ctx context.Context, id uint, in UpdateInput) (*entity.Teacher, error) {
	changes := in.changes()
	if changes.Empty() {
		return nil, domain.ErrNoChanges
	}
	if err := u.validator.Struct(in); err != nil {
		return nil, err
	}

	if _, err := u.teachers.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := u.teachers.Update(ctx, id, changes); err != nil {
		return nil, fmt.Errorf("update teacher %d: %w", id, err)
	}
	return u.teachers.FindByID(ctx, id)
}

// Delete removes a teacher profile. The user row is kept.
func (u *TeacherUsecase) Delete(ctx context.Context, id uint) error {
	if _, err := u.teachers.FindByID(ctx, id); err != nil {
		return err
	}
	if err := u.teachers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete teacher %d: %w", id, err)
	}
	return nil
}
