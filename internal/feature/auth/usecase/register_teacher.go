package usecase

import (
	"context"
	"fmt"

	"faculty_backend/internal/feature/auth/domain"
	"faculty_backend/internal/feature/auth/domain/entity"
	teacherentity "faculty_backend/internal/feature/teacher/domain/entity"
)

// RegisterTeacherInput is the payload of the compound user + teacher registration.
type RegisterTeacherInput struct {
	RegisterInput
	UniversityName string `json:"university_name" validate:"required,min=2,max=100"`
	Gender         string `json:"gender" validate:"required,oneof=male female other"`
	YearJoined     int    `json:"year_joined" validate:"required,gt=1900,notfuture"`
}

// RegisterTeacher はユーザーと教員プロフィールを1つのトランザクションで作成します。
// いずれかの挿入が失敗した場合はロールバックされ、ユーザー行は残りません。
// 失敗時は domain.ErrRegistrationFailed で包んだ原因を返し、部分的なIDは返しません。
func (u *authUsecase) RegisterTeacher(ctx context.Context, in RegisterTeacherInput) (*entity.User, *teacherentity.Teacher, error) {
	// 1. 全フィールドをトランザクション開始前に検証
	if err := u.validator.Struct(in); err != nil {
		return nil, nil, err
	}
	// 2. メールアドレスの事前チェック
	if err := u.ensureEmailAvailable(ctx, in.Email); err != nil {
		return nil, nil, err
	}
	// 3. パスワードのハッシュ化
	hashed, err := u.hashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	// 4. ユーザー → 教員の順に挿入し、両方成功した場合のみコミット
	var userID, teacherID uint
	err = u.store.WithinTx(ctx, func(repos TxRepositories) error {
		user := in.toUser(hashed)
		if err := repos.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		teacher := &teacherentity.Teacher{
			UserID:         user.ID,
			UniversityName: in.UniversityName,
			Gender:         teacherentity.Gender(in.Gender),
			YearJoined:     in.YearJoined,
		}
		if err := repos.Teachers.Create(ctx, teacher); err != nil {
			return fmt.Errorf("create teacher: %w", err)
		}

		userID, teacherID = user.ID, teacher.ID
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}

	// 5. コミット後に両方の行を読み直す
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reload user %d: %w", domain.ErrStorageUnavailable, userID, err)
	}
	teacher, err := u.teachers.FindByID(ctx, teacherID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reload teacher %d: %w", domain.ErrStorageUnavailable, teacherID, err)
	}
	teacher.User = user.Sanitized()
	return user.Sanitized(), teacher, nil
}
