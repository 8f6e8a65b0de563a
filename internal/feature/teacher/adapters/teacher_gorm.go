// Package adapters はteacherフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authdomain "faculty_backend/internal/feature/auth/domain"
	"faculty_backend/internal/feature/teacher/domain"
	"faculty_backend/internal/feature/teacher/domain/entity"
	"faculty_backend/internal/feature/teacher/usecase"
	platformdb "faculty_backend/internal/platform/db"
)

// publicUserColumns are the auth_user columns joined into teacher reads.
// The password hash is never selected.
var publicUserColumns = []string{"id", "email", "first_name", "last_name", "created_at", "updated_at"}

// teacherGorm はTeacherRepositoryインターフェースのGORM実装です。
type teacherGorm struct {
	db *gorm.DB
}

var _ usecase.TeacherRepository = (*teacherGorm)(nil)

// NewTeacherRepository は指定されたgorm.DB（またはトランザクション）でteacherGormを生成します。
func NewTeacherRepository(db *gorm.DB) *teacherGorm {
	return &teacherGorm{db: db}
}

func withPublicUser(tx *gorm.DB) *gorm.DB {
	return tx.Preload("User", func(q *gorm.DB) *gorm.DB {
		return q.Select(publicUserColumns)
	})
}

// List は全教員をユーザー情報付きでID順に返します。
func (r *teacherGorm) List(ctx context.Context) ([]entity.Teacher, error) {
	var teachers []entity.Teacher
	if err := withPublicUser(r.db.WithContext(ctx)).Order("id").Find(&teachers).Error; err != nil {
		return nil, err
	}
	return teachers, nil
}

// FindByID はIDで教員を取得します。
// 存在しない場合、domain.ErrTeacherNotFoundを返します。
func (r *teacherGorm) FindByID(ctx context.Context, id uint) (*entity.Teacher, error) {
	var t entity.Teacher
	if err := withPublicUser(r.db.WithContext(ctx)).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTeacherNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create は教員行のみを挿入します（関連するユーザー行は保存しません）。
// user_id が存在しない場合、authdomain.ErrUserNotFoundを返します。
func (r *teacherGorm) Create(ctx context.Context, t *entity.Teacher) error {
	if t == nil {
		return errors.New("teacher must not be nil")
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error; err != nil {
		if platformdb.IsForeignKeyViolation(err) {
			return authdomain.ErrUserNotFound
		}
		return err
	}
	return nil
}

// Update applies the non-nil fields of changes to the teacher with id.
func (r *teacherGorm) Update(ctx context.Context, id uint, changes entity.Changes) error {
	if changes.Empty() {
		return domain.ErrNoChanges
	}

	values := map[string]any{}
	if changes.UniversityName != nil {
		values["university_name"] = *changes.UniversityName
	}
	if changes.Gender != nil {
		values["gender"] = string(*changes.Gender)
	}
	if changes.YearJoined != nil {
		values["year_joined"] = *changes.YearJoined
	}

	res := r.db.WithContext(ctx).Model(&entity.Teacher{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTeacherNotFound
	}
	return nil
}

// Delete removes the teacher with id.
func (r *teacherGorm) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Teacher{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTeacherNotFound
	}
	return nil
}
