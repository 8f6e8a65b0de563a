package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"faculty_backend/internal/feature/auth/usecase"
	teacheradapters "faculty_backend/internal/feature/teacher/adapters"
)

// registrationGorm implements usecase.RegistrationStore with an explicit
// Begin / Commit / Rollback on one connection.
type registrationGorm struct {
	db *gorm.DB
}

var _ usecase.RegistrationStore = (*registrationGorm)(nil)

// NewRegistrationStore returns a RegistrationStore backed by db.
func NewRegistrationStore(db *gorm.DB) *registrationGorm {
	return &registrationGorm{db: db}
}

// WithinTx は1つのトランザクション内で fn を実行します。
// fn が nil を返した場合のみコミットし、エラーまたはpanicの場合はロールバックします。
// fn に渡されるリポジトリはすべてトランザクションハンドル上で動作します。
func (s *registrationGorm) WithinTx(ctx context.Context, fn func(repos usecase.TxRepositories) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	repos := usecase.TxRepositories{
		Users:    NewUserRepository(tx),
		Teachers: teacheradapters.NewTeacherRepository(tx),
	}

	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
