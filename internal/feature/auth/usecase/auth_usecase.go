// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"faculty_backend/internal/feature/auth/domain"
	"faculty_backend/internal/feature/auth/domain/entity"
	teacherentity "faculty_backend/internal/feature/teacher/domain/entity"
	"faculty_backend/internal/platform/credential"
	"faculty_backend/internal/platform/validation"
)

// dummyHash はユーザーが存在しない場合にもbcrypt比較を実行するためのダミーハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。
	// メールアドレスが重複する場合は domain.ErrDuplicateEmail を返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail はメールアドレスに完全一致するユーザーを取得します。
	// 存在しない場合は domain.ErrUserNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID はIDに一致するユーザーを取得します。
	// 存在しない場合は domain.ErrUserNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// TeacherRepository is the subset of teacher persistence that registration needs.
type TeacherRepository interface {
	Create(ctx context.Context, t *teacherentity.Teacher) error
	FindByID(ctx context.Context, id uint) (*teacherentity.Teacher, error)
}

// TxRepositories are repositories bound to one open transaction.
type TxRepositories struct {
	Users    UserRepository
	Teachers TeacherRepository
}

// RegistrationStore runs fn inside a single storage transaction.
// fn returning nil commits; any error (or panic) rolls back.
type RegistrationStore interface {
	WithinTx(ctx context.Context, fn func(repos TxRepositories) error) error
}

// PasswordHasher はパスワードのハッシュ化と照合を抽象化します。
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, email string) (string, error)
}

// RegisterInput is the payload of a plain account registration.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

func (in RegisterInput) toUser(hashed string) *entity.User {
	return &entity.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hashed,
	}
}

// authUsecase は認証・登録のビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	teachers     TeacherRepository
	store        RegistrationStore
	hasher       PasswordHasher
	jwtGenerator JWTGenerator
	validator    *validation.Validator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(
	users UserRepository,
	teachers TeacherRepository,
	store RegistrationStore,
	hasher PasswordHasher,
	jwtGenerator JWTGenerator,
	v *validation.Validator,
) *authUsecase {
	return &authUsecase{
		users:        users,
		teachers:     teachers,
		store:        store,
		hasher:       hasher,
		jwtGenerator: jwtGenerator,
		validator:    v,
	}
}

// Register は新規ユーザーを登録し、パスワードハッシュを除いたユーザーを返します。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := u.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := u.ensureEmailAvailable(ctx, in.Email); err != nil {
		return nil, err
	}

	hashed, err := u.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := in.toUser(hashed)
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: create user: %w", domain.ErrStorageUnavailable, err)
	}
	return user.Sanitized(), nil
}

// Login はユーザーを認証し、成功時にJWTトークンとユーザーを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("%w: find user: %w", domain.ErrStorageUnavailable, err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}

	// ユーザー未検出とパスワード不一致は同じエラーで返す
	matched := u.hasher.Verify(password, passwordHash)
	if err != nil || !matched {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user.Sanitized(), nil
}

// Profile returns the user behind an authenticated identity.
func (u *authUsecase) Profile(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %w", domain.ErrStorageUnavailable, err)
	}
	return user.Sanitized(), nil
}

// ensureEmailAvailable はメールアドレスの事前重複チェックです。
// 高速パスに過ぎず、最終的な判定はユニークインデックスが行います。
func (u *authUsecase) ensureEmailAvailable(ctx context.Context, email string) error {
	_, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrDuplicateEmail
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("%w: email pre-check: %w", domain.ErrStorageUnavailable, err)
	}
}

func (u *authUsecase) hashPassword(plain string) (string, error) {
	hashed, err := u.hasher.Hash(plain)
	if err != nil {
		if errors.Is(err, credential.ErrPasswordTooLong) {
			return "", validation.NewError("password", "must be at most 72 bytes")
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}
