package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "faculty_backend/internal/feature/auth/adapters"
	authhandler "faculty_backend/internal/feature/auth/transport/handler"
	authusecase "faculty_backend/internal/feature/auth/usecase"
	teacherhandler "faculty_backend/internal/feature/teacher/transport/handler"
	teacherusecase "faculty_backend/internal/feature/teacher/usecase"
	"faculty_backend/internal/platform/credential"
	jwtmw "faculty_backend/internal/platform/jwt"
	"faculty_backend/internal/platform/validation"
)

// Deps are the long-lived resources shared by every feature.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client // nil runs without cache
	JWT   *jwtmw.Manager

	CacheTTL       time.Duration
	CacheNamespace string
	PasswordCost   int              // 0 uses bcrypt.DefaultCost
	Now            func() time.Time // nil uses time.Now
}

// Handlers are the HTTP entry points handed to the router.
type Handlers struct {
	Auth     *authhandler.AuthHandler
	Teachers *teacherhandler.TeacherHandler
}

// NewHandlers wires repository -> usecase -> handler for both features.
func NewHandlers(d Deps) Handlers {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	v := validation.New(now)

	// Repository
	users := authadapters.NewUserRepository(d.DB)
	stores := NewTeacherStores(d.DB, d.Redis, d.CacheTTL, d.CacheNamespace)

	// Usecase
	authUC := authusecase.NewAuthUsecase(users, stores.Teachers, stores.Registration, credential.NewHasher(d.PasswordCost), d.JWT, v)
	teacherUC := teacherusecase.NewTeacherUsecase(stores.Teachers, users, v)

	// Handler
	return Handlers{
		Auth:     authhandler.NewAuthHandler(authUC),
		Teachers: teacherhandler.NewTeacherHandler(teacherUC),
	}
}
