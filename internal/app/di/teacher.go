// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "faculty_backend/internal/feature/auth/adapters"
	authusecase "faculty_backend/internal/feature/auth/usecase"
	teacheradapters "faculty_backend/internal/feature/teacher/adapters"
	teacherusecase "faculty_backend/internal/feature/teacher/usecase"
	"faculty_backend/internal/platform/cache"
)

// TeacherStores bundles the teacher repository used by the CRUD usecase and
// the registration store used by the compound registration.
type TeacherStores struct {
	Teachers     teacherusecase.TeacherRepository
	Registration authusecase.RegistrationStore
}

// NewTeacherStores creates the teacher persistence components.
// If Redis is available, reads go through a Redis cache and the registration
// transaction invalidates it after commit. Otherwise, it falls back to the
// plain GORM repository.
func NewTeacherStores(db *gorm.DB, rdb *redis.Client, ttl time.Duration, namespace string) TeacherStores {
	repo := teacheradapters.NewTeacherRepository(db)
	registration := authadapters.NewRegistrationStore(db)
	if rdb == nil {
		return TeacherStores{Teachers: repo, Registration: registration}
	}

	cached := cache.NewCachingTeacherRepository(rdb, ttl, repo, namespace)
	return TeacherStores{
		Teachers:     cached,
		Registration: cache.NewInvalidatingRegistrationStore(registration, cached),
	}
}
