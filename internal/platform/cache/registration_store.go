package cache

import (
	"context"

	authusecase "faculty_backend/internal/feature/auth/usecase"
)

// Invalidator is satisfied by CachingTeacherRepository.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// InvalidatingRegistrationStore wraps a RegistrationStore so that teacher rows
// inserted inside the registration transaction do not leave a stale cached list.
type InvalidatingRegistrationStore struct {
	inner authusecase.RegistrationStore
	cache Invalidator
}

// NewInvalidatingRegistrationStore returns inner unchanged when cache is nil.
func NewInvalidatingRegistrationStore(inner authusecase.RegistrationStore, cache Invalidator) authusecase.RegistrationStore {
	if cache == nil {
		return inner
	}
	return &InvalidatingRegistrationStore{inner: inner, cache: cache}
}

// WithinTx runs fn in the inner store and invalidates the cache after a successful commit.
func (s *InvalidatingRegistrationStore) WithinTx(ctx context.Context, fn func(repos authusecase.TxRepositories) error) error {
	if err := s.inner.WithinTx(ctx, fn); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx) // Best effort
	return nil
}
