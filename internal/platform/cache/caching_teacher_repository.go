// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"faculty_backend/internal/feature/teacher/domain/entity"
	"faculty_backend/internal/feature/teacher/usecase"
)

// CachingTeacherRepository decorates a TeacherRepository with a Redis read-through cache.
// List and FindByID are cached; every write invalidates the namespace.
type CachingTeacherRepository struct {
	inner     usecase.TeacherRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingTeacherRepository decorates a TeacherRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "teachers".
// A nil rdb disables caching entirely.
func NewCachingTeacherRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TeacherRepository, namespace string) *CachingTeacherRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "teachers"
	}
	return &CachingTeacherRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List returns every teacher, checking the cache first.
func (c *CachingTeacherRepository) List(ctx context.Context) ([]entity.Teacher, error) {
	if c.rdb == nil {
		return c.inner.List(ctx)
	}
	var out []entity.Teacher
	if c.get(ctx, c.listKey(), &out) {
		return out, nil
	}

	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, c.listKey(), out)
	return out, nil
}

// FindByID returns one teacher, checking the cache first. Misses (not found) are not cached.
func (c *CachingTeacherRepository) FindByID(ctx context.Context, id uint) (*entity.Teacher, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}
	key := c.idKey(id)
	var cached entity.Teacher
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	t, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, t)
	return t, nil
}

// Create inserts a teacher and drops the cached list.
func (c *CachingTeacherRepository) Create(ctx context.Context, t *entity.Teacher) error {
	if err := c.inner.Create(ctx, t); err != nil {
		return err
	}
	if c.rdb != nil {
		_ = c.rdb.Del(ctx, c.listKey()).Err() // Best effort
	}
	return nil
}

// Update applies changes and invalidates every cached teacher entry.
func (c *CachingTeacherRepository) Update(ctx context.Context, id uint, changes entity.Changes) error {
	if err := c.inner.Update(ctx, id, changes); err != nil {
		return err
	}
	_ = c.Invalidate(ctx)
	return nil
}

// Delete removes a teacher and invalidates every cached teacher entry.
func (c *CachingTeacherRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	_ = c.Invalidate(ctx)
	return nil
}

// Invalidate deletes all keys under the namespace. Writes that bypass this
// repository (e.g. the registration transaction) call it after commit.
func (c *CachingTeacherRepository) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// get は key の値を dst にデコードします。破損したエントリは削除してミス扱いにします。
func (c *CachingTeacherRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v as JSON (best effort).
func (c *CachingTeacherRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingTeacherRepository) listKey() string {
	return c.namespace + ":list"
}

func (c *CachingTeacherRepository) idKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingTeacherRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
