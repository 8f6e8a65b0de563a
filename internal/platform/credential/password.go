// Package credential はパスワードのハッシュ化と照合を提供します。
package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes はbcryptが扱える平文パスワードの最大バイト長です。
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned when the plaintext exceeds MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost.
// Costs outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt encoding of plain.
// 同じ入力でも呼び出しごとに異なるハッシュが返ります（ソルトはハッシュ内に埋め込まれます）。
func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plain matches the stored hash.
// 不正な形式のハッシュに対してもpanicせずfalseを返します。
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var defaultHasher = NewHasher(bcrypt.DefaultCost)

// HashPassword hashes plain at bcrypt.DefaultCost.
func HashPassword(plain string) (string, error) {
	return defaultHasher.Hash(plain)
}

// VerifyPassword reports whether plain matches hash.
func VerifyPassword(plain, hash string) bool {
	return defaultHasher.Verify(plain, hash)
}
