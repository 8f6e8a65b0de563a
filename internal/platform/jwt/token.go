// Package jwtmw はセッショントークン（HS256 JWT）の発行・検証と、
// Ginの認可ミドルウェアを提供します。
package jwtmw

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is the fixed validity window of a session token.
const TokenLifetime = 24 * time.Hour

// Verification failures. Each maps to a distinct 401 reason in AuthRequired.
var (
	ErrMalformed        = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token expired")
	ErrEmptyKey         = errors.New("signing key must not be empty")
)

// Claims is the payload carried by a session token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated principal recovered from a verified token.
type Identity struct {
	UserID    uint
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssueToken signs a token for the given user. exp is issuedAt + TokenLifetime.
// 同じ入力（ID・メール・発行時刻・鍵）からは常に同じトークンが生成されます。
func IssueToken(subjectID uint, email string, issuedAt time.Time, key []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrEmptyKey
	}
	// NumericDateは秒単位なので、iatとexpの差がちょうどTokenLifetimeになるよう先に切り捨てる
	issuedAt = issuedAt.Truncate(time.Second)

	claims := Claims{
		UserID: subjectID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(subjectID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry of token at the instant now.
// The signature is checked before any claim, so a forged expired token
// reports ErrInvalidSignature rather than ErrExpired.
// A token is still valid at now == exp; it expires only once now is past exp.
func VerifyToken(token string, key []byte, now time.Time) (*Identity, error) {
	if token == "" {
		return nil, ErrMalformed
	}
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// 末尾文字の余りビットを変えただけの署名も拒否する
		jwt.WithStrictDecoding(),
		// exp・nbfは署名検証の後に自前で判定する
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return key, nil
	}); err != nil {
		return nil, classify(err)
	}

	if claims.ExpiresAt == nil {
		return nil, ErrMalformed
	}
	if now.After(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}
	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return nil, ErrMalformed
	}

	userID := claims.UserID
	if claims.Subject != "" {
		sub, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			return nil, ErrMalformed
		}
		if userID == 0 {
			userID = uint(sub)
		} else if uint(sub) != userID {
			return nil, ErrMalformed
		}
	}
	if userID == 0 {
		return nil, ErrMalformed
	}

	id := &Identity{UserID: userID, Email: claims.Email}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	id.ExpiresAt = claims.ExpiresAt.Time
	return id, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}
