package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

// 401レスポンスの reason フィールドに入る値です。
const (
	ReasonMissingCredential = "missing_credential"
	ReasonMalformedToken    = "malformed_token"
	ReasonInvalidSignature  = "invalid_signature"
	ReasonTokenExpired      = "token_expired"
)

// Verifier validates a raw bearer token.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by AuthRequired, if any.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// AuthRequired returns a Gin middleware that admits only requests carrying
// a valid "Authorization: Bearer <token>" header.
func AuthRequired(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorizationヘッダーの取得
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			reject(c, ReasonMissingCredential)
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if tokenStr == "" {
			reject(c, ReasonMissingCredential)
			return
		}

		// 2. 署名と有効期限の検証
		id, err := v.Verify(tokenStr)
		if err != nil {
			reason := reasonFor(err)
			slog.DebugContext(c.Request.Context(), "token rejected",
				"reason", reason,
				"remote_addr", c.ClientIP(),
			)
			reject(c, reason)
			return
		}

		// 3. 認証済みユーザーをコンテキストへ格納
		c.Set(ContextUserID, id.UserID)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return ReasonTokenExpired
	case errors.Is(err, ErrInvalidSignature):
		return ReasonInvalidSignature
	default:
		return ReasonMalformedToken
	}
}

func reject(c *gin.Context, reason string) {
	challenge := `Bearer realm="api"`
	if reason != ReasonMissingCredential {
		challenge += `, error="invalid_token", error_description="` + reason + `"`
	}
	c.Header("WWW-Authenticate", challenge)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "reason": reason})
}
