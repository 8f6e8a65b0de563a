// Package router はHTTPルーティングを組み立てます。
package router

import (
	"log/slog"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "faculty_backend/internal/feature/auth/transport/handler"
	teacherhandler "faculty_backend/internal/feature/teacher/transport/handler"
	platformhandler "faculty_backend/internal/platform/http/handler"
	jwtmw "faculty_backend/internal/platform/jwt"
	"faculty_backend/internal/platform/logger"
)

// Config carries the cross-cutting pieces the router needs.
type Config struct {
	Logger      *slog.Logger
	Verifier    jwtmw.Verifier
	CORSOrigins []string
	ReadyChecks map[string]platformhandler.Check
}

func NewRouter(cfg Config, auth *authhandler.AuthHandler, teachers *teacherhandler.TeacherHandler) *gin.Engine {
	base := cfg.Logger
	if base == nil {
		base = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(base), cors.New(corsConfig(cfg.CORSOrigins)))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Ready(cfg.ReadyChecks))
	// 新規ユーザー登録
	r.POST("/auth/register", auth.Register)
	// ログイン（JWT 発行）
	r.POST("/auth/login", auth.Login)

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	protected := r.Group("/")
	protected.Use(jwtmw.AuthRequired(cfg.Verifier))
	{
		protected.POST("/auth/register-teacher", auth.RegisterTeacher)
		protected.GET("/auth/profile", auth.Profile)
		protected.POST("/auth/logout", auth.Logout)

		protected.GET("/teachers", teachers.List)
		protected.POST("/teachers", teachers.Create)
		protected.GET("/teachers/:id", teachers.Get)
		protected.PUT("/teachers/:id", teachers.Update)
		protected.DELETE("/teachers/:id", teachers.Delete)
	}

	return r
}

// corsConfig は空または "*" を含む場合に全オリジンを許可します。
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", logger.HeaderRequestID},
		ExposeHeaders: []string{logger.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}
