// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"faculty_backend/internal/api"
	"faculty_backend/internal/feature/auth/domain"
	"faculty_backend/internal/feature/auth/domain/entity"
	"faculty_backend/internal/feature/auth/transport/http/dto"
	"faculty_backend/internal/feature/auth/usecase"
	teacherentity "faculty_backend/internal/feature/teacher/domain/entity"
	teacherdto "faculty_backend/internal/feature/teacher/transport/http/dto"
	jwtmw "faculty_backend/internal/platform/jwt"
	"faculty_backend/internal/platform/logger"
	"faculty_backend/internal/platform/validation"
)

// AuthUsecase は認証・登録操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	RegisterTeacher(ctx context.Context, in usecase.RegisterTeacherInput) (*entity.User, *teacherentity.Teacher, error)
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
	Profile(ctx context.Context, userID uint) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400（フィールドごとのメッセージ付き）
// - メール重複時は409
// - 成功時は201
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.FromContext(c.Request.Context()).Warn("register bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), toRegisterInput(req))
	if err != nil {
		writeRegistrationError(c, "register", req.Email, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("user registered", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, dto.RegisterRes{
		Message: "User registered successfully",
		User:    dto.FromUser(user),
	})
}

// RegisterTeacher はユーザーと教員プロフィールを同時に登録します。
func (h *AuthHandler) RegisterTeacher(c *gin.Context) {
	var req dto.RegisterTeacherReq
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.FromContext(c.Request.Context()).Warn("register-teacher bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	user, teacher, err := h.auth.RegisterTeacher(c.Request.Context(), usecase.RegisterTeacherInput{
		RegisterInput:  toRegisterInput(req.RegisterReq),
		UniversityName: req.UniversityName,
		Gender:         req.Gender,
		YearJoined:     req.YearJoined,
	})
	if err != nil {
		writeRegistrationError(c, "register-teacher", req.Email, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("teacher registered", "user_id", user.ID, "teacher_id", teacher.ID)
	c.JSON(http.StatusCreated, dto.RegisterTeacherRes{
		Message: "Teacher registered successfully",
		User:    dto.FromUser(user),
		Teacher: teacherdto.FromTeacher(teacher),
	})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - リクエスト形式エラー時は400
// - 認証失敗時は401（未登録メールとパスワード不一致は区別しない）
// - 成功時はトークンとユーザー付きで200
func (h *AuthHandler) Login(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			log.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid email or password"})
			return
		}
		log.Error("login error", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "login failed"})
		return
	}

	log.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{
		Message: "Login successful",
		Token:   token,
		User:    dto.FromUser(user),
	})
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c *gin.Context) {
	id, ok := jwtmw.IdentityFrom(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		logger.FromContext(c.Request.Context()).Error("profile lookup failed", "error", err, "user_id", id.UserID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.ProfileRes{User: dto.FromUser(user)})
}

// Logout acknowledges a logout. Tokens are stateless and stay valid until expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Logout successful"})
}

func toRegisterInput(req dto.RegisterReq) usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}
}

// writeRegistrationError maps registration failures to responses.
// Storage details are logged, never returned.
func writeRegistrationError(c *gin.Context, op, email string, err error) {
	log := logger.FromContext(c.Request.Context())

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, domain.ErrDuplicateEmail):
		log.Warn(op+" failed", "error", err, "email", email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, api.ErrorResponse{
			Error:  "email already registered",
			Fields: map[string]string{"email": "is already registered"},
		})
	default:
		log.Error(op+" failed", "error", err, "email", email)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "registration failed"})
	}
}
