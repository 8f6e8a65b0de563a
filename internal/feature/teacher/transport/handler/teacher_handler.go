// Package handler はteacherフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"faculty_backend/internal/api"
	"faculty_backend/internal/feature/teacher/domain"
	"faculty_backend/internal/feature/teacher/domain/entity"
	"faculty_backend/internal/feature/teacher/transport/http/dto"
	"faculty_backend/internal/feature/teacher/usecase"
	"faculty_backend/internal/platform/logger"
	"faculty_backend/internal/platform/validation"
)

// TeacherUsecase は教員CRUDのユースケースを定義します。
type TeacherUsecase interface {
	List(ctx context.Context) ([]entity.Teacher, error)
	Get(ctx context.Context, id uint) (*entity.Teacher, error)
	Create(ctx context.Context, in usecase.CreateInput) (*entity.Teacher, error)
	Update(ctx context.Context, id uint, in usecase.UpdateInput) (*entity.Teacher, error)
	Delete(ctx context.Context, id uint) error
}

// TeacherHandler は /teachers 配下のリクエストを処理します。
type TeacherHandler struct {
	teachers TeacherUsecase
}

// NewTeacherHandler はTeacherHandlerの新しいインスタンスを生成します。
func NewTeacherHandler(teachers TeacherUsecase) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// List handles GET /teachers.
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.teachers.List(c.Request.Context())
	if err != nil {
		writeError(c, "list teachers", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTeachers(teachers))
}

// Get handles GET /teachers/:id.
func (h *TeacherHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, "get teacher", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTeacher(t))
}

// Create handles POST /teachers.
func (h *TeacherHandler) Create(c *gin.Context) {
	var req dto.CreateTeacherReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	t, err := h.teachers.Create(c.Request.Context(), usecase.CreateInput{
		UserID:         req.UserID,
		UniversityName: req.UniversityName,
		Gender:         req.Gender,
		YearJoined:     req.YearJoined,
	})
	if err != nil {
		writeError(c, "create teacher", err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromTeacher(t))
}

// Update handles PUT /teachers/:id. Only fields present in the body change.
func (h *TeacherHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateTeacherReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	t, err := h.teachers.Update(c.Request.Context(), id, usecase.UpdateInput{
		UniversityName: req.UniversityName,
		Gender:         req.Gender,
		YearJoined:     req.YearJoined,
	})
	if err != nil {
		writeError(c, "update teacher", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTeacher(t))
}

// Delete handles DELETE /teachers/:id.
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.teachers.Delete(c.Request.Context(), id); err != nil {
		writeError(c, "delete teacher", err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Teacher deleted successfully"})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func writeError(c *gin.Context, op string, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, domain.ErrNoChanges):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: domain.ErrNoChanges.Error()})
	case errors.Is(err, domain.ErrTeacherNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "teacher not found"})
	default:
		logger.FromContext(c.Request.Context()).Error(op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}
