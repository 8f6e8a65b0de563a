package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faculty_backend/internal/feature/auth/domain"
	"faculty_backend/internal/feature/auth/domain/entity"
	"faculty_backend/internal/feature/auth/usecase"
	teacherentity "faculty_backend/internal/feature/teacher/domain/entity"
	jwtmw "faculty_backend/internal/platform/jwt"
	"faculty_backend/internal/platform/validation"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc        func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	RegisterTeacherFunc func(ctx context.Context, in usecase.RegisterTeacherInput) (*entity.User, *teacherentity.Teacher, error)
	LoginFunc           func(ctx context.Context, email, password string) (string, *entity.User, error)
	ProfileFunc         func(ctx context.Context, userID uint) (*entity.User, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return &entity.User{ID: 1, Email: in.Email}, nil // Default: success
}

func (m *mockAuthUsecase) RegisterTeacher(ctx context.Context, in usecase.RegisterTeacherInput) (*entity.User, *teacherentity.Teacher, error) {
	if m.RegisterTeacherFunc != nil {
		return m.RegisterTeacherFunc(ctx, in)
	}
	return &entity.User{ID: 1, Email: in.Email}, &teacherentity.Teacher{ID: 1, UserID: 1}, nil
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", nil, domain.ErrInvalidCredentials // Default: failure
}

func (m *mockAuthUsecase) Profile(ctx context.Context, userID uint) (*entity.User, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name             string
		requestBody      any
		mockRegisterFunc func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
		expectedStatus   int
		expectedError    string
		expectedFields   gin.H
	}{
		{
			name:        "success: user registration",
			requestBody: gin.H{"email": "t@x.io", "first_name": "A", "last_name": "B", "password": "secret1"},
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error) {
				assert.Equal(t, "t@x.io", in.Email)
				assert.Equal(t, "secret1", in.Password)
				return &entity.User{ID: 5, Email: in.Email, FirstName: "A", LastName: "B", CreatedAt: created, UpdatedAt: created}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: body is not JSON",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request",
		},
		{
			name:        "failure: validation (usecase error)",
			requestBody: gin.H{"email": "bad"},
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error) {
				return nil, &validation.Error{Fields: map[string]string{"email": "must be a valid email address"}}
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation failed",
			expectedFields: gin.H{"email": "must be a valid email address"},
		},
		{
			name:        "failure: duplicate email (usecase error)",
			requestBody: gin.H{"email": "existing@example.com", "first_name": "A", "last_name": "B", "password": "secret1"},
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error) {
				return nil, domain.ErrDuplicateEmail
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "email already registered",
			expectedFields: gin.H{"email": "is already registered"},
		},
		{
			name:        "failure: storage (usecase error is hidden)",
			requestBody: gin.H{"email": "t@x.io", "first_name": "A", "last_name": "B", "password": "secret1"},
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) (*entity.User, error) {
				return nil, errors.Join(domain.ErrStorageUnavailable, errors.New("dial tcp 10.0.0.3:3306: refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "registration failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/auth/register", NewAuthHandler(&mockAuthUsecase{RegisterFunc: tt.mockRegisterFunc}).Register)

			var w *httptest.ResponseRecorder
			var body gin.H
			if s, ok := tt.requestBody.(string); ok {
				req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(s))
				w = httptest.NewRecorder()
				router.ServeHTTP(w, req)
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			} else {
				w, body = doJSON(t, router, http.MethodPost, "/auth/register", tt.requestBody)
			}

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, "User registered successfully", body["message"])
				user := body["user"].(map[string]any)
				assert.Equal(t, float64(5), user["id"])
				assert.Equal(t, "t@x.io", user["email"])
				assert.NotContains(t, user, "password")
				return
			}
			assert.Equal(t, tt.expectedError, body["error"])
			if tt.expectedFields != nil {
				assert.Equal(t, map[string]any(tt.expectedFields), body["fields"])
			}
			assert.NotContains(t, w.Body.String(), "10.0.0.3")
		})
	}
}

func TestAuthHandler_RegisterTeacher(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: both records returned", func(t *testing.T) {
		mockUC := &mockAuthUsecase{
			RegisterTeacherFunc: func(ctx context.Context, in usecase.RegisterTeacherInput) (*entity.User, *teacherentity.Teacher, error) {
				assert.Equal(t, "MIT", in.UniversityName)
				assert.Equal(t, 2020, in.YearJoined)
				u := &entity.User{ID: 3, Email: in.Email, FirstName: "A", LastName: "B"}
				return u, &teacherentity.Teacher{ID: 8, UserID: 3, User: u, UniversityName: "MIT", Gender: "female", YearJoined: 2020}, nil
			},
		}
		router := gin.New()
		router.POST("/auth/register-teacher", NewAuthHandler(mockUC).RegisterTeacher)

		w, body := doJSON(t, router, http.MethodPost, "/auth/register-teacher", gin.H{
			"email": "t@x.io", "first_name": "A", "last_name": "B", "password": "secret1",
			"university_name": "MIT", "gender": "female", "year_joined": 2020,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Teacher registered successfully", body["message"])
		teacher := body["teacher"].(map[string]any)
		assert.Equal(t, float64(8), teacher["id"])
		assert.Equal(t, float64(3), teacher["user_id"])
		assert.Equal(t, "t@x.io", teacher["email"])
		assert.Equal(t, float64(3), body["user"].(map[string]any)["id"])
	})

	t.Run("failure: duplicate inside the transaction is 409", func(t *testing.T) {
		mockUC := &mockAuthUsecase{
			RegisterTeacherFunc: func(ctx context.Context, in usecase.RegisterTeacherInput) (*entity.User, *teacherentity.Teacher, error) {
				return nil, nil, errors.Join(domain.ErrRegistrationFailed, domain.ErrDuplicateEmail)
			},
		}
		router := gin.New()
		router.POST("/auth/register-teacher", NewAuthHandler(mockUC).RegisterTeacher)

		w, _ := doJSON(t, router, http.MethodPost, "/auth/register-teacher", gin.H{"email": "t@x.io"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("failure: rollback is 500 with a sanitized message", func(t *testing.T) {
		mockUC := &mockAuthUsecase{
			RegisterTeacherFunc: func(ctx context.Context, in usecase.RegisterTeacherInput) (*entity.User, *teacherentity.Teacher, error) {
				return nil, nil, errors.Join(domain.ErrRegistrationFailed, errors.New("CHECK constraint failed: chk_teachers_gender"))
			},
		}
		router := gin.New()
		router.POST("/auth/register-teacher", NewAuthHandler(mockUC).RegisterTeacher)

		w, body := doJSON(t, router, http.MethodPost, "/auth/register-teacher", gin.H{"email": "t@x.io"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "registration failed", body["error"])
		assert.NotContains(t, w.Body.String(), "chk_teachers_gender")
	})

	t.Run("failure: year_joined of the wrong type", func(t *testing.T) {
		router := gin.New()
		router.POST("/auth/register-teacher", NewAuthHandler(&mockAuthUsecase{}).RegisterTeacher)

		w, _ := doJSON(t, router, http.MethodPost, "/auth/register-teacher", gin.H{"year_joined": "2020"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockLoginFunc  func(ctx context.Context, email, password string) (string, *entity.User, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "success: user login",
			requestBody: gin.H{"email": "test@example.com", "password": "password123"},
			mockLoginFunc: func(ctx context.Context, email, password string) (string, *entity.User, error) {
				return "dummy-jwt-token", &entity.User{ID: 1, Email: email}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "failure: invalid email address",
			requestBody:    gin.H{"email": "invalid-email", "password": "password123"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request",
		},
		{
			name:           "failure: missing password",
			requestBody:    gin.H{"email": "test@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request",
		},
		{
			name:        "failure: invalid credentials (usecase error)",
			requestBody: gin.H{"email": "wrong@example.com", "password": "wrong-password"},
			mockLoginFunc: func(ctx context.Context, email, password string) (string, *entity.User, error) {
				return "", nil, domain.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "invalid email or password",
		},
		{
			name:        "failure: storage (usecase error is hidden)",
			requestBody: gin.H{"email": "test@example.com", "password": "password123"},
			mockLoginFunc: func(ctx context.Context, email, password string) (string, *entity.User, error) {
				return "", nil, errors.Join(domain.ErrStorageUnavailable, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/auth/login", NewAuthHandler(&mockAuthUsecase{LoginFunc: tt.mockLoginFunc}).Login)

			w, body := doJSON(t, router, http.MethodPost, "/auth/login", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "Login successful", body["message"])
				assert.Equal(t, "dummy-jwt-token", body["token"])
				assert.Equal(t, "test@example.com", body["user"].(map[string]any)["email"])
				return
			}
			assert.Equal(t, tt.expectedError, body["error"])
		})
	}
}

func TestAuthHandler_ProfileAndLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	withIdentity := func(id uint) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Request = c.Request.WithContext(jwtmw.WithIdentity(c.Request.Context(), &jwtmw.Identity{UserID: id}))
			c.Next()
		}
	}
	mockUC := &mockAuthUsecase{
		ProfileFunc: func(ctx context.Context, userID uint) (*entity.User, error) {
			if userID == 1 {
				return &entity.User{ID: 1, Email: "me@x.io"}, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewAuthHandler(mockUC)

	router := gin.New()
	router.GET("/profile/1", withIdentity(1), h.Profile)
	router.GET("/profile/2", withIdentity(2), h.Profile)
	router.GET("/profile/anon", h.Profile)
	router.POST("/logout", withIdentity(1), h.Logout)

	w, body := doJSON(t, router, http.MethodGet, "/profile/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "me@x.io", body["user"].(map[string]any)["email"])

	w, _ = doJSON(t, router, http.MethodGet, "/profile/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/profile/anon", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = doJSON(t, router, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, gin.H{"message": "Logout successful"}, body)
}
