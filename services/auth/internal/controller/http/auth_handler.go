package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"geekplay/pkg/httperr"
	"geekplay/pkg/logger"
	"geekplay/pkg/middleware"
	"geekplay/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	logger      *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      log,
	}
}

type RegisterRequest struct {
	Name     string  `json:"nombre" binding:"required,max=100"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	AdminKey *string `json:"adminKey"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"nombre"`
	Role   string `json:"role"`
}

func toAuthResponse(r *usecase.AuthResult) AuthResponse {
	return AuthResponse{
		Token:  r.Token,
		UserID: r.User.ID,
		Email:  r.User.Email,
		Name:   r.User.Name,
		Role:   string(r.User.Role),
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Register with name, email and password. An admin key on a reserved-domain email grants ADMIN.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  httperr.Response
// @Failure      409  {object}  httperr.Response
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, http.StatusBadRequest, httperr.CodeValidation, err.Error())
		return
	}

	result, err := h.authUseCase.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
		AdminKey: req.AdminKey,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAuthResponse(result))
}

// Login godoc
// @Summary      Login user
// @Description  Authenticate user and return JWT token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200  {object}  AuthResponse
// @Failure      401  {object}  httperr.Response
// @Failure      403  {object}  httperr.Response
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, http.StatusBadRequest, httperr.CodeValidation, err.Error())
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toAuthResponse(result))
}

// Me godoc
// @Summary      Get current user info
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.User
// @Failure      401  {object}  httperr.Response
// @Failure      404  {object}  httperr.Response
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authUseCase.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadAvatar godoc
// @Summary      Upload user avatar
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Avatar image file"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  httperr.Response
// @Failure      503  {object}  httperr.Response
// @Router       /avatar [post]
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httperr.Abort(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Unauthorized")
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		httperr.Abort(c, http.StatusBadRequest, httperr.CodeValidation, "Avatar file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".gif" {
		httperr.Abort(c, http.StatusBadRequest, httperr.CodeValidation, "Invalid image format. Only jpg, jpeg, png, gif are allowed")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded avatar: %v", err)
		httperr.Abort(c, http.StatusInternalServerError, httperr.CodeInternal, "Failed to process file")
		return
	}
	defer src.Close()

	fileKey := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.New().String(), ext)
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	user, err := h.authUseCase.UploadAvatar(c.Request.Context(), userID, src, fileKey, contentType)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		httperr.Abort(c, http.StatusUnauthorized, httperr.CodeInvalidCredentials, err.Error())
	case errors.Is(err, usecase.ErrAccountSuspended):
		httperr.Abort(c, http.StatusForbidden, httperr.CodeAccountSuspended, err.Error())
	case errors.Is(err, usecase.ErrEmailTaken):
		httperr.Abort(c, http.StatusConflict, httperr.CodeEmailTaken, err.Error())
	case errors.Is(err, usecase.ErrUserNotFound):
		httperr.Abort(c, http.StatusNotFound, httperr.CodeNotFound, err.Error())
	case errors.Is(err, usecase.ErrStorageUnavailable):
		httperr.Abort(c, http.StatusServiceUnavailable, httperr.CodeUnavailable, err.Error())
	default:
		h.logger.Error("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		httperr.Abort(c, http.StatusInternalServerError, httperr.CodeInternal, "Internal server error")
	}
}
