package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/service"
	"github.com/tiredheron/Stufit/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 注册
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			response.Error(c, http.StatusConflict, CodeUserExists, "用户 ID 已被注册")
			return
		}
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, CodeInvalidCredentials, "用户 ID 或密码错误")
			return
		}
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}

// Refresh 刷新 Token（旧 refresh token 随即失效）
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			response.Unauthorized(c, CodeInvalidRefresh, "refresh token 无效或已注销")
			return
		}
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}

// Logout 登出：当前 access token 与可选的 refresh token 加入黑名单
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	var req dto.LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, dto.SuccessResponse{Success: true})
}

// UserInfo 当前用户信息
// GET /auth/user-info?user_id=
func (h *AuthHandler) UserInfo(c *gin.Context) {
	userID, ok := resolveUserID(c, c.Query("user_id"))
	if !ok {
		return
	}

	result, err := h.authSvc.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}

// UpdateProfile 修改学校与专业
// POST /auth/update-profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}

// UpdatePassword 修改密码
// POST /auth/update-password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authSvc.UpdatePassword(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, service.ErrOldPasswordWrong) {
			response.BadRequest(c, CodeOldPasswordWrong, "原密码错误")
			return
		}
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, dto.SuccessResponse{Success: true})
}
