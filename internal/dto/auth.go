package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	UserID         string `json:"user_id"         binding:"required,min=3,max=40,alphanum"`
	Password       string `json:"password"        binding:"required,min=8,max=64"`
	UniversityName string `json:"university_name" binding:"max=100"`
	DepartmentName string `json:"department_name" binding:"required,max=100"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	UserID   string `json:"user_id"  binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest 修改个人资料请求
type UpdateProfileRequest struct {
	UniversityName string `json:"university_name" binding:"max=100"`
	DepartmentName string `json:"department_name" binding:"required,max=100"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// LogoutRequest 登出请求，refresh_token 可选
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
