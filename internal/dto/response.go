package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	UserID         string `json:"user_id"`
	UniversityName string `json:"university_name"`
	DepartmentName string `json:"department_name"`
}

// SuccessResponse 仅含 success 标志的响应
type SuccessResponse struct {
	Success bool `json:"success"`
}
