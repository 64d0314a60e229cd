package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tiredheron/Stufit/internal/api/middleware"
	"github.com/tiredheron/Stufit/pkg/jwt"
	"github.com/tiredheron/Stufit/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return "", false
	}
	return s, true
}

// MustGetClaims 从 Gin 上下文中提取当前 Access Token 的声明
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.ContextClaims)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
		return nil, false
	}
	return claims, true
}

// resolveUserID 确定本次请求操作的用户。
// 客户端仍可在 query / body 中携带 user_id，但必须与 Token 主体一致，否则 403。
func resolveUserID(c *gin.Context, claimed string) (string, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return "", false
	}
	if claimed != "" && claimed != userID {
		response.Forbidden(c, response.CodeForbidden, "user_id 与当前登录用户不一致")
		return "", false
	}
	return userID, true
}
