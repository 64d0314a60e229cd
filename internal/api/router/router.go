package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tiredheron/Stufit/config"
	"github.com/tiredheron/Stufit/internal/api/handler"
	"github.com/tiredheron/Stufit/internal/api/middleware"
	"github.com/tiredheron/Stufit/pkg/jwt"
	"github.com/tiredheron/Stufit/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：黑名单与限流随之降级
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMW := middleware.JWTAuth(jwtMgr, rdb, logger)
	aiLimit := middleware.RateLimit(rdb, cfg.RateLimit.AIRequests, cfg.RateLimit.AIWindow, logger)

	// ── 认证模块 ──
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)

		auth.POST("/logout", authMW, h.Auth.Logout)
		auth.GET("/user-info", authMW, h.Auth.UserInfo)
		auth.POST("/update-profile", authMW, h.Auth.UpdateProfile)
		auth.POST("/update-password", authMW, h.Auth.UpdatePassword)
	}

	// 以下路由均需要认证
	authorized := r.Group("")
	authorized.Use(authMW)

	// ── 计划模块 ──
	plans := authorized.Group("/api/plans")
	{
		plans.POST("", h.Plan.Create)
		plans.GET("", h.Plan.List)
		plans.GET("/full-list", h.Plan.FullList)
		plans.POST("/ai/save", h.Plan.SaveAIPlan)
		plans.POST("/ai/chat", aiLimit, h.Plan.AIChat)
		plans.GET("/:plan_id/export.xlsx", h.Export.ExportXLSX)
		plans.GET("/:plan_id/calendar.ics", h.Export.ExportICS)
	}

	// 旧版文本导入（同样调用 AI 服务）
	authorized.POST("/ai/save", aiLimit, h.Plan.SaveFromProse)

	// ── 对话记录 ──
	chat := authorized.Group("/api/chat")
	{
		chat.POST("/save", h.Chat.Save)
		chat.GET("/:plan_id", h.Chat.List)
	}

	// ── 排行榜 ──
	ranking := authorized.Group("/ranking")
	{
		ranking.GET("/personal", h.Ranking.Personal)
		ranking.GET("/department", h.Ranking.Department)
	}

	// ── Todo ──
	todo := authorized.Group("/todo")
	{
		todo.PATCH("/status", h.Todo.UpdateStatus)
		todo.PATCH("/time", h.Todo.AddTime)
		todo.GET("/list", h.Todo.List)
	}

	// ── 学习记录 ──
	authorized.GET("/record/summary", h.Record.Summary)

	return r
}
