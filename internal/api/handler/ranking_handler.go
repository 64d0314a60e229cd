package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiredheron/Stufit/internal/service"
	"github.com/tiredheron/Stufit/pkg/response"
)

// RankingHandler 排行榜 HTTP 处理器，每次请求实时计算
type RankingHandler struct {
	rankingSvc service.RankingService
}

// NewRankingHandler 创建 RankingHandler
func NewRankingHandler(rankingSvc service.RankingService) *RankingHandler {
	return &RankingHandler{rankingSvc: rankingSvc}
}

// Personal 同专业个人周排行
// GET /ranking/personal?user_id=
func (h *RankingHandler) Personal(c *gin.Context) {
	userID, ok := resolveUserID(c, c.Query("user_id"))
	if !ok {
		return
	}

	result, err := h.rankingSvc.GetPersonalRanking(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}

// Department 学科周排行
// GET /ranking/department?user_id=
func (h *RankingHandler) Department(c *gin.Context) {
	userID, ok := resolveUserID(c, c.Query("user_id"))
	if !ok {
		return
	}

	result, err := h.rankingSvc.GetDepartmentRanking(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}
