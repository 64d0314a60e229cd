package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiredheron/Stufit/internal/service"
	"github.com/tiredheron/Stufit/pkg/response"
)

// RecordHandler 学习记录 HTTP 处理器
type RecordHandler struct {
	recordSvc service.RecordService
}

// NewRecordHandler 创建 RecordHandler
func NewRecordHandler(recordSvc service.RecordService) *RecordHandler {
	return &RecordHandler{recordSvc: recordSvc}
}

// Summary 今日学习时长、名次与计划树
// GET /record/summary?user_id=
func (h *RecordHandler) Summary(c *gin.Context) {
	userID, ok := resolveUserID(c, c.Query("user_id"))
	if !ok {
		return
	}

	result, err := h.recordSvc.Summary(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}
