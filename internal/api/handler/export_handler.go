package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/tiredheron/Stufit/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportXLSX 计划树导出为 Excel
// GET /api/plans/:plan_id/export.xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportPlanXLSX(c.Request.Context(), userID, c.Param("plan_id"))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	setAttachment(c, filename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportICS 日计划导出为 iCalendar
// GET /api/plans/:plan_id/calendar.ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.ExportPlanICS(c.Request.Context(), userID, c.Param("plan_id"))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	setAttachment(c, filename)
	c.Data(http.StatusOK, contentTypeICS, data)
}

// setAttachment 设置下载响应头
func setAttachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}
