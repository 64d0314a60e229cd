package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tiredheron/Stufit/internal/api/middleware"
	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/service"
	"github.com/tiredheron/Stufit/pkg/response"
)

// PlanHandler 学习计划模块 HTTP 处理器
type PlanHandler struct {
	planSvc        service.PlanService
	maxUploadBytes int64
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanService, maxUploadBytes int64) *PlanHandler {
	return &PlanHandler{planSvc: planSvc, maxUploadBytes: maxUploadBytes}
}

// Create 创建计划
// POST /api/plans
func (h *PlanHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.planSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.Created(c, result)
}

// List 计划列表（新建在前）
// GET /api/plans?user_id=
func (h *PlanHandler) List(c *gin.Context) {
	userID, ok := resolveUserID(c, c.Query("user_id"))
	if !ok {
		return
	}

	result, err := h.planSvc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}

// FullList 计划 → 日计划 → Todo 完整树
// GET /api/plans/full-list?user_id=
func (h *PlanHandler) FullList(c *gin.Context) {
	userID, ok := resolveUserID(c, c.Query("user_id"))
	if !ok {
		return
	}

	result, err := h.planSvc.FullList(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}

// SaveAIPlan 保存 AI 生成的结构化计划
// POST /api/plans/ai/save
func (h *PlanHandler) SaveAIPlan(c *gin.Context) {
	var req dto.SaveAIPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}

	result, err := h.planSvc.SaveAIPlan(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	response.OK(c, result)
}

// SaveFromProse 旧版：从计划文本解析 Day 块并保存
// POST /ai/save
func (h *PlanHandler) SaveFromProse(c *gin.Context) {
	var req dto.SaveProseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}

	result, err := h.planSvc.SaveFromProse(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	response.OK(c, result)
}

// AIChat 与 AI 对话生成计划，可附带学习资料
// POST /api/plans/ai/chat（application/json 或 multipart/form-data: message, plan_id, file）
func (h *PlanHandler) AIChat(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var (
		req dto.AIChatRequest
		doc *service.UploadedDocument
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			if middleware.IsBodyTooLarge(err) {
				response.Error(c, http.StatusRequestEntityTooLarge, CodeUploadTooLarge, "上传文件过大")
				return
			}
			bindError(c, err)
			return
		}
		var err error
		doc, err = h.readUpload(c)
		if err != nil {
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.planSvc.AIChat(c.Request.Context(), userID, &req, doc)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	response.OK(c, result)
}

// readUpload 读取可选的 file 字段；失败时已写入响应
func (h *PlanHandler) readUpload(c *gin.Context) (*service.UploadedDocument, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		bindError(c, err)
		return nil, err
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, CodeUploadTooLarge,
			fmt.Sprintf("上传文件不能超过 %d MB", h.maxUploadBytes>>20))
		return nil, fmt.Errorf("upload too large: %d", fh.Size)
	}

	f, err := fh.Open()
	if err != nil {
		response.InternalError(c)
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c)
		return nil, err
	}
	return &service.UploadedDocument{FileName: fh.Filename, Data: data}, nil
}
