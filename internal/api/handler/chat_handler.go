package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/service"
	"github.com/tiredheron/Stufit/pkg/response"
)

// ChatHandler AI 对话记录 HTTP 处理器
type ChatHandler struct {
	chatSvc service.ChatService
}

// NewChatHandler 创建 ChatHandler
func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// Save 追加一条对话记录
// POST /api/chat/save
func (h *ChatHandler) Save(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SaveChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.chatSvc.Save(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}

	response.Created(c, result)
}

// List 计划下的全部对话记录
// GET /api/chat/:plan_id
func (h *ChatHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.chatSvc.List(c.Request.Context(), userID, c.Param("plan_id"))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}
