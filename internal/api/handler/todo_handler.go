package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/service"
	"github.com/tiredheron/Stufit/pkg/response"
)

// TodoHandler Todo 模块 HTTP 处理器
type TodoHandler struct {
	todoSvc service.TodoService
}

// NewTodoHandler 创建 TodoHandler
func NewTodoHandler(todoSvc service.TodoService) *TodoHandler {
	return &TodoHandler{todoSvc: todoSvc}
}

// UpdateStatus 修改 Todo 状态
// PATCH /todo/status
func (h *TodoHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateTodoStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}

	if err := h.todoSvc.UpdateStatus(c.Request.Context(), userID, &req); err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, dto.SuccessResponse{Success: true})
}

// AddTime 累加学习时间（秒）
// PATCH /todo/time
func (h *TodoHandler) AddTime(c *gin.Context) {
	var req dto.AddTodoTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := resolveUserID(c, req.UserID)
	if !ok {
		return
	}

	if err := h.todoSvc.AddTime(c.Request.Context(), userID, &req); err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, dto.SuccessResponse{Success: true})
}

// List 某日待办，date 缺省为今天
// GET /todo/list?user_id=&date=
func (h *TodoHandler) List(c *gin.Context) {
	var q dto.TodoListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := resolveUserID(c, q.UserID)
	if !ok {
		return
	}

	result, err := h.todoSvc.ListByDate(c.Request.Context(), userID, q.Date)
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}

	response.OK(c, result)
}
