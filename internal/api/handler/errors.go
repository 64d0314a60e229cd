package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiredheron/Stufit/internal/service"
	apperrors "github.com/tiredheron/Stufit/pkg/errors"
	"github.com/tiredheron/Stufit/pkg/response"
)

// ── 模块业务码 ──

const (
	// 认证 11xxx
	CodeInvalidCredentials = 11001
	CodeUserExists         = 11002
	CodeInvalidRefresh     = 11003
	CodeUserNotFound       = 11004
	CodeOldPasswordWrong   = 11005

	// 计划 21xxx
	CodePlanNotFound       = 21001
	CodePlanForbidden      = 21002
	CodePlanStartMissing   = 21003
	CodeNoDayMarkers       = 21004
	CodeInvalidDayBlocks   = 21005
	CodeInvalidDate        = 21006
	CodeUnsupportedDoc     = 21007
	CodeDocumentNoText     = 21008
	CodeUpstreamEmptyTodos = 21009
	CodeUpstreamFailed     = 21010
	CodeUploadTooLarge     = 21011

	// Todo 22xxx
	CodeTodoNotFound   = 22001
	CodeTodoForbidden  = 22002
	CodeInvalidStatus  = 22003
	CodeInvalidSeconds = 22004

	// 对话记录 24xxx
	CodeInvalidChatRole = 24001
	CodeEmptyMessage    = 24002

	// 导出 25xxx
	CodeExportEmptyPlan = 25001
	CodeExportFailed    = 25002
)

// errorMapping 精确匹配的哨兵错误
type errorMapping struct {
	target error
	status int
	code   int
}

// 各模块共享的哨兵映射；ErrPlanNotFound 的状态码由调用方决定
var commonMappings = []errorMapping{
	{service.ErrPlanForbidden, http.StatusForbidden, CodePlanForbidden},
	{service.ErrPlanStartDateMissing, http.StatusBadRequest, CodePlanStartMissing},
	// 文本中没有 Day 标记按服务端错误返回，与旧客户端的处理保持一致
	{service.ErrNoDayMarkers, http.StatusInternalServerError, CodeNoDayMarkers},
	{service.ErrInvalidDayBlocks, http.StatusBadRequest, CodeInvalidDayBlocks},
	{service.ErrInvalidDate, http.StatusBadRequest, CodeInvalidDate},
	{service.ErrUnsupportedDocument, http.StatusBadRequest, CodeUnsupportedDoc},
	{service.ErrDocumentNoText, http.StatusBadRequest, CodeDocumentNoText},
	{service.ErrUpstreamEmptyTodos, http.StatusBadGateway, CodeUpstreamEmptyTodos},
	{service.ErrUpstreamUnavailable, http.StatusBadGateway, CodeUpstreamFailed},
	{service.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},
	{service.ErrTodoNotFound, http.StatusNotFound, CodeTodoNotFound},
	{service.ErrTodoForbidden, http.StatusForbidden, CodeTodoForbidden},
	{service.ErrInvalidStatus, http.StatusBadRequest, CodeInvalidStatus},
	{service.ErrInvalidSeconds, http.StatusBadRequest, CodeInvalidSeconds},
	{service.ErrInvalidChatRole, http.StatusBadRequest, CodeInvalidChatRole},
	{service.ErrEmptyMessage, http.StatusBadRequest, CodeEmptyMessage},
	{service.ErrExportEmptyPlan, http.StatusNotFound, CodeExportEmptyPlan},
	{service.ErrExportGenerateFail, http.StatusInternalServerError, CodeExportFailed},
}

// writeError 将 Service 错误映射为统一响应。
// planNotFoundStatus: 保存类接口把不存在的 plan_id 视为请求参数错误（400），查询类接口为 404。
func writeError(c *gin.Context, err error, planNotFoundStatus int) {
	_ = c.Error(err)

	if errors.Is(err, service.ErrPlanNotFound) {
		response.Error(c, planNotFoundStatus, CodePlanNotFound, service.ErrPlanNotFound.Error())
		return
	}
	for _, m := range commonMappings {
		if errors.Is(err, m.target) {
			response.Error(c, m.status, m.code, m.target.Error())
			return
		}
	}

	// 未单独登记的哨兵按类别兜底
	switch apperrors.Kind(err) {
	case apperrors.ErrValidation:
		response.BadRequest(c, response.CodeValidation, err.Error())
	case apperrors.ErrNotFound:
		response.NotFound(c, response.CodeNotFound, err.Error())
	case apperrors.ErrUpstream:
		response.BadGateway(c, response.CodeUpstream, "AI 服务异常")
	default:
		response.InternalError(c)
	}
}

// bindError 请求参数绑定失败
func bindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "参数校验失败", err.Error())
}
