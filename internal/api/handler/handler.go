package handler

import (
	"github.com/tiredheron/Stufit/config"
	"github.com/tiredheron/Stufit/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Plan    *PlanHandler
	Todo    *TodoHandler
	Ranking *RankingHandler
	Chat    *ChatHandler
	Record  *RecordHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		Plan:    NewPlanHandler(svc.Plan, cfg.AI.MaxUploadBytes),
		Todo:    NewTodoHandler(svc.Todo),
		Ranking: NewRankingHandler(svc.Ranking),
		Chat:    NewChatHandler(svc.Chat),
		Record:  NewRecordHandler(svc.Record),
		Export:  NewExportHandler(svc.Export),
	}
}
