package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tiredheron/Stufit/config"
	"github.com/tiredheron/Stufit/internal/repository"
	"github.com/tiredheron/Stufit/pkg/aiclient"
	"github.com/tiredheron/Stufit/pkg/database"
	apperrors "github.com/tiredheron/Stufit/pkg/errors"
	"github.com/tiredheron/Stufit/pkg/idgen"
	"github.com/tiredheron/Stufit/pkg/jwt"
	"github.com/tiredheron/Stufit/pkg/redis"
)

// PlanGenerator 外部 AI 计划生成服务
type PlanGenerator interface {
	Chat(ctx context.Context, message, documentText string) (*aiclient.ChatResult, error)
	PlanToTodos(ctx context.Context, planText string) ([]aiclient.TodoItem, error)
}

// SessionStore AI 会话缓冲（Redis）
type SessionStore interface {
	SaveSession(ctx context.Context, sessionID string, s *redis.AISession, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.AISession, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// TokenBlacklist Token 黑名单（Redis）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth    AuthService
	Plan    PlanService
	Todo    TodoService
	Ranking RankingService
	Chat    ChatService
	Record  RecordService
	Export  ExportService
}

// NewService 创建 Service 聚合
// sessions / blacklist 在 Redis 不可用时传 nil，相关功能降级
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	ai PlanGenerator,
	sessions SessionStore,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	ranking := NewRankingService(cfg, repo, logger)
	return &Service{
		Auth:    NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Plan:    NewPlanService(cfg, repo, ai, sessions, logger),
		Todo:    NewTodoService(cfg, repo, logger),
		Ranking: ranking,
		Chat:    NewChatService(repo, logger),
		Record:  NewRecordService(cfg, repo, ranking, logger),
		Export:  NewExportService(repo, logger),
	}
}

// storageError 将仓储层错误归入 StorageError，主键冲突单独标记
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, errors.Join(apperrors.ErrIDConflict, err))
	}
	if errors.Is(err, idgen.ErrSequenceExhausted) {
		return fmt.Errorf("%s: %w", op, errors.Join(apperrors.ErrStorage, err))
	}
	return apperrors.Storage(op, err)
}
