package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/internal/repository"
	apperrors "github.com/tiredheron/Stufit/pkg/errors"
	"github.com/tiredheron/Stufit/pkg/idgen"
)

// ── 对话记录业务错误 ──

var (
	ErrInvalidChatRole = apperrors.Wrap(apperrors.ErrValidation, "role 必须为 user 或 assistant")
	ErrEmptyMessage    = apperrors.Wrap(apperrors.ErrValidation, "消息内容不能为空")
)

// ChatService AI 对话记录业务接口（只追加）
type ChatService interface {
	Save(ctx context.Context, userID string, req *dto.SaveChatRequest) (*dto.ChatResponse, error)
	List(ctx context.Context, userID, planID string) (*dto.ChatListResponse, error)
}

type chatService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewChatService 创建 ChatService 实例
func NewChatService(repo *repository.Repository, logger *zap.Logger) ChatService {
	return &chatService{repo: repo, logger: logger}
}

func (s *chatService) Save(ctx context.Context, userID string, req *dto.SaveChatRequest) (*dto.ChatResponse, error) {
	if req.Role != model.ChatRoleUser && req.Role != model.ChatRoleAssistant {
		return nil, ErrInvalidChatRole
	}
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}

	var chat *model.AiChat
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		chat = nil
		if _, err := ownedPlan(ctx, tx, userID, req.PlanID); err != nil {
			return err
		}
		c, err := appendChat(ctx, tx, req.PlanID, req.Role, req.Message, req.FileName)
		if err != nil {
			return err
		}
		chat = c
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("保存对话记录失败", zap.String("plan_id", req.PlanID), zap.Error(err))
		return nil, storageError("保存对话记录", err)
	}
	return toChatResponse(chat), nil
}

func (s *chatService) List(ctx context.Context, userID, planID string) (*dto.ChatListResponse, error) {
	if _, err := ownedPlan(ctx, s.repo, userID, planID); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, storageError("查询计划", err)
	}

	chats, err := s.repo.Chat.ListByPlan(ctx, planID)
	if err != nil {
		s.logger.Error("查询对话记录失败", zap.String("plan_id", planID), zap.Error(err))
		return nil, storageError("查询对话记录", err)
	}

	items := make([]dto.ChatResponse, 0, len(chats))
	for i := range chats {
		items = append(items, *toChatResponse(&chats[i]))
	}
	return &dto.ChatListResponse{Chats: items}, nil
}

// appendChat 在事务中分配 "<plan_id>-chatNNNN" 并写入一条记录
func appendChat(ctx context.Context, tx *repository.Repository, planID, role, message string, fileName *string) (*model.AiChat, error) {
	chatID, err := tx.Sequence.NextID(ctx, idgen.Chat, planID)
	if err != nil {
		return nil, err
	}
	chat := &model.AiChat{
		ChatID:   chatID,
		PlanID:   planID,
		Role:     role,
		Message:  message,
		FileName: fileName,
	}
	if err := tx.Chat.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func toChatResponse(c *model.AiChat) *dto.ChatResponse {
	return &dto.ChatResponse{
		ChatID:    c.ChatID,
		PlanID:    c.PlanID,
		Role:      c.Role,
		Message:   c.Message,
		FileName:  c.FileName,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// isDomainError 已归类的业务错误原样返回，不再包装为存储错误
func isDomainError(err error) bool {
	if errors.Is(err, ErrPlanForbidden) || errors.Is(err, ErrTodoForbidden) {
		return true
	}
	kind := apperrors.Kind(err)
	return kind != nil && kind != apperrors.ErrStorage
}
