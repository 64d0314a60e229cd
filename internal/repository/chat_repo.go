package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/internal/model"
)

// ChatRepository AI 对话记录数据访问接口（只追加）
type ChatRepository interface {
	Create(ctx context.Context, chat *model.AiChat) error
	ListByPlan(ctx context.Context, planID string) ([]model.AiChat, error)
}

type chatRepo struct {
	db *gorm.DB
}

// NewChatRepo 创建 ChatRepository 实例
func NewChatRepo(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) Create(ctx context.Context, chat *model.AiChat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *chatRepo) ListByPlan(ctx context.Context, planID string) ([]model.AiChat, error) {
	var chats []model.AiChat
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("created_at ASC, chat_id ASC").
		Find(&chats).Error
	return chats, err
}
