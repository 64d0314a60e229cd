package model

import "time"

// 对话角色
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// AiChat AI 对话记录，对应 ai_chats（只追加，不修改不删除）
// ChatID 形如 "<plan_id>-chat0001"
type AiChat struct {
	ChatID    string    `gorm:"type:varchar(80);primaryKey"        json:"chat_id"`
	PlanID    string    `gorm:"type:varchar(64);not null;index"    json:"plan_id"`
	Role      string    `gorm:"type:varchar(20);not null"          json:"role"`
	Message   string    `gorm:"type:text;not null"                 json:"message"`
	FileName  *string   `gorm:"type:varchar(255)"                  json:"file_name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AiChat) TableName() string { return "ai_chats" }

// IDSequence 复合主键计数器，对应 id_sequences
// ScopeKey 形如 "daily:<plan_id>"，LastValue 为已分配的最大序号
type IDSequence struct {
	ScopeKey  string `gorm:"type:varchar(120);primaryKey"`
	LastValue int64  `gorm:"not null;default:0"`
}

func (IDSequence) TableName() string { return "id_sequences" }
