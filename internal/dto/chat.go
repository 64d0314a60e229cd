package dto

// ── 对话记录 DTO ──

// SaveChatRequest POST /api/chat/save
type SaveChatRequest struct {
	PlanID   string  `json:"plan_id"   binding:"required"`
	Role     string  `json:"role"      binding:"required,oneof=user assistant"`
	Message  string  `json:"message"   binding:"required"`
	FileName *string `json:"file_name" binding:"omitempty,max=255"`
}

// ChatResponse 单条对话记录
type ChatResponse struct {
	ChatID    string  `json:"chat_id"`
	PlanID    string  `json:"plan_id"`
	Role      string  `json:"role"`
	Message   string  `json:"message"`
	FileName  *string `json:"file_name"`
	CreatedAt string  `json:"created_at"`
}

// ChatListResponse GET /api/chat/:plan_id
type ChatListResponse struct {
	Chats []ChatResponse `json:"chats"`
}

// ── 学习记录 DTO ──

// RecordSummary 学习概要
type RecordSummary struct {
	TodayTime   int64 `json:"todayTime"` // 今日累计学习秒数
	OverallRank int   `json:"overallRank"`
	MajorRank   int   `json:"majorRank"`
}

// RecordSummaryResponse GET /record/summary
type RecordSummaryResponse struct {
	UserID  string        `json:"userId"`
	Summary RecordSummary `json:"summary"`
	Plans   []PlanNode    `json:"plans"`
}
