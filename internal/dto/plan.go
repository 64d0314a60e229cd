package dto

// ── 计划模块 DTO ──

// CreatePlanRequest 创建计划请求
type CreatePlanRequest struct {
	Title       string `json:"title"       binding:"required,max=200"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"  binding:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date"    binding:"omitempty,datetime=2006-01-02"`
}

// PlanResponse 计划信息
type PlanResponse struct {
	PlanID      string  `json:"plan_id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	IsAIPlan    bool    `json:"is_ai_plan"`
	CreatedAt   string  `json:"created_at"`
}

// PlanListResponse 计划列表
type PlanListResponse struct {
	Plans []PlanResponse `json:"plans"`
}

// ── 结构化导入 ──

// SavePlanTodo AI 提议的单个 Todo
type SavePlanTodo struct {
	Title           string `json:"title"            binding:"required,max=200"`
	Content         string `json:"content"`
	AccumulatedTime *int64 `json:"accumulated_time" binding:"omitempty,min=0"`
}

// SavePlanDay AI 提议的某一天
type SavePlanDay struct {
	Day   int            `json:"day"   binding:"required,min=1"`
	Todos []SavePlanTodo `json:"todos" binding:"dive"`
}

// SaveAIPlanRequest POST /api/plans/ai/save
type SaveAIPlanRequest struct {
	UserID     string        `json:"user_id"`
	PlanID     string        `json:"plan_id"      binding:"required"`
	SessionID  string        `json:"session_id"   binding:"required"`
	Todos      []SavePlanDay `json:"todos"        binding:"required,min=1,dive"`
	AIPlanText string        `json:"ai_plan_text"`
}

// DailyInfo 已创建日计划的摘要
type DailyInfo struct {
	Day     int    `json:"day"`
	DailyID string `json:"daily_id"`
	Date    string `json:"date"`
}

// SaveAIPlanResponse 结构化导入结果
type SaveAIPlanResponse struct {
	Success         bool        `json:"success"`
	SavedDailyCount int         `json:"saved_daily_count"`
	SavedTodoCount  int         `json:"saved_todo_count"`
	DailyInfo       []DailyInfo `json:"daily_info"`
}

// ── 文本导入 ──

// SaveProseRequest POST /ai/save
type SaveProseRequest struct {
	UserID    string `json:"user_id"`
	PlanID    string `json:"plan_id"    binding:"required"`
	PlanText  string `json:"plan_text"  binding:"required"`
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
}

// SaveProseResponse 文本导入结果
type SaveProseResponse struct {
	Success    bool `json:"success"`
	SavedDaily int  `json:"saved_daily"`
	SavedTodos int  `json:"saved_todos"`
}

// ── 计划树 ──

// TodoNode 计划树中的 Todo
type TodoNode struct {
	TodoID          string  `json:"todo_id"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	StatusID        string  `json:"status_id"`
	EndTime         *string `json:"end_time"`
	AccumulatedTime int64   `json:"accumulated_time"`
}

// DailyPlanNode 计划树中的日计划
type DailyPlanNode struct {
	DailyID   string     `json:"daily_id"`
	Title     string     `json:"title"`
	StartDate string     `json:"start_date,omitempty"`
	Todos     []TodoNode `json:"todos"`
}

// PlanNode 计划树根节点
type PlanNode struct {
	PlanID      string          `json:"plan_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DailyPlans  []DailyPlanNode `json:"dailyPlans"`
}

// PlanTreeResponse GET /api/plans/full-list
type PlanTreeResponse struct {
	Plans []PlanNode `json:"plans"`
}

// ── AI 对话 ──

// AIChatRequest POST /api/plans/ai/chat（JSON 或 multipart）
type AIChatRequest struct {
	PlanID  string `json:"plan_id" form:"plan_id"`
	Message string `json:"message" form:"message" binding:"required,max=4000"`
}

// AIChatResponse AI 生成结果
type AIChatResponse struct {
	SessionID string        `json:"session_id"`
	Answer    string        `json:"answer"`
	TodoCount int           `json:"todo_count"`
	Todos     []SavePlanDay `json:"todos"`
}
