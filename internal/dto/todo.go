package dto

// ── Todo 模块 DTO ──

// UpdateTodoStatusRequest PATCH /todo/status
type UpdateTodoStatusRequest struct {
	UserID   string `json:"user_id"`
	TodoID   string `json:"todo_id"   binding:"required"`
	StatusID string `json:"status_id" binding:"required,oneof=NOT_STARTED IN_PROGRESS DONE"`
}

// AddTodoTimeRequest PATCH /todo/time
type AddTodoTimeRequest struct {
	UserID  string `json:"user_id"`
	TodoID  string `json:"todo_id" binding:"required"`
	Seconds *int64 `json:"seconds" binding:"required,min=0"`
}

// TodoListQuery GET /todo/list
type TodoListQuery struct {
	UserID string `form:"user_id"`
	Date   string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// TodoItem 某日待办
type TodoItem struct {
	TodoID          string  `json:"todo_id"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	EndTime         *string `json:"end_time"`
	AccumulatedTime int64   `json:"accumulated_time"`
	StatusID        string  `json:"status_id"`
	StatusName      string  `json:"status_name"`
	DailyID         string  `json:"daily_id"`
	DailyTitle      string  `json:"daily_title"`
}

// TodoListResponse 某日待办列表
type TodoListResponse struct {
	Todos []TodoItem `json:"todos"`
}
