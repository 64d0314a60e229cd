package model

import "time"

// Todo 状态
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// IsValidStatus 判断状态是否合法
func IsValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// TodoStatus 状态字典，对应 todo_statuses
type TodoStatus struct {
	StatusID   string `gorm:"type:varchar(20);primaryKey" json:"status_id"`
	StatusName string `gorm:"type:varchar(50);not null"   json:"status_name"`
}

func (TodoStatus) TableName() string { return "todo_statuses" }

// DefaultTodoStatuses 与迁移脚本中的种子数据一致
func DefaultTodoStatuses() []TodoStatus {
	return []TodoStatus{
		{StatusID: StatusNotStarted, StatusName: "未开始"},
		{StatusID: StatusInProgress, StatusName: "进行中"},
		{StatusID: StatusDone, StatusName: "已完成"},
	}
}

// Todo 待办，对应 todos
// AccumulatedTime 单位为秒，只增不减
type Todo struct {
	TodoID          string     `gorm:"type:varchar(100);primaryKey"                    json:"todo_id"`
	DailyID         string     `gorm:"type:varchar(80);not null;index"                 json:"daily_id"`
	Title           string     `gorm:"type:varchar(200);not null"                      json:"title"`
	Content         string     `gorm:"type:text;not null;default:''"                   json:"content"`
	StatusID        string     `gorm:"type:varchar(20);not null;default:'NOT_STARTED'" json:"status_id"`
	EndTime         *time.Time `gorm:"index"                                           json:"end_time"`
	AccumulatedTime int64      `gorm:"not null;default:0"                              json:"accumulated_time"`
}

func (Todo) TableName() string { return "todos" }
