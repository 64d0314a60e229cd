package model

import "time"

// Timestamps 创建/更新时间审计字段
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// All 返回全部模型，供 AutoMigrate 使用（测试与本地开发）
func All() []interface{} {
	return []interface{}{
		&User{},
		&Plan{},
		&DailyPlan{},
		&TodoStatus{},
		&Todo{},
		&AiChat{},
		&IDSequence{},
	}
}
