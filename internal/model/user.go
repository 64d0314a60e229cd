package model

// User 用户表，对应 users
type User struct {
	UserID         string `gorm:"type:varchar(50);primaryKey"           json:"user_id"`
	PasswordHash   string `gorm:"type:varchar(255);not null"            json:"-"`
	UniversityName string `gorm:"type:varchar(100);not null;default:''" json:"university_name"`
	DepartmentName string `gorm:"type:varchar(100);not null;default:''" json:"department_name"`
	Timestamps
}

// TableName 指定表名
func (User) TableName() string { return "users" }
