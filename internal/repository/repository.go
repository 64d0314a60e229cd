package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/pkg/database"
)

// ErrNoTransaction 当前 Repository 未绑定数据库连接
var ErrNoTransaction = errors.New("repository 未绑定数据库连接")

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User     UserRepository
	Plan     PlanRepository
	Daily    DailyPlanRepository
	Todo     TodoRepository
	Chat     ChatRepository
	Sequence SequenceRepository
	Ranking  RankingRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		User:     NewUserRepo(db),
		Plan:     NewPlanRepo(db),
		Daily:    NewDailyPlanRepo(db),
		Todo:     NewTodoRepo(db),
		Chat:     NewChatRepo(db),
		Sequence: NewSequenceRepo(db),
		Ranking:  NewRankingRepo(db),
	}
}

// BeginTx 开启事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, ErrNoTransaction
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个事务中执行 fn，fn 返回错误或 panic 时整体回滚。
// 连接丢失导致的失败会整体重放一次，fn 不得在闭包外部留下副作用。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return ErrNoTransaction
	}
	return database.Retry(ctx, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(r.WithTx(tx))
		})
	})
}
