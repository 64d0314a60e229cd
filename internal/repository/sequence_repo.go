package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/pkg/idgen"
)

// SequenceRepository 复合主键分配器
type SequenceRepository interface {
	// NextID 在 parent 作用域下分配下一个主键。
	// 必须在事务中调用（Repository.Transaction），计数器行在事务结束前保持锁定。
	NextID(ctx context.Context, kind idgen.Kind, parent string) (string, error)
}

type sequenceRepo struct {
	db *gorm.DB
}

// NewSequenceRepo 创建 SequenceRepository 实例
func NewSequenceRepo(db *gorm.DB) SequenceRepository {
	return &sequenceRepo{db: db}
}

func (r *sequenceRepo) NextID(ctx context.Context, kind idgen.Kind, parent string) (string, error) {
	scope := kind.Scope(parent)

	seq, err := r.lock(ctx, scope)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 首次分配：以现有兄弟主键的最大后缀作为起点
		seed, seedErr := r.maxSibling(ctx, kind, parent)
		if seedErr != nil {
			return "", seedErr
		}
		row := model.IDSequence{ScopeKey: scope, LastValue: seed}
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&row).Error; err != nil {
			return "", fmt.Errorf("初始化计数器 %s 失败: %w", scope, err)
		}
		seq, err = r.lock(ctx, scope)
	}
	if err != nil {
		return "", fmt.Errorf("锁定计数器 %s 失败: %w", scope, err)
	}

	next := seq.LastValue + 1
	id, err := kind.Format(parent, next)
	if err != nil {
		return "", err
	}

	if err := r.db.WithContext(ctx).
		Model(&model.IDSequence{}).
		Where("scope_key = ?", scope).
		Update("last_value", next).Error; err != nil {
		return "", fmt.Errorf("更新计数器 %s 失败: %w", scope, err)
	}
	return id, nil
}

func (r *sequenceRepo) lock(ctx context.Context, scope string) (*model.IDSequence, error) {
	var seq model.IDSequence
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("scope_key = ?", scope).
		Take(&seq).Error
	if err != nil {
		return nil, err
	}
	return &seq, nil
}

// maxSibling 读取 parent 下已存在主键的最大数字后缀
func (r *sequenceRepo) maxSibling(ctx context.Context, kind idgen.Kind, parent string) (int64, error) {
	var (
		ids   []string
		query *gorm.DB
	)
	db := r.db.WithContext(ctx)
	switch kind {
	case idgen.Plan:
		query = db.Model(&model.Plan{}).Where("user_id = ?", parent).Select("plan_id")
	case idgen.Daily, idgen.LegacyDaily:
		query = db.Model(&model.DailyPlan{}).Where("plan_id = ?", parent).Select("daily_id")
	case idgen.Todo:
		query = db.Model(&model.Todo{}).Where("daily_id = ?", parent).Select("todo_id")
	case idgen.Chat:
		query = db.Model(&model.AiChat{}).Where("plan_id = ?", parent).Select("chat_id")
	default:
		return 0, fmt.Errorf("未知主键类型: %s", kind.Name)
	}
	if err := query.Scan(&ids).Error; err != nil {
		return 0, fmt.Errorf("读取 %s 兄弟主键失败: %w", kind.Name, err)
	}
	return kind.MaxSuffix(parent, ids), nil
}
