package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tiredheron/Stufit/config"
	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/repository"
	"github.com/tiredheron/Stufit/pkg/caldate"
)

// RecordService 学习记录概要
type RecordService interface {
	Summary(ctx context.Context, userID string) (*dto.RecordSummaryResponse, error)
}

type recordService struct {
	repo    *repository.Repository
	ranking RankingService
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewRecordService 创建 RecordService 实例
func NewRecordService(cfg *config.Config, repo *repository.Repository, ranking RankingService, logger *zap.Logger) RecordService {
	return &recordService{
		repo:    repo,
		ranking: ranking,
		loc:     cfg.Plan.Location(),
		now:     time.Now,
		logger:  logger,
	}
}

// Summary 今日学习时长、个人/学科名次（未上榜为 0）与完整计划树
func (s *recordService) Summary(ctx context.Context, userID string) (*dto.RecordSummaryResponse, error) {
	personal, err := s.ranking.GetPersonalRanking(ctx, userID)
	if err != nil {
		return nil, err
	}
	department, err := s.ranking.GetDepartmentRanking(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := caldate.TodayDate(s.now(), s.loc)
	todaySeconds, err := s.repo.Todo.SumTimeByUserAndDate(ctx, userID, today)
	if err != nil {
		s.logger.Error("统计今日学习时间失败", zap.String("user_id", userID), zap.Error(err))
		return nil, storageError("统计今日学习时间", err)
	}

	rows, err := s.repo.Plan.TreeRowsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询计划树失败", zap.String("user_id", userID), zap.Error(err))
		return nil, storageError("查询计划树", err)
	}

	summary := dto.RecordSummary{TodayTime: todaySeconds}
	if personal.MyRank != nil {
		summary.OverallRank = *personal.MyRank
	}
	if department.MyDepartmentRank != nil {
		summary.MajorRank = *department.MyDepartmentRank
	}

	return &dto.RecordSummaryResponse{
		UserID:  userID,
		Summary: summary,
		Plans:   AssemblePlanTree(rows),
	}, nil
}
