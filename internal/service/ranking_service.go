package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/config"
	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/internal/repository"
	"github.com/tiredheron/Stufit/pkg/database"
)

// RankingService 排行榜业务接口（每次请求实时计算，不缓存）
type RankingService interface {
	GetPersonalRanking(ctx context.Context, userID string) (*dto.PersonalRankingResponse, error)
	GetDepartmentRanking(ctx context.Context, userID string) (*dto.DepartmentRankingResponse, error)
}

type rankingService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewRankingService 创建 RankingService 实例
func NewRankingService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) RankingService {
	return &rankingService{
		repo:   repo,
		loc:    cfg.Plan.Location(),
		now:    time.Now,
		logger: logger,
	}
}

// rankingInput 一次排行计算所需的原始数据
type rankingInput struct {
	caller   *model.User
	roster   []model.User
	records  []repository.StudyRecord
	curStart time.Time
}

func (s *rankingService) load(ctx context.Context, userID string) (*rankingInput, error) {
	prevStart, curStart, end := RankingWindow(s.now(), s.loc)

	var in rankingInput
	err := database.Retry(ctx, func(ctx context.Context) error {
		in = rankingInput{curStart: curStart}

		caller, err := s.repo.User.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		in.caller = caller

		if in.roster, err = s.repo.User.ListAll(ctx); err != nil {
			return err
		}
		in.records, err = s.repo.Ranking.DoneRecords(ctx, prevStart, end)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("读取排行数据失败", zap.String("user_id", userID), zap.Error(err))
		return nil, storageError("读取排行数据", err)
	}
	return &in, nil
}

func (s *rankingService) GetPersonalRanking(ctx context.Context, userID string) (*dto.PersonalRankingResponse, error) {
	in, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildPersonalRanking(userID, in.caller.DepartmentName, in.roster, in.records, in.curStart), nil
}

func (s *rankingService) GetDepartmentRanking(ctx context.Context, userID string) (*dto.DepartmentRankingResponse, error) {
	in, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildDepartmentRanking(in.caller.DepartmentName, in.roster, in.records, in.curStart), nil
}
