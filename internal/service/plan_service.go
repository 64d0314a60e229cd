package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiredheron/Stufit/config"
	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/internal/repository"
	"github.com/tiredheron/Stufit/pkg/aiclient"
	"github.com/tiredheron/Stufit/pkg/caldate"
	"github.com/tiredheron/Stufit/pkg/docparse"
	apperrors "github.com/tiredheron/Stufit/pkg/errors"
	"github.com/tiredheron/Stufit/pkg/idgen"
	"github.com/tiredheron/Stufit/pkg/redis"
)

// ── 计划模块业务错误 ──

var (
	ErrPlanNotFound         = apperrors.Wrap(apperrors.ErrNotFound, "计划不存在")
	ErrPlanForbidden        = errors.New("无权访问该计划")
	ErrPlanStartDateMissing = apperrors.Wrap(apperrors.ErrValidation, "计划未设置开始日期")
	ErrInvalidDayBlocks     = apperrors.Wrap(apperrors.ErrValidation, "todos 必须为非空数组，day ≥ 1 且每个 Todo 需要标题")
	ErrInvalidDate          = apperrors.Wrap(apperrors.ErrValidation, "日期格式应为 YYYY-MM-DD")
	ErrNoDayMarkers         = apperrors.Wrap(apperrors.ErrValidation, "计划文本中未检测到 Day 标记")
	ErrUnsupportedDocument  = apperrors.Wrap(apperrors.ErrValidation, "不支持的文件类型")
	ErrDocumentNoText       = apperrors.Wrap(apperrors.ErrValidation, "文件中未提取到文本")
	ErrUpstreamEmptyTodos   = apperrors.Wrap(apperrors.ErrUpstream, "AI 服务未返回有效的 Todo")
	ErrUpstreamUnavailable  = apperrors.Wrap(apperrors.ErrUpstream, "AI 服务调用失败")
)

// UploadedDocument 随 AI 对话上传的学习资料
type UploadedDocument struct {
	FileName string
	Data     []byte
}

// PlanService 学习计划业务接口
type PlanService interface {
	Create(ctx context.Context, userID string, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	List(ctx context.Context, userID string) (*dto.PlanListResponse, error)
	FullList(ctx context.Context, userID string) (*dto.PlanTreeResponse, error)
	// SaveAIPlan 结构化导入：整棵 日计划/Todo 树在一个事务内写入
	SaveAIPlan(ctx context.Context, userID string, req *dto.SaveAIPlanRequest) (*dto.SaveAIPlanResponse, error)
	// SaveFromProse 文本导入：按 Day 标记切块，Todo 按固定比例分配
	SaveFromProse(ctx context.Context, userID string, req *dto.SaveProseRequest) (*dto.SaveProseResponse, error)
	AIChat(ctx context.Context, userID string, req *dto.AIChatRequest, doc *UploadedDocument) (*dto.AIChatResponse, error)
}

type planService struct {
	cfg      *config.Config
	repo     *repository.Repository
	ai       PlanGenerator
	sessions SessionStore
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewPlanService 创建 PlanService 实例，sessions 可为 nil
func NewPlanService(
	cfg *config.Config,
	repo *repository.Repository,
	ai PlanGenerator,
	sessions SessionStore,
	logger *zap.Logger,
) PlanService {
	return &planService{
		cfg:      cfg,
		repo:     repo,
		ai:       ai,
		sessions: sessions,
		loc:      cfg.Plan.Location(),
		now:      time.Now,
		logger:   logger,
	}
}

// ────────────────────── Create / List ──────────────────────

func (s *planService) Create(ctx context.Context, userID string, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	startISO := req.StartDate
	if startISO == "" {
		startISO = caldate.Today(s.now(), s.loc)
	}
	start, err := caldate.Parse(startISO)
	if err != nil {
		return nil, ErrInvalidDate
	}
	var end *time.Time
	if req.EndDate != "" {
		e, err := caldate.Parse(req.EndDate)
		if err != nil || e.Before(start) {
			return nil, ErrInvalidDate
		}
		end = &e
	}

	var plan *model.Plan
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		plan = nil
		if _, err := tx.User.GetByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		planID, err := tx.Sequence.NextID(ctx, idgen.Plan, userID)
		if err != nil {
			return err
		}
		p := &model.Plan{
			PlanID:      planID,
			UserID:      userID,
			Title:       req.Title,
			Description: req.Description,
			StartDate:   &start,
			EndDate:     end,
		}
		if err := tx.Plan.Create(ctx, p); err != nil {
			return err
		}
		plan = p
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("创建计划失败", zap.String("user_id", userID), zap.Error(err))
		return nil, storageError("创建计划", err)
	}

	s.logger.Info("创建计划", zap.String("plan_id", plan.PlanID), zap.String("user_id", userID))
	return toPlanResponse(plan), nil
}

func (s *planService) List(ctx context.Context, userID string) (*dto.PlanListResponse, error) {
	plans, err := s.repo.Plan.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询计划列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, storageError("查询计划列表", err)
	}
	items := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		items = append(items, *toPlanResponse(&plans[i]))
	}
	return &dto.PlanListResponse{Plans: items}, nil
}

func (s *planService) FullList(ctx context.Context, userID string) (*dto.PlanTreeResponse, error) {
	rows, err := s.repo.Plan.TreeRowsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询计划树失败", zap.String("user_id", userID), zap.Error(err))
		return nil, storageError("查询计划树", err)
	}
	return &dto.PlanTreeResponse{Plans: AssemblePlanTree(rows)}, nil
}

// ────────────────────── 结构化导入 ──────────────────────

func (s *planService) SaveAIPlan(ctx context.Context, userID string, req *dto.SaveAIPlanRequest) (*dto.SaveAIPlanResponse, error) {
	if req.PlanID == "" || req.SessionID == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "plan_id 与 session_id 为必填项")
	}
	if err := validateDayBlocks(req.Todos); err != nil {
		return nil, err
	}

	sess := s.ownedSession(ctx, userID, req.PlanID, req.SessionID)
	description := req.AIPlanText
	if description == "" && sess != nil {
		description = sess.PlanText
	}

	var resp *dto.SaveAIPlanResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		resp = &dto.SaveAIPlanResponse{DailyInfo: make([]dto.DailyInfo, 0, len(req.Todos))}

		plan, err := ownedPlan(ctx, tx, userID, req.PlanID)
		if err != nil {
			return err
		}
		if plan.StartDate == nil {
			return ErrPlanStartDateMissing
		}
		start := caldate.Normalize(*plan.StartDate)

		for _, block := range req.Todos {
			date, err := caldate.DayDate(start, block.Day)
			if err != nil {
				return ErrInvalidDayBlocks
			}
			daily, err := createDaily(ctx, tx, idgen.Daily, plan.PlanID, fmt.Sprintf("Day %d", block.Day), description, date)
			if err != nil {
				return err
			}
			for _, item := range block.Todos {
				if err := createTodo(ctx, tx, daily.DailyID, item.Title, item.Content, item.AccumulatedTime); err != nil {
					return err
				}
				resp.SavedTodoCount++
			}
			resp.SavedDailyCount++
			resp.DailyInfo = append(resp.DailyInfo, dto.DailyInfo{
				Day:     block.Day,
				DailyID: daily.DailyID,
				Date:    date,
			})
		}
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("保存 AI 计划失败", zap.String("plan_id", req.PlanID), zap.Error(err))
		return nil, storageError("保存 AI 计划", err)
	}

	resp.Success = true
	if sess != nil {
		s.dropSession(ctx, req.SessionID)
	}
	s.logger.Info("保存 AI 计划",
		zap.String("plan_id", req.PlanID),
		zap.Int("daily", resp.SavedDailyCount),
		zap.Int("todos", resp.SavedTodoCount),
	)
	return resp, nil
}

// validateDayBlocks 校验 AI 提议的日块（不可信输入）
func validateDayBlocks(blocks []dto.SavePlanDay) error {
	if len(blocks) == 0 {
		return ErrInvalidDayBlocks
	}
	for _, b := range blocks {
		if b.Day < 1 {
			return ErrInvalidDayBlocks
		}
		for _, t := range b.Todos {
			if strings.TrimSpace(t.Title) == "" {
				return ErrInvalidDayBlocks
			}
			if t.AccumulatedTime != nil && *t.AccumulatedTime < 0 {
				return ErrInvalidDayBlocks
			}
		}
	}
	return nil
}

// ────────────────────── 文本导入 ──────────────────────

func (s *planService) SaveFromProse(ctx context.Context, userID string, req *dto.SaveProseRequest) (*dto.SaveProseResponse, error) {
	plan, err := ownedPlan(ctx, s.repo, userID, req.PlanID)
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, storageError("查询计划", err)
	}

	// 先检查 Day 标记，避免无效文本触发 AI 调用
	markers := ExtractDayMarkers(req.PlanText)
	if len(markers) == 0 {
		return nil, ErrNoDayMarkers
	}

	start := req.StartDate
	switch {
	case start != "":
		if _, err := caldate.Parse(start); err != nil {
			return nil, ErrInvalidDate
		}
	case plan.StartDate != nil:
		start = caldate.Normalize(*plan.StartDate)
	default:
		return nil, ErrPlanStartDateMissing
	}

	todos, err := s.ai.PlanToTodos(ctx, req.PlanText)
	if err != nil {
		if errors.Is(err, aiclient.ErrEmptyTodos) {
			return nil, ErrUpstreamEmptyTodos
		}
		s.logger.Warn("AI 服务调用失败", zap.String("plan_id", req.PlanID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	for _, t := range todos {
		if strings.TrimSpace(t.Title) == "" || (t.AccumulatedTime != nil && *t.AccumulatedTime < 0) {
			return nil, ErrUpstreamEmptyTodos
		}
	}

	blocks := make([][]aiclient.TodoItem, len(markers))
	for i, b := range DistributeTodos(len(todos), len(markers), s.cfg.Plan.TodosPerDayLegacy) {
		blocks[b] = append(blocks[b], todos[i])
	}

	var resp *dto.SaveProseResponse
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		resp = &dto.SaveProseResponse{}

		if err := tx.Plan.UpdateDescription(ctx, plan.PlanID, req.PlanText); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
		for i, marker := range markers {
			date, err := caldate.AddDays(start, i)
			if err != nil {
				return ErrInvalidDate
			}
			daily, err := createDaily(ctx, tx, idgen.LegacyDaily, plan.PlanID, marker, "", date)
			if err != nil {
				return err
			}
			resp.SavedDaily++
			for _, item := range blocks[i] {
				if err := createTodo(ctx, tx, daily.DailyID, item.Title, item.Content, item.AccumulatedTime); err != nil {
					return err
				}
				resp.SavedTodos++
			}
		}
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("保存文本计划失败", zap.String("plan_id", req.PlanID), zap.Error(err))
		return nil, storageError("保存文本计划", err)
	}

	resp.Success = true
	s.logger.Info("保存文本计划",
		zap.String("plan_id", req.PlanID),
		zap.Int("daily", resp.SavedDaily),
		zap.Int("todos", resp.SavedTodos),
	)
	return resp, nil
}

// ────────────────────── AI 对话 ──────────────────────

func (s *planService) AIChat(ctx context.Context, userID string, req *dto.AIChatRequest, doc *UploadedDocument) (*dto.AIChatResponse, error) {
	if req.PlanID != "" {
		if _, err := ownedPlan(ctx, s.repo, userID, req.PlanID); err != nil {
			if isDomainError(err) {
				return nil, err
			}
			return nil, storageError("查询计划", err)
		}
	}

	var documentText string
	var fileName *string
	if doc != nil {
		text, err := docparse.Extract(doc.FileName, doc.Data)
		switch {
		case errors.Is(err, docparse.ErrUnsupportedType):
			return nil, ErrUnsupportedDocument
		case errors.Is(err, docparse.ErrNoText):
			return nil, ErrDocumentNoText
		case err != nil:
			s.logger.Warn("解析上传文件失败", zap.String("file", doc.FileName), zap.Error(err))
			return nil, ErrDocumentNoText
		}
		documentText = text
		name := doc.FileName
		fileName = &name
	}

	result, err := s.ai.Chat(ctx, req.Message, documentText)
	if err != nil {
		s.logger.Warn("AI 对话失败", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	days := sanitizeDayBlocks(result.Todos)
	todoCount := 0
	for _, d := range days {
		todoCount += len(d.Todos)
	}

	sessionID := result.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s.bufferSession(ctx, sessionID, &redis.AISession{
		UserID:    userID,
		PlanID:    req.PlanID,
		PlanText:  result.Answer,
		CreatedAt: s.now().UTC(),
	}, days)

	if req.PlanID != "" {
		err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			if _, err := appendChat(ctx, tx, req.PlanID, model.ChatRoleUser, req.Message, fileName); err != nil {
				return err
			}
			_, err := appendChat(ctx, tx, req.PlanID, model.ChatRoleAssistant, result.Answer, nil)
			return err
		})
		if err != nil {
			s.logger.Error("写入对话记录失败", zap.String("plan_id", req.PlanID), zap.Error(err))
			return nil, storageError("写入对话记录", err)
		}
	}

	return &dto.AIChatResponse{
		SessionID: sessionID,
		Answer:    result.Answer,
		TodoCount: todoCount,
		Todos:     days,
	}, nil
}

// sanitizeDayBlocks 丢弃 day < 1 的块和缺少标题的 Todo，负的 accumulated_time 视为未给出
func sanitizeDayBlocks(blocks []aiclient.DayBlock) []dto.SavePlanDay {
	days := make([]dto.SavePlanDay, 0, len(blocks))
	for _, b := range blocks {
		if b.Day < 1 {
			continue
		}
		day := dto.SavePlanDay{Day: b.Day, Todos: make([]dto.SavePlanTodo, 0, len(b.Todos))}
		for _, t := range b.Todos {
			title := strings.TrimSpace(t.Title)
			if title == "" {
				continue
			}
			acc := t.AccumulatedTime
			if acc != nil && *acc < 0 {
				acc = nil
			}
			day.Todos = append(day.Todos, dto.SavePlanTodo{Title: title, Content: t.Content, AccumulatedTime: acc})
		}
		days = append(days, day)
	}
	return days
}

// ── AI 会话缓冲 ──

func (s *planService) bufferSession(ctx context.Context, sessionID string, sess *redis.AISession, days []dto.SavePlanDay) {
	if s.sessions == nil {
		return
	}
	raw, err := json.Marshal(days)
	if err != nil {
		s.logger.Warn("序列化 AI 会话失败", zap.Error(err))
		return
	}
	sess.Todos = raw
	if err := s.sessions.SaveSession(ctx, sessionID, sess, s.cfg.AI.SessionTTL); err != nil {
		s.logger.Warn("写入 AI 会话缓冲失败", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// ownedSession 读取属于 userID 且未绑定其他计划的会话缓冲，否则返回 nil
func (s *planService) ownedSession(ctx context.Context, userID, planID, sessionID string) *redis.AISession {
	if s.sessions == nil {
		return nil
	}
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, redis.ErrSessionNotFound) {
			s.logger.Warn("读取 AI 会话缓冲失败", zap.String("session_id", sessionID), zap.Error(err))
		}
		return nil
	}
	if sess.UserID != userID || (sess.PlanID != "" && sess.PlanID != planID) {
		s.logger.Warn("忽略不属于当前用户或计划的 AI 会话",
			zap.String("session_id", sessionID),
			zap.String("user_id", userID),
			zap.String("plan_id", planID),
		)
		return nil
	}
	return sess
}

func (s *planService) dropSession(ctx context.Context, sessionID string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		s.logger.Warn("删除 AI 会话缓冲失败", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// ── 辅助函数 ──

// ownedPlan 读取计划并校验归属
func ownedPlan(ctx context.Context, repo *repository.Repository, userID, planID string) (*model.Plan, error) {
	plan, err := repo.Plan.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanForbidden
	}
	return plan, nil
}

func createDaily(ctx context.Context, tx *repository.Repository, kind idgen.Kind, planID, title, description, date string) (*model.DailyPlan, error) {
	day, err := caldate.Parse(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	dailyID, err := tx.Sequence.NextID(ctx, kind, planID)
	if err != nil {
		return nil, err
	}
	daily := &model.DailyPlan{
		DailyID:     dailyID,
		PlanID:      planID,
		Title:       title,
		Description: description,
		StartDate:   day,
		EndDate:     day,
		IsAIPlan:    true,
	}
	if err := tx.Daily.Create(ctx, daily); err != nil {
		return nil, err
	}
	return daily, nil
}

func createTodo(ctx context.Context, tx *repository.Repository, dailyID, title, content string, accumulated *int64) error {
	todoID, err := tx.Sequence.NextID(ctx, idgen.Todo, dailyID)
	if err != nil {
		return err
	}
	todo := &model.Todo{
		TodoID:   todoID,
		DailyID:  dailyID,
		Title:    title,
		Content:  content,
		StatusID: model.StatusNotStarted,
	}
	if accumulated != nil {
		todo.AccumulatedTime = *accumulated
	}
	return tx.Todo.Create(ctx, todo)
}

func toPlanResponse(p *model.Plan) *dto.PlanResponse {
	resp := &dto.PlanResponse{
		PlanID:      p.PlanID,
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		IsAIPlan:    p.IsAIPlan,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.StartDate != nil {
		d := caldate.Normalize(*p.StartDate)
		resp.StartDate = &d
	}
	if p.EndDate != nil {
		d := caldate.Normalize(*p.EndDate)
		resp.EndDate = &d
	}
	return resp
}
