package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/tiredheron/Stufit/internal/dto"
	"github.com/tiredheron/Stufit/internal/model"
	"github.com/tiredheron/Stufit/internal/repository"
	"github.com/tiredheron/Stufit/pkg/caldate"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptyPlan    = errors.New("该计划下暂无日计划")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 计划树导出为 Excel (.xlsx)，每个 Todo 一行
//   - 日计划导出为 iCalendar (.ics)，每个日计划一个全天事件，Todo 列在 DESCRIPTION 中
//   - 返回内容与建议文件名，由 Handler 层设置下载响应头
type ExportService interface {
	ExportPlanXLSX(ctx context.Context, userID, planID string) (*bytes.Buffer, string, error)
	ExportPlanICS(ctx context.Context, userID, planID string) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, now: time.Now, logger: logger}
}

// loadTree 校验归属并组装单个计划的树
func (s *exportService) loadTree(ctx context.Context, userID, planID string) (*dto.PlanNode, error) {
	if _, err := ownedPlan(ctx, s.repo, userID, planID); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("查询计划失败", zap.String("plan_id", planID), zap.Error(err))
		return nil, storageError("查询计划", err)
	}

	rows, err := s.repo.Plan.TreeRowsByPlan(ctx, planID)
	if err != nil {
		s.logger.Error("查询计划树失败", zap.String("plan_id", planID), zap.Error(err))
		return nil, storageError("查询计划树", err)
	}
	tree := AssemblePlanTree(rows)
	if len(tree) == 0 || len(tree[0].DailyPlans) == 0 {
		return nil, ErrExportEmptyPlan
	}
	return &tree[0], nil
}

// ═══════════════════════════════════════════════════════════
// ExportPlanXLSX 计划树导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：计划标题（合并单元格）
//   - 第 2 行：表头 Day / 日期 / 日计划 / Todo / 内容 / 状态 / 学习时长(分钟)
//   - 之后每个 Todo 一行；没有 Todo 的日计划输出一行占位 "-"

func (s *exportService) ExportPlanXLSX(ctx context.Context, userID, planID string) (*bytes.Buffer, string, error) {
	plan, err := s.loadTree(ctx, userID, planID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "学习计划"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Day", "日期", "日计划", "Todo", "内容", "状态", "学习时长(分钟)"}
	widths := []float64{6, 12, 28, 28, 40, 10, 16}
	for i, w := range widths {
		col := colName(i)
		_ = f.SetColWidth(sheetName, col, col, w)
	}

	// 样式
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	_ = f.SetCellValue(sheetName, "A1", plan.Title)
	_ = f.MergeCell(sheetName, "A1", cell(colName(len(headers)-1), 1))
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	// 表头
	for i, h := range headers {
		_ = f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	_ = f.SetCellStyle(sheetName, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	// 数据行
	statusNames := todoStatusNames()
	row := 3
	for dayIdx, daily := range plan.DailyPlans {
		if len(daily.Todos) == 0 {
			values := []interface{}{dayIdx + 1, daily.StartDate, daily.Title, "-", "", "", 0}
			if err := f.SetSheetRow(sheetName, cell("A", row), &values); err != nil {
				s.logger.Error("写入 Excel 行失败", zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
			row++
			continue
		}
		for _, todo := range daily.Todos {
			values := []interface{}{
				dayIdx + 1,
				daily.StartDate,
				daily.Title,
				todo.Title,
				todo.Content,
				statusNames[todo.StatusID],
				todo.AccumulatedTime / 60,
			}
			if err := f.SetSheetRow(sheetName, cell("A", row), &values); err != nil {
				s.logger.Error("写入 Excel 行失败", zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
			row++
		}
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("%s.xlsx", planID), nil
}

// ═══════════════════════════════════════════════════════════
// ExportPlanICS 日计划导出为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportPlanICS(ctx context.Context, userID, planID string) ([]byte, string, error) {
	plan, err := s.loadTree(ctx, userID, planID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Stufit//Study Plan//KO")
	cal.SetXWRCalName(plan.Title)

	statusNames := todoStatusNames()
	stamp := s.now().UTC()
	for _, daily := range plan.DailyPlans {
		day, err := caldate.Parse(daily.StartDate)
		if err != nil {
			continue
		}
		event := cal.AddEvent(daily.DailyID + "@stufit")
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s · %s", plan.Title, daily.Title))

		lines := make([]string, 0, len(daily.Todos))
		for _, todo := range daily.Todos {
			lines = append(lines, fmt.Sprintf("[%s] %s", statusNames[todo.StatusID], todo.Title))
		}
		if len(lines) > 0 {
			event.SetDescription(strings.Join(lines, "\n"))
		}
	}

	return []byte(cal.Serialize()), fmt.Sprintf("%s.ics", planID), nil
}

// ── 辅助函数 ──

func todoStatusNames() map[string]string {
	names := make(map[string]string)
	for _, st := range model.DefaultTodoStatuses() {
		names[st.StatusID] = st.StatusName
	}
	return names
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
